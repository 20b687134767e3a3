// Package storage persists the clinic's collections to the local
// key-value store. It is a pass-through serializer: the in-memory state
// owned by the domain store stays authoritative for the running
// session, and a failed write here never fails the mutation that
// triggered it.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

// Storage keys. These are part of the backup/restore contract and must
// stay stable across versions.
const (
	KeyClients      = "clinic_clients"
	KeyAppointments = "clinic_appointments"
	KeyWaitingList  = "clinic_waiting_list"
	KeyTreatments   = "clinic_treatments"
	KeyLastBackup   = "clinic_last_backup"
)

// KV wraps the local key-value store with JSON serialization and the
// best-effort write semantics the rest of the app relies on.
type KV struct {
	redis  *redis.Client
	logger *logging.Logger
}

// NewKV creates a KV store over the given client.
func NewKV(client *redis.Client, logger *logging.Logger) *KV {
	if logger == nil {
		logger = logging.Default()
	}
	return &KV{redis: client, logger: logger}
}

// Save serializes v under key. Errors are logged and swallowed; callers
// treat the write as fire-and-forget.
func (s *KV) Save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("storage: marshal failed", "key", key, "error", err)
		return
	}
	if err := s.redis.Set(ctx, key, data, 0).Err(); err != nil {
		s.logger.Error("storage: write failed", "key", key, "error", err)
	}
}

// Load deserializes the value under key into dest. A missing key or a
// malformed payload is reported as absent, not as an error.
func (s *KV) Load(ctx context.Context, key string, dest any) bool {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		s.logger.Error("storage: read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("storage: discarding malformed payload", "key", key, "error", err)
		return false
	}
	return true
}

// SaveChecked is Save for the one caller that needs to know whether the
// write stuck: backup bookkeeping.
func (s *KV) SaveChecked(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: marshal %s: %w", key, err)
	}
	if err := s.redis.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}
