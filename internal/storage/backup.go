package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidBackup is returned when an uploaded backup file is not a
// valid JSON document. Nothing is written to storage in that case.
var ErrInvalidBackup = errors.New("storage: backup file is not valid JSON")

// Backup is the full point-in-time export of the three core
// collections. Collections are kept as raw JSON so backup and restore
// never need to understand the entity shapes.
type Backup struct {
	Clients      json.RawMessage `json:"clients"`
	Appointments json.RawMessage `json:"appointments"`
	WaitingList  json.RawMessage `json:"waitingList"`
	Timestamp    string          `json:"timestamp"`
}

// LoadRaw returns the raw JSON stored under key, or false when absent.
func (s *KV) LoadRaw(ctx context.Context, key string) (json.RawMessage, bool) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.logger.Error("storage: read failed", "key", key, "error", err)
		return nil, false
	}
	if !json.Valid(data) {
		s.logger.Warn("storage: discarding malformed payload", "key", key)
		return nil, false
	}
	return data, true
}

// saveRaw writes pre-validated JSON under key.
func (s *KV) saveRaw(ctx context.Context, key string, data json.RawMessage) error {
	if err := s.redis.Set(ctx, key, []byte(data), 0).Err(); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}

// CreateBackup snapshots the three collections into a single JSON file
// named clinic-backup-<date>.json under dir and records the backup
// timestamp. The write is all-or-nothing: a failure leaves no partial
// file behind.
func (s *KV) CreateBackup(ctx context.Context, dir string) (string, error) {
	now := time.Now().UTC()
	backup := Backup{
		Clients:      s.collectionOrEmpty(ctx, KeyClients),
		Appointments: s.collectionOrEmpty(ctx, KeyAppointments),
		WaitingList:  s.collectionOrEmpty(ctx, KeyWaitingList),
		Timestamp:    now.Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return "", fmt.Errorf("storage: marshal backup: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: backup dir: %w", err)
	}
	name := fmt.Sprintf("clinic-backup-%s.json", now.Format("2006-01-02"))
	path := filepath.Join(dir, name)

	// Write to a temp file first so a crash mid-write never leaves a
	// truncated backup with the canonical name.
	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("storage: backup temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("storage: write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("storage: close backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("storage: finalize backup: %w", err)
	}

	s.Save(ctx, KeyLastBackup, backup.Timestamp)
	return path, nil
}

// RestoreFromBackup parses r as a backup document and, only after the
// whole document parsed, writes all three collections back into
// storage. A key absent from the document is written as an empty
// collection so the stored state matches what the restore leaves in
// memory, even across a restart. The returned bundle is what the
// domain store swaps into memory wholesale.
func (s *KV) RestoreFromBackup(ctx context.Context, r io.Reader) (*Backup, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("storage: read backup: %w", err)
	}

	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	for key, raw := range map[string]json.RawMessage{
		KeyClients:      backup.Clients,
		KeyAppointments: backup.Appointments,
		KeyWaitingList:  backup.WaitingList,
	} {
		if raw == nil {
			raw = json.RawMessage("[]")
		}
		if err := s.saveRaw(ctx, key, raw); err != nil {
			return nil, err
		}
	}
	return &backup, nil
}

// LastBackupTime returns the timestamp of the most recent backup, if any.
func (s *KV) LastBackupTime(ctx context.Context) (time.Time, bool) {
	var stamp string
	if !s.Load(ctx, KeyLastBackup, &stamp) {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (s *KV) collectionOrEmpty(ctx context.Context, key string) json.RawMessage {
	if raw, ok := s.LoadRaw(ctx, key); ok {
		return raw
	}
	return json.RawMessage("[]")
}
