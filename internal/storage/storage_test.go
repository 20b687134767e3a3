package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

func newTestKV(t *testing.T) (*KV, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewKV(client, logging.Default()), mr
}

func TestSaveLoadRoundTrip(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()

	type record struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}

	kv.Save(ctx, KeyClients, []record{{Name: "Dana Levi", Phone: "0521234567"}})

	var got []record
	require.True(t, kv.Load(ctx, KeyClients, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Dana Levi", got[0].Name)
}

func TestLoadAbsentKey(t *testing.T) {
	kv, _ := newTestKV(t)

	var got []string
	assert.False(t, kv.Load(context.Background(), KeyWaitingList, &got))
	assert.Empty(t, got)
}

func TestLoadMalformedPayload(t *testing.T) {
	kv, mr := newTestKV(t)
	mr.Set(KeyClients, "{not json")

	var got []string
	assert.False(t, kv.Load(context.Background(), KeyClients, &got))

	_, ok := kv.LoadRaw(context.Background(), KeyClients)
	assert.False(t, ok)
}

func TestSaveSwallowsWriteErrors(t *testing.T) {
	kv, mr := newTestKV(t)
	mr.Close()

	// Must not panic or surface the failure.
	kv.Save(context.Background(), KeyClients, []string{"x"})

	err := kv.SaveChecked(context.Background(), KeyClients, []string{"x"})
	assert.Error(t, err)
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()
	dir := t.TempDir()

	kv.Save(ctx, KeyClients, []map[string]string{{"name": "Dana"}})
	kv.Save(ctx, KeyAppointments, []map[string]string{{"treatment": "Botox"}})
	kv.Save(ctx, KeyWaitingList, []map[string]string{{"clientName": "Noa"}})

	path, err := kv.CreateBackup(ctx, dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "clinic-backup-"))
	assert.True(t, strings.HasSuffix(path, ".json"))

	_, ok := kv.LastBackupTime(ctx)
	assert.True(t, ok)

	// Restore into a fresh store.
	fresh, _ := newTestKV(t)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	backup, err := fresh.RestoreFromBackup(ctx, f)
	require.NoError(t, err)
	require.NotNil(t, backup)

	var clients []map[string]string
	require.True(t, fresh.Load(ctx, KeyClients, &clients))
	assert.Equal(t, "Dana", clients[0]["name"])

	var appts []map[string]string
	require.True(t, fresh.Load(ctx, KeyAppointments, &appts))
	assert.Equal(t, "Botox", appts[0]["treatment"])

	var waiting []map[string]string
	require.True(t, fresh.Load(ctx, KeyWaitingList, &waiting))
	assert.Equal(t, "Noa", waiting[0]["clientName"])
}

func TestBackupTimestampFormat(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()
	dir := t.TempDir()

	path, err := kv.CreateBackup(ctx, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var backup Backup
	require.NoError(t, json.Unmarshal(data, &backup))
	_, err = time.Parse(time.RFC3339, backup.Timestamp)
	assert.NoError(t, err)

	// Absent collections are emitted as empty arrays, never null.
	assert.Equal(t, "[]", string(backup.Clients))
	assert.Equal(t, "[]", string(backup.WaitingList))
}

func TestRestoreRejectsMalformedFile(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()

	kv.Save(ctx, KeyClients, []string{"keep-me"})

	_, err := kv.RestoreFromBackup(ctx, strings.NewReader("{broken"))
	require.ErrorIs(t, err, ErrInvalidBackup)

	// A failed restore must not touch existing data.
	var clients []string
	require.True(t, kv.Load(ctx, KeyClients, &clients))
	assert.Equal(t, []string{"keep-me"}, clients)
}

func TestRestorePartialDocumentClearsAbsentKeys(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()

	kv.Save(ctx, KeyAppointments, []string{"existing"})

	backup, err := kv.RestoreFromBackup(ctx, strings.NewReader(`{"clients":[{"name":"Dana"}]}`))
	require.NoError(t, err)
	assert.NotNil(t, backup.Clients)
	assert.Nil(t, backup.Appointments)

	// A collection missing from the document is emptied in storage so a
	// later reload agrees with the restored in-memory state.
	var appts []string
	require.True(t, kv.Load(ctx, KeyAppointments, &appts))
	assert.Empty(t, appts)
}
