package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/internal/appointments"
	"github.com/clinicdesk/clinicdesk/internal/clinic"
	"github.com/clinicdesk/clinicdesk/internal/patients"
	"github.com/clinicdesk/clinicdesk/internal/storage"
	"github.com/clinicdesk/clinicdesk/internal/treatments"
	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

type testEnv struct {
	router  chi.Router
	store   *clinic.Store
	catalog *treatments.Catalog
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := logging.New("error")
	kv := storage.NewKV(client, logger)
	catalog := treatments.NewCatalog(context.Background(), kv, logger)
	store := clinic.NewStore(context.Background(), clinic.Config{
		KV: kv, Durations: catalog, Logger: logger,
	})

	ph := NewPatientsHandler(store, logger)
	ah := NewAppointmentsHandler(store, logger)
	th := NewTreatmentsHandler(catalog, logger)
	dh := NewDataHandler(DataConfig{Store: store, KV: kv, BackupDir: t.TempDir(), Logger: logger})
	sh := NewStatsHandler(store, logger)

	r := chi.NewRouter()
	r.Get("/patients", ph.List)
	r.Post("/patients", ph.Create)
	r.Delete("/patients", ph.DeleteAll)
	r.Post("/patients/deduplicate", ph.RemoveDuplicates)
	r.Patch("/patients/{id}", ph.Update)
	r.Delete("/patients/{id}", ph.Delete)
	r.Post("/patients/{id}/history", ph.AddTreatmentRecord)
	r.Get("/patients/{id}/vcard", ph.ExportVCard)
	r.Get("/patients/{id}/whatsapp", ph.WhatsAppLink)
	r.Get("/appointments", ah.List)
	r.Post("/appointments", ah.Upsert)
	r.Post("/appointments/{id}/status", ah.SetStatus)
	r.Delete("/appointments/{id}", ah.Delete)
	r.Get("/treatments", th.List)
	r.Post("/data/backup", dh.CreateBackup)
	r.Post("/data/restore", dh.Restore)
	r.Get("/data/backup/last", dh.LastBackup)
	r.Post("/data/import/csv", dh.ImportCSV)
	r.Get("/data/export/csv", dh.ExportCSV)
	r.Post("/data/import/vcard", dh.ImportVCard)
	r.Get("/data/export/vcard", dh.ExportVCard)
	r.Get("/stats", sh.Get)

	return &testEnv{router: r, store: store, catalog: catalog}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestPatientLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/patients", map[string]string{
		"name": "Dana Levi", "phone": "0501234567",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeInto[patients.Client](t, rec)
	assert.NotEmpty(t, created.ID)

	rec = env.do(t, http.MethodPatch, "/patients/"+created.ID, map[string]string{"notes": "vip"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "vip", decodeInto[patients.Client](t, rec).Notes)

	rec = env.do(t, http.MethodPost, "/patients/"+created.ID+"/history", map[string]any{
		"treatment": "Botox", "cost": 1200,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1200.0, decodeInto[patients.Client](t, rec).TotalSpent)

	rec = env.do(t, http.MethodDelete, "/patients/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/patients/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatientValidationOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/patients", map[string]string{"phone": "0501234567"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/patients", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppointmentFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	start := time.Date(2025, time.June, 5, 18, 0, 0, 0, time.UTC)
	rec := env.do(t, http.MethodPost, "/appointments", map[string]any{
		"clientName": "Dana Levi",
		"treatment":  "Botox",
		"date":       start.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	appt := decodeInto[appointments.Appointment](t, rec)
	assert.Equal(t, appointments.StatusScheduled, appt.Status)
	assert.Equal(t, start.Add(10*time.Minute), appt.EndTime)

	// Outside working hours.
	rec = env.do(t, http.MethodPost, "/appointments", map[string]any{
		"clientName": "Dana Levi",
		"treatment":  "Botox",
		"date":       time.Date(2025, time.June, 5, 15, 0, 0, 0, time.UTC).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/appointments/"+appt.ID+"/status", map[string]string{
		"status": appointments.StatusCancelled,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/appointments?date=2025-06-05", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeInto[[]appointments.Appointment](t, rec))

	rec = env.do(t, http.MethodGet, "/appointments?date=2025-06-05&includeCancelled=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeInto[[]appointments.Appointment](t, rec), 1)

	// Completed is not reachable from cancelled.
	rec = env.do(t, http.MethodPost, "/appointments/"+appt.ID+"/status", map[string]string{
		"status": appointments.StatusCompleted,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAppointmentCreateIgnoresSuppliedStatus(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/appointments", map[string]any{
		"clientName": "Dana Levi",
		"treatment":  "Botox",
		"date":       time.Date(2025, time.June, 5, 18, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"status":     appointments.StatusCancelled,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	appt := decodeInto[appointments.Appointment](t, rec)
	assert.Equal(t, appointments.StatusScheduled, appt.Status)

	rec = env.do(t, http.MethodGet, "/appointments?date=2025-06-05", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeInto[[]appointments.Appointment](t, rec), 1)
}

func TestCSVImportExportOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	csvBody := "name,phone,email,notes\nDana Levi,0501234567,dana@example.com,vip\nNoa Bar,0529876543,,\n"
	rec := env.do(t, http.MethodPost, "/data/import/csv", csvBody)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decodeInto[map[string]int](t, rec)
	assert.Equal(t, 2, report["accepted"])

	rec = env.do(t, http.MethodGet, "/data/export/csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "name,phone,email,notes")
	assert.Contains(t, rec.Body.String(), "Dana Levi,0501234567,dana@example.com,vip")

	rec = env.do(t, http.MethodPost, "/data/import/csv", "name,phone\n,\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestVCardImportOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	card := strings.Join([]string{
		"BEGIN:VCARD", "VERSION:3.0", "FN:Dana Levi", "TEL;TYPE=CELL:0501234567", "END:VCARD",
	}, "\r\n")
	rec := env.do(t, http.MethodPost, "/data/import/vcard", card)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/data/export/vcard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FN:Dana Levi")
}

func TestBackupRestoreOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/patients", map[string]string{
		"name": "Dana Levi", "phone": "0501234567",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/data/backup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	backupBody := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "clinic-backup-")

	rec = env.do(t, http.MethodGet, "/data/backup/last", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "null")

	// Wipe and restore into the same store.
	rec = env.do(t, http.MethodDelete, "/patients", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/data/restore", backupBody)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/patients", nil)
	got := decodeInto[[]patients.Client](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "Dana Levi", got[0].Name)

	rec = env.do(t, http.MethodPost, "/data/restore", "{broken")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSingleVCardAndWhatsAppLink(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/patients", map[string]string{
		"name": "Dana Levi", "phone": "0501234567",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeInto[patients.Client](t, rec)

	rec = env.do(t, http.MethodGet, "/patients/"+created.ID+"/vcard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "TEL;TYPE=CELL:0501234567")

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/patients/%s/whatsapp?text=hi", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	link := decodeInto[map[string]string](t, rec)["link"]
	assert.Equal(t, "https://api.whatsapp.com/send?phone=972501234567&text=hi", link)
}

func TestDeduplicateOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	for _, phone := range []string{"0501234567", "050-123-4567"} {
		rec := env.do(t, http.MethodPost, "/patients", map[string]string{
			"name": "Dana Levi", "phone": phone,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/patients/deduplicate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeInto[map[string]int](t, rec)["removed"])
}

func TestStatsOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/stats?date=2025-06-05", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeInto[clinic.Stats](t, rec)
	assert.Equal(t, 0, stats.TotalClients)

	rec = env.do(t, http.MethodGet, "/stats?date=junk", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTreatmentCatalogOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/treatments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decodeInto[[]treatments.Category](t, rec)
	require.NotEmpty(t, categories)
	assert.Equal(t, "Basic Treatments", categories[0].Name)
}
