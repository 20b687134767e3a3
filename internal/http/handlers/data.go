package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/clinicdesk/clinicdesk/internal/clinic"
	"github.com/clinicdesk/clinicdesk/internal/importexport"
	"github.com/clinicdesk/clinicdesk/internal/observability/metrics"
	"github.com/clinicdesk/clinicdesk/internal/patients"
	"github.com/clinicdesk/clinicdesk/internal/storage"
	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

// DataHandler covers the whole-state surface: backup, restore, and the
// CSV/vCard import and export flows.
type DataHandler struct {
	store     *clinic.Store
	kv        *storage.KV
	backupDir string
	logger    *logging.Logger
	metrics   *metrics.ClinicMetrics
}

type DataConfig struct {
	Store     *clinic.Store
	KV        *storage.KV
	BackupDir string
	Logger    *logging.Logger
	Metrics   *metrics.ClinicMetrics
}

func NewDataHandler(cfg DataConfig) *DataHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &DataHandler{
		store:     cfg.Store,
		kv:        cfg.KV,
		backupDir: cfg.BackupDir,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
}

// CreateBackup snapshots the three collections to a dated file and
// streams it back as a download.
// Route: POST /data/backup
func (h *DataHandler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	path, err := h.kv.CreateBackup(r.Context(), h.backupDir)
	if err != nil {
		h.logger.Error("backup failed", "error", err)
		h.metrics.ObserveBackup("create", "error")
		http.Error(w, "backup failed", http.StatusInternalServerError)
		return
	}
	h.metrics.ObserveBackup("create", "ok")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(path))
	f, err := os.Open(path)
	if err != nil {
		h.logger.Error("backup file unreadable", "path", path, "error", err)
		http.Error(w, "backup failed", http.StatusInternalServerError)
		return
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Error("backup download interrupted", "error", err)
	}
}

// Restore replaces all collections from an uploaded backup file. The
// upload is parsed in full before anything is overwritten.
// Route: POST /data/restore
func (h *DataHandler) Restore(w http.ResponseWriter, r *http.Request) {
	backup, err := h.kv.RestoreFromBackup(r.Context(), r.Body)
	if err != nil {
		h.metrics.ObserveBackup("restore", "error")
		writeDomainError(w, err)
		return
	}
	if err := h.store.ReplaceAll(r.Context(), backup); err != nil {
		h.metrics.ObserveBackup("restore", "error")
		writeDomainError(w, err)
		return
	}
	h.metrics.ObserveBackup("restore", "ok")
	writeJSON(w, http.StatusOK, map[string]string{"timestamp": backup.Timestamp})
}

// LastBackup reports when the last backup was taken.
// Route: GET /data/backup/last
func (h *DataHandler) LastBackup(w http.ResponseWriter, r *http.Request) {
	ts, ok := h.kv.LastBackupTime(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"timestamp": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"timestamp": ts.Format(time.RFC3339)})
}

// ImportCSV ingests a CSV contact sheet into the client collection.
// Route: POST /data/import/csv
func (h *DataHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	h.importClients(w, r, "csv", importexport.ImportCSV)
}

// ImportVCard ingests a vCard blob into the client collection.
// Route: POST /data/import/vcard
func (h *DataHandler) ImportVCard(w http.ResponseWriter, r *http.Request) {
	h.importClients(w, r, "vcard", importexport.ImportVCard)
}

func (h *DataHandler) importClients(
	w http.ResponseWriter,
	r *http.Request,
	format string,
	parse func(io.Reader) ([]patients.Client, importexport.Report, error),
) {
	clients, report, err := parse(r.Body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	for _, c := range clients {
		if _, err := h.store.AddClient(r.Context(), c); err != nil {
			// Already validated by the parser; log and keep going.
			h.logger.Warn("imported client rejected", "name", c.Name, "error", err)
			report.Accepted--
			report.Skipped++
		}
	}
	h.metrics.ObserveImport(format, "ok", report.Accepted)
	writeJSON(w, http.StatusOK, report)
}

// ExportCSV downloads the client collection as CSV.
// Route: GET /data/export/csv
func (h *DataHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=clinic-clients.csv")
	if err := importexport.ExportCSV(w, h.store.Clients()); err != nil {
		h.logger.Error("csv export failed", "error", err)
	}
}

// ExportVCard downloads the client collection as a vCard blob.
// Route: GET /data/export/vcard
func (h *DataHandler) ExportVCard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vcard")
	w.Header().Set("Content-Disposition", "attachment; filename=clinic-clients.vcf")
	if err := importexport.ExportVCard(w, h.store.Clients()); err != nil {
		h.logger.Error("vcard export failed", "error", err)
	}
}
