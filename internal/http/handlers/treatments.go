package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicdesk/clinicdesk/internal/treatments"
	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

// TreatmentsHandler serves the treatment catalog.
type TreatmentsHandler struct {
	catalog *treatments.Catalog
	logger  *logging.Logger
}

func NewTreatmentsHandler(catalog *treatments.Catalog, logger *logging.Logger) *TreatmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &TreatmentsHandler{catalog: catalog, logger: logger}
}

// List returns the catalog grouped by category.
// Route: GET /treatments
func (h *TreatmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Categories())
}

// Upsert creates or replaces a treatment.
// Route: POST /treatments
func (h *TreatmentsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var t treatments.Treatment
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if t.Name == "" {
		http.Error(w, "treatment name is required", http.StatusBadRequest)
		return
	}
	h.catalog.Upsert(r.Context(), t)
	writeJSON(w, http.StatusOK, h.catalog.Categories())
}

// Delete removes a treatment by ID.
// Route: DELETE /treatments/{id}
func (h *TreatmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
