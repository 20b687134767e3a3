package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicdesk/clinicdesk/internal/clinic"
	"github.com/clinicdesk/clinicdesk/internal/importexport"
	"github.com/clinicdesk/clinicdesk/internal/messaging"
	"github.com/clinicdesk/clinicdesk/internal/patients"
	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

// PatientsHandler serves the client collection.
type PatientsHandler struct {
	store  *clinic.Store
	logger *logging.Logger
}

func NewPatientsHandler(store *clinic.Store, logger *logging.Logger) *PatientsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PatientsHandler{store: store, logger: logger}
}

// List returns all clients.
// Route: GET /patients
func (h *PatientsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Clients())
}

// Create adds a client.
// Route: POST /patients
func (h *PatientsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c patients.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	created, err := h.store.AddClient(r.Context(), c)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update patches a client.
// Route: PATCH /patients/{id}
func (h *PatientsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch clinic.ClientPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	updated, err := h.store.UpdateClient(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a client.
// Route: DELETE /patients/{id}
func (h *PatientsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAll clears the whole client collection.
// Route: DELETE /patients
func (h *PatientsHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	removed := h.store.DeleteAllClients(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// RemoveDuplicates collapses duplicate clients.
// Route: POST /patients/deduplicate
func (h *PatientsHandler) RemoveDuplicates(w http.ResponseWriter, r *http.Request) {
	removed := h.store.RemoveDuplicateClients(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// AddTreatmentRecord appends a history entry.
// Route: POST /patients/{id}/history
func (h *PatientsHandler) AddTreatmentRecord(w http.ResponseWriter, r *http.Request) {
	var rec patients.TreatmentRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	updated, err := h.store.AddTreatmentRecord(r.Context(), chi.URLParam(r, "id"), rec)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ExportVCard downloads a single client as a vCard.
// Route: GET /patients/{id}/vcard
func (h *PatientsHandler) ExportVCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, c := range h.store.Clients() {
		if c.ID == id {
			w.Header().Set("Content-Type", "text/vcard")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", c.Name+".vcf"))
			if err := importexport.ExportSingleVCard(w, c); err != nil {
				h.logger.Error("vcard export failed", "client_id", id, "error", err)
			}
			return
		}
	}
	writeDomainError(w, patients.ErrNotFound)
}

// WhatsAppLink computes the chat deep link for a client. The caller
// opens it; this endpoint only builds the string.
// Route: GET /patients/{id}/whatsapp?text=...
func (h *PatientsHandler) WhatsAppLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, c := range h.store.Clients() {
		if c.ID == id {
			link, err := messaging.Link(c.Phone, r.URL.Query().Get("text"))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"link": link})
			return
		}
	}
	writeDomainError(w, patients.ErrNotFound)
}
