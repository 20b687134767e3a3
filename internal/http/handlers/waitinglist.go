package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicdesk/clinicdesk/internal/clinic"
	"github.com/clinicdesk/clinicdesk/internal/waitinglist"
	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

// WaitingListHandler serves the waiting list.
type WaitingListHandler struct {
	store  *clinic.Store
	logger *logging.Logger
}

func NewWaitingListHandler(store *clinic.Store, logger *logging.Logger) *WaitingListHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WaitingListHandler{store: store, logger: logger}
}

// List returns the waiting list in insertion order.
// Route: GET /waiting-list
func (h *WaitingListHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.WaitingList())
}

// Add appends an entry.
// Route: POST /waiting-list
func (h *WaitingListHandler) Add(w http.ResponseWriter, r *http.Request) {
	var e waitinglist.Entry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	added, err := h.store.AddToWaitingList(r.Context(), e)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

// Remove drops an entry. Starting treatment and plain removal hit the
// same endpoint; any follow-up booking is a separate call.
// Route: DELETE /waiting-list/{id}
func (h *WaitingListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveFromWaitingList(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
