package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinicdesk/clinicdesk/internal/appointments"
	"github.com/clinicdesk/clinicdesk/internal/clinic"
	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

// AppointmentsHandler serves the appointment collection.
type AppointmentsHandler struct {
	store  *clinic.Store
	logger *logging.Logger
}

func NewAppointmentsHandler(store *clinic.Store, logger *logging.Logger) *AppointmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentsHandler{store: store, logger: logger}
}

type appointmentRequest struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	EndTime    time.Time `json:"endTime"`
	ClientID   string    `json:"clientId"`
	ClientName string    `json:"clientName"`
	Treatment  string    `json:"treatment"`
	Notes      string    `json:"notes"`
	Status     string    `json:"status"`
}

// List returns appointments, optionally filtered to a day. Cancelled
// entries are excluded unless includeCancelled=true.
// Route: GET /appointments?date=2025-06-05&includeCancelled=true
func (h *AppointmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		writeJSON(w, http.StatusOK, h.store.Appointments())
		return
	}
	day, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("includeCancelled") == "true" {
		writeJSON(w, http.StatusOK, h.store.AppointmentsOnIncludingCancelled(day))
		return
	}
	writeJSON(w, http.StatusOK, h.store.AppointmentsOn(day))
}

// Upsert creates or edits an appointment. A payload with a known ID
// replaces that appointment in place.
// Route: POST /appointments
func (h *AppointmentsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	appt, err := h.store.UpsertAppointment(r.Context(), appointments.BuildRequest{
		ID:          req.ID,
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		Treatment:   req.Treatment,
		Start:       req.Date,
		EndTime:     req.EndTime,
		Notes:       req.Notes,
		PriorStatus: req.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetStatus applies a status transition (check-in, cancel, restore).
// Route: POST /appointments/{id}/status
func (h *AppointmentsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	appt, err := h.store.SetAppointmentStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// Delete permanently removes an appointment.
// Route: DELETE /appointments/{id}
func (h *AppointmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAppointment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
