// Package handlers exposes the domain store over HTTP for the local
// shell UI. Handlers decode, call the store, and map domain errors to
// status codes; all business rules live below this layer.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicdesk/clinicdesk/internal/appointments"
	"github.com/clinicdesk/clinicdesk/internal/importexport"
	"github.com/clinicdesk/clinicdesk/internal/patients"
	"github.com/clinicdesk/clinicdesk/internal/storage"
	"github.com/clinicdesk/clinicdesk/internal/treatments"
	"github.com/clinicdesk/clinicdesk/internal/waitinglist"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeDomainError maps sentinel domain errors onto HTTP statuses.
// Unrecognized errors are treated as bad requests, not server faults:
// every store mutation validates before touching state.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, patients.ErrNotFound),
		errors.Is(err, appointments.ErrNotFound),
		errors.Is(err, waitinglist.ErrNotFound),
		errors.Is(err, treatments.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, appointments.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, importexport.ErrNoValidPatients),
		errors.Is(err, importexport.ErrUnparseable),
		errors.Is(err, storage.ErrInvalidBackup):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
