package appointments

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/schedule"
)

// BuildRequest carries the fields needed to create or edit an
// appointment. EndTime is optional; when zero it is derived from the
// treatment's catalog duration.
type BuildRequest struct {
	ID         string
	ClientID   string
	ClientName string
	Treatment  string
	Start      time.Time
	EndTime    time.Time
	Notes      string
	// PriorStatus preserves the status on edit. Empty means a new
	// appointment, which starts scheduled.
	PriorStatus string
}

// Build validates the request and produces the appointment record.
// Validation happens entirely here, before any collection is touched,
// so a rejection never leaves partial state behind.
func Build(req BuildRequest, durations schedule.DurationSource) (Appointment, error) {
	if strings.TrimSpace(req.ClientID) == "" && strings.TrimSpace(req.ClientName) == "" {
		return Appointment{}, ErrMissingClient
	}
	if strings.TrimSpace(req.Treatment) == "" {
		return Appointment{}, ErrMissingTreatment
	}
	if req.Start.IsZero() {
		return Appointment{}, ErrInvalidTime
	}
	if !schedule.WithinWorkingHours(req.Start) {
		return Appointment{}, ErrOutsideWorkingHours
	}

	end := req.EndTime
	if end.IsZero() {
		end = schedule.EndTime(req.Start, req.Treatment, durations)
	}
	if end.Before(req.Start) {
		return Appointment{}, ErrInvalidTime
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	status := req.PriorStatus
	if status == "" {
		status = StatusScheduled
	}

	return Appointment{
		ID:         id,
		Date:       req.Start,
		EndTime:    end,
		ClientID:   req.ClientID,
		ClientName: req.ClientName,
		Treatment:  req.Treatment,
		Notes:      req.Notes,
		Status:     status,
	}, nil
}
