package appointments

import "errors"

var (
	// ErrMissingClient is returned when no client is attached
	ErrMissingClient = errors.New("appointments: client is required")

	// ErrMissingTreatment is returned when no treatment is selected
	ErrMissingTreatment = errors.New("appointments: treatment is required")

	// ErrOutsideWorkingHours is returned when the start time falls outside the clinic's open window
	ErrOutsideWorkingHours = errors.New("appointments: start time is outside working hours")

	// ErrInvalidTime is returned when the start or end timestamp is unusable
	ErrInvalidTime = errors.New("appointments: invalid appointment time")

	// ErrInvalidTransition is returned for a status change the state machine does not allow
	ErrInvalidTransition = errors.New("appointments: invalid status transition")

	// ErrNotFound is returned when an appointment id is absent from the collection
	ErrNotFound = errors.New("appointments: appointment not found")
)
