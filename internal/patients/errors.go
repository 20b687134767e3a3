package patients

import "errors"

var (
	// ErrMissingName is returned when a client has no name
	ErrMissingName = errors.New("patients: name is required")

	// ErrMissingPhone is returned when a client has no phone number
	ErrMissingPhone = errors.New("patients: phone is required")

	// ErrNotFound is returned when a client id is absent from the collection
	ErrNotFound = errors.New("patients: client not found")
)
