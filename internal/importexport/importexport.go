// Package importexport converts between the client collection and the
// two interchange formats the clinic exchanges with the outside world:
// CSV contact sheets and vCard address-book exports.
package importexport

import "errors"

var (
	// ErrNoValidPatients means the file parsed but contained no row or
	// card with both a name and a phone number.
	ErrNoValidPatients = errors.New("no valid patients found")

	// ErrUnparseable means the file could not be read as its format at
	// all.
	ErrUnparseable = errors.New("file could not be parsed")
)

// Report summarizes an import run.
type Report struct {
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}
