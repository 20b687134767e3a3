// Package waitinglist defines walk-in entries not yet bound to a time
// slot. The list is FIFO by insertion with no expiry; starting
// treatment simply removes the entry.
package waitinglist

import (
	"errors"
	"strings"
	"time"
)

// StatusWaiting is the only status a waiting entry ever has.
const StatusWaiting = "waiting"

// ErrNotFound is returned when an entry id is absent from the list.
var ErrNotFound = errors.New("waitinglist: entry not found")

// ErrMissingClientName is returned when an entry has no client name.
var ErrMissingClientName = errors.New("waitinglist: client name is required")

// Entry is one waiting-list record.
type Entry struct {
	ID         string    `json:"id"`
	ClientName string    `json:"clientName"`
	Phone      string    `json:"phone,omitempty"`
	Treatment  string    `json:"treatment,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	AddedAt    time.Time `json:"addedAt"`
	Status     string    `json:"status"`
}

// Validate checks the required fields of an entry.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.ClientName) == "" {
		return ErrMissingClientName
	}
	return nil
}
