// Package appointments implements the appointment lifecycle: building
// and validating appointments against the clinic's working hours, the
// status state machine, and the day-view queries.
package appointments

import "time"

// Status values an appointment moves through. Deletion is removal from
// the collection, not a status.
const (
	StatusScheduled = "scheduled"
	StatusCheckedIn = "checked-in"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Appointment is a scheduled slot linking a client to a treatment.
// ClientName is denormalized for display; the domain store rewrites it
// when the client is renamed, and it otherwise deliberately goes stale.
type Appointment struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	EndTime    time.Time `json:"endTime"`
	ClientID   string    `json:"clientId"`
	ClientName string    `json:"clientName"`
	Treatment  string    `json:"treatment"`
	Notes      string    `json:"notes,omitempty"`
	Status     string    `json:"status"`
}

// validTransitions is the status state machine. Cancellation is only
// defined from scheduled; a checked-in appointment has to be restored
// first.
var validTransitions = map[string][]string{
	StatusScheduled: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusScheduled},
	StatusCancelled: {StatusScheduled},
}

// CanTransition reports whether an appointment may move from one status
// to another.
func CanTransition(from, to string) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
