// Package patients defines the client (patient) record and the rules
// that keep the collection consistent: required contact fields, the
// total-spent invariant, and duplicate detection.
package patients

import (
	"strings"
	"time"
)

// Status values for a client record.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// TreatmentRecord is one entry in a client's treatment history.
type TreatmentRecord struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Treatment string  `json:"treatment"`
	Notes     string  `json:"notes,omitempty"`
	Cost      float64 `json:"cost"`
	FollowUp  string  `json:"followUp,omitempty"`
}

// Client is a patient record. TotalSpent is derived from
// TreatmentHistory and is recomputed whenever the history changes; it
// is never mutated independently.
type Client struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Phone            string            `json:"phone"`
	Email            string            `json:"email,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Status           string            `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	TreatmentHistory []TreatmentRecord `json:"treatmentHistory"`
	TotalSpent       float64           `json:"totalSpent"`
}

// Validate checks the required fields for a new or updated client.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(c.Phone) == "" {
		return ErrMissingPhone
	}
	return nil
}

// RecomputeTotalSpent restores the invariant that TotalSpent equals the
// sum of treatment-history costs.
func (c *Client) RecomputeTotalSpent() {
	total := 0.0
	for _, r := range c.TreatmentHistory {
		total += r.Cost
	}
	c.TotalSpent = total
}

// NormalizePhone strips everything but digits, the key duplicates are
// matched on.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
