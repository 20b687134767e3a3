package schedule

import "time"

// DurationSource resolves a treatment name to its duration label.
// The treatment catalog implements this.
type DurationSource interface {
	DurationFor(treatmentName string) (label string, ok bool)
}

// EndTime derives an appointment's end from its start and the booked
// treatment's duration. An unknown treatment yields the start unchanged
// (a zero-length slot), matching how the schedule has always rendered
// ad hoc entries.
func EndTime(start time.Time, treatmentName string, src DurationSource) time.Time {
	if src == nil {
		return start
	}
	label, ok := src.DurationFor(treatmentName)
	if !ok {
		return start
	}
	return start.Add(time.Duration(DurationMinutes(label)) * time.Minute)
}
