package appointments

import (
	"sort"
	"time"
)

// sameDay reports whether two instants fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// On returns the appointments scheduled on the same calendar day as
// day, excluding cancelled ones, sorted by start time ascending. This
// is the query the day schedule renders from.
func On(appts []Appointment, day time.Time) []Appointment {
	return on(appts, day, false)
}

// OnIncludingCancelled is the day query for views that show cancelled
// appointments struck through rather than hiding them.
func OnIncludingCancelled(appts []Appointment, day time.Time) []Appointment {
	return on(appts, day, true)
}

func on(appts []Appointment, day time.Time, includeCancelled bool) []Appointment {
	var out []Appointment
	for _, a := range appts {
		if !sameDay(a.Date, day) {
			continue
		}
		if !includeCancelled && a.Status == StatusCancelled {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
