// Package schedule holds the clinic's working-hour rules and treatment
// duration arithmetic. Everything here is pure; callers decide what a
// violation means.
package schedule

import "time"

// Window is a same-day open interval. Start is inclusive, End exclusive,
// both expressed in minutes from midnight.
type Window struct {
	Start int
	End   int
}

// workingHours maps weekdays to their open window. Saturday is absent
// (closed all day). Sunday through Thursday use the evening window;
// the clinic settled on 17:00 as the canonical opening after running
// with two conflicting values for a while.
var workingHours = map[time.Weekday]Window{
	time.Sunday:    {Start: 17 * 60, End: 21 * 60},
	time.Monday:    {Start: 17 * 60, End: 21 * 60},
	time.Tuesday:   {Start: 17 * 60, End: 21 * 60},
	time.Wednesday: {Start: 17 * 60, End: 21 * 60},
	time.Thursday:  {Start: 17 * 60, End: 21 * 60},
	time.Friday:    {Start: 9 * 60, End: 19 * 60},
}

// WindowFor returns the open window for a weekday and whether the clinic
// opens at all that day.
func WindowFor(day time.Weekday) (Window, bool) {
	w, ok := workingHours[day]
	return w, ok
}

// WithinWorkingHours reports whether t falls inside the clinic's open
// window for its weekday. The start of the window is bookable, the
// closing minute is not.
func WithinWorkingHours(t time.Time) bool {
	w, ok := workingHours[t.Weekday()]
	if !ok {
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	return minute >= w.Start && minute < w.End
}
