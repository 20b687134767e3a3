package clinic

import (
	"time"

	"github.com/clinicdesk/clinicdesk/internal/appointments"
	"github.com/clinicdesk/clinicdesk/internal/patients"
)

// Stats is the dashboard roll-up: headline counts plus a breakdown of
// today's schedule by status.
type Stats struct {
	TotalClients      int            `json:"totalClients"`
	ActiveClients     int            `json:"activeClients"`
	TotalAppointments int            `json:"totalAppointments"`
	WaitingListSize   int            `json:"waitingListSize"`
	TotalRevenue      float64        `json:"totalRevenue"`
	TreatmentCounts   map[string]int `json:"treatmentCounts"`
	TodayByStatus     map[string]int `json:"todayByStatus"`
}

// StatsFor computes the roll-up for the given day. Revenue is the sum
// of each client's recorded treatment spend, not a projection from
// booked appointments.
func (s *Store) StatsFor(day time.Time) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		TotalClients:      len(s.clients),
		TotalAppointments: len(s.appointments),
		WaitingListSize:   len(s.waiting),
		TreatmentCounts:   make(map[string]int),
		TodayByStatus: map[string]int{
			appointments.StatusScheduled: 0,
			appointments.StatusCheckedIn: 0,
			appointments.StatusCancelled: 0,
			appointments.StatusCompleted: 0,
		},
	}

	for i := range s.clients {
		if s.clients[i].Status == patients.StatusActive {
			st.ActiveClients++
		}
		st.TotalRevenue += s.clients[i].TotalSpent
	}

	for i := range s.appointments {
		a := &s.appointments[i]
		if a.Treatment != "" {
			st.TreatmentCounts[a.Treatment]++
		}
	}

	for _, a := range appointments.OnIncludingCancelled(s.appointments, day) {
		st.TodayByStatus[a.Status]++
	}
	return st
}
