package clinic

// Event describes a change to one of the store's collections. Consumers
// use it to re-render or re-fetch; the event deliberately carries no
// payload beyond identity.
type Event struct {
	Collection string `json:"collection"`
	Action     string `json:"action"`
	ID         string `json:"id,omitempty"`
}

// Subscribe registers a change-event channel and returns it together
// with an unsubscribe function. Delivery is non-blocking: a subscriber
// that stops draining loses events rather than stalling mutations.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// NotifyTreatmentsChanged publishes a catalog change on the feed. The
// catalog lives outside the store's collections, so its Subscribe hook
// is pointed here at wiring time.
func (s *Store) NotifyTreatmentsChanged() {
	s.publish(Event{Collection: "treatments", Action: "updated"})
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
