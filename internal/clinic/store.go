// Package clinic holds the domain store: the authoritative in-memory
// copy of the three core collections (clients, appointments, waiting
// list) for the running session. Every mutation validates first, then
// applies, persists the changed collection, and publishes a change
// event. Persistence is best-effort; the in-memory state stays the
// source of truth even when a write fails.
package clinic

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/appointments"
	"github.com/clinicdesk/clinicdesk/internal/observability/metrics"
	"github.com/clinicdesk/clinicdesk/internal/patients"
	"github.com/clinicdesk/clinicdesk/internal/schedule"
	"github.com/clinicdesk/clinicdesk/internal/storage"
	"github.com/clinicdesk/clinicdesk/internal/waitinglist"
	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

// Store owns the three collections for the process lifetime. It is
// created once at startup and passed by reference to whatever needs it.
type Store struct {
	kv        *storage.KV
	durations schedule.DurationSource
	logger    *logging.Logger
	metrics   *metrics.ClinicMetrics

	mu           sync.RWMutex
	clients      []patients.Client
	appointments []appointments.Appointment
	waiting      []waitinglist.Entry

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// Config holds the store's dependencies.
type Config struct {
	KV        *storage.KV
	Durations schedule.DurationSource
	Logger    *logging.Logger
	Metrics   *metrics.ClinicMetrics
}

// NewStore initializes the store from persisted state. Absent keys
// start as empty collections.
func NewStore(ctx context.Context, cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	s := &Store{
		kv:        cfg.KV,
		durations: cfg.Durations,
		logger:    logger,
		metrics:   cfg.Metrics,
		subs:      make(map[int]chan Event),
	}
	if cfg.KV != nil {
		cfg.KV.Load(ctx, storage.KeyClients, &s.clients)
		cfg.KV.Load(ctx, storage.KeyAppointments, &s.appointments)
		cfg.KV.Load(ctx, storage.KeyWaitingList, &s.waiting)
	}
	return s
}

// Clients returns a copy of the client collection.
func (s *Store) Clients() []patients.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]patients.Client(nil), s.clients...)
}

// Appointments returns a copy of the appointment collection.
func (s *Store) Appointments() []appointments.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]appointments.Appointment(nil), s.appointments...)
}

// WaitingList returns a copy of the waiting list in insertion order.
func (s *Store) WaitingList() []waitinglist.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]waitinglist.Entry(nil), s.waiting...)
}

// AddClient assigns identity and defaults, appends the client, and
// persists the collection.
func (s *Store) AddClient(ctx context.Context, c patients.Client) (patients.Client, error) {
	if err := c.Validate(); err != nil {
		s.metrics.ObserveRejection("clients", "validation")
		return patients.Client{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = patients.StatusActive
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.TreatmentHistory == nil {
		c.TreatmentHistory = []patients.TreatmentRecord{}
	}
	c.RecomputeTotalSpent()

	s.mu.Lock()
	s.clients = append(s.clients, c)
	s.persistClientsLocked(ctx)
	s.mu.Unlock()

	s.metrics.ObserveMutation("clients", "add")
	s.publish(Event{Collection: "clients", Action: "added", ID: c.ID})
	return c, nil
}

// ClientPatch carries the updatable client fields. Nil means unchanged.
type ClientPatch struct {
	Name             *string                    `json:"name,omitempty"`
	Phone            *string                    `json:"phone,omitempty"`
	Email            *string                    `json:"email,omitempty"`
	Notes            *string                    `json:"notes,omitempty"`
	Status           *string                    `json:"status,omitempty"`
	TreatmentHistory []patients.TreatmentRecord `json:"treatmentHistory,omitempty"`
}

// UpdateClient merges the patch into the matching client. A name change
// cascades to the denormalized ClientName on that client's
// appointments; that rewrite is a documented invariant, not a
// convenience.
func (s *Store) UpdateClient(ctx context.Context, id string, patch ClientPatch) (patients.Client, error) {
	s.mu.Lock()
	idx := s.clientIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Warn("update for unknown client", "client_id", id)
		return patients.Client{}, patients.ErrNotFound
	}

	updated := s.clients[idx]
	renamed := false
	if patch.Name != nil && *patch.Name != updated.Name {
		updated.Name = *patch.Name
		renamed = true
	}
	if patch.Phone != nil {
		updated.Phone = *patch.Phone
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	if patch.Notes != nil {
		updated.Notes = *patch.Notes
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	if patch.TreatmentHistory != nil {
		updated.TreatmentHistory = patch.TreatmentHistory
		updated.RecomputeTotalSpent()
	}
	if err := updated.Validate(); err != nil {
		s.mu.Unlock()
		s.metrics.ObserveRejection("clients", "validation")
		return patients.Client{}, err
	}

	s.clients[idx] = updated
	s.persistClientsLocked(ctx)
	if renamed {
		for i := range s.appointments {
			if s.appointments[i].ClientID == id {
				s.appointments[i].ClientName = updated.Name
			}
		}
		s.persistAppointmentsLocked(ctx)
	}
	s.mu.Unlock()

	s.metrics.ObserveMutation("clients", "update")
	s.publish(Event{Collection: "clients", Action: "updated", ID: id})
	return updated, nil
}

// AddTreatmentRecord appends a history entry to a client and recomputes
// the derived total.
func (s *Store) AddTreatmentRecord(ctx context.Context, clientID string, rec patients.TreatmentRecord) (patients.Client, error) {
	s.mu.Lock()
	idx := s.clientIndexLocked(clientID)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Warn("treatment record for unknown client", "client_id", clientID)
		return patients.Client{}, patients.ErrNotFound
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	s.clients[idx].TreatmentHistory = append(s.clients[idx].TreatmentHistory, rec)
	s.clients[idx].RecomputeTotalSpent()
	updated := s.clients[idx]
	s.persistClientsLocked(ctx)
	s.mu.Unlock()

	s.metrics.ObserveMutation("clients", "history_add")
	s.publish(Event{Collection: "clients", Action: "updated", ID: clientID})
	return updated, nil
}

// DeleteClient removes one client. Appointments referencing the client
// keep their denormalized name; there is deliberately no cascade.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.clientIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Warn("delete for unknown client", "client_id", id)
		return patients.ErrNotFound
	}
	s.clients = append(s.clients[:idx], s.clients[idx+1:]...)
	s.persistClientsLocked(ctx)
	s.mu.Unlock()

	s.metrics.ObserveMutation("clients", "delete")
	s.publish(Event{Collection: "clients", Action: "deleted", ID: id})
	return nil
}

// DeleteAllClients clears the whole collection and reports how many
// records were removed.
func (s *Store) DeleteAllClients(ctx context.Context) int {
	s.mu.Lock()
	n := len(s.clients)
	s.clients = nil
	s.persistClientsLocked(ctx)
	s.mu.Unlock()

	s.metrics.ObserveMutation("clients", "delete_all")
	s.publish(Event{Collection: "clients", Action: "cleared"})
	return n
}

// RemoveDuplicateClients collapses duplicate clients (same normalized
// phone, else same lowercased name) down to the most recently created
// record and reports the number removed.
func (s *Store) RemoveDuplicateClients(ctx context.Context) int {
	s.mu.Lock()
	kept, removed := patients.RemoveDuplicates(s.clients)
	if removed == 0 {
		s.mu.Unlock()
		return 0
	}
	s.clients = kept
	s.persistClientsLocked(ctx)
	s.mu.Unlock()

	s.metrics.ObserveMutation("clients", "dedup")
	s.publish(Event{Collection: "clients", Action: "deduplicated"})
	return removed
}

// UpsertAppointment is the single entry point for both create and edit.
// A request whose ID matches an existing appointment replaces it in
// place, preserving collection position and current status. Anything
// else is appended as a scheduled appointment.
func (s *Store) UpsertAppointment(ctx context.Context, req appointments.BuildRequest) (appointments.Appointment, error) {
	s.mu.Lock()
	idx := -1
	if req.ID != "" {
		idx = s.appointmentIndexLocked(req.ID)
	}
	// Status is owned here, not by the request: a create always starts
	// scheduled and an edit keeps the stored status. Transitions go
	// through SetAppointmentStatus only.
	if idx >= 0 {
		req.PriorStatus = s.appointments[idx].Status
	} else {
		req.PriorStatus = ""
	}

	appt, err := appointments.Build(req, s.durations)
	if err != nil {
		s.mu.Unlock()
		s.metrics.ObserveRejection("appointments", "validation")
		return appointments.Appointment{}, err
	}

	action := "added"
	if idx >= 0 {
		s.appointments[idx] = appt
		action = "updated"
	} else {
		s.appointments = append(s.appointments, appt)
	}
	s.persistAppointmentsLocked(ctx)
	s.mu.Unlock()

	s.metrics.ObserveMutation("appointments", action)
	s.publish(Event{Collection: "appointments", Action: action, ID: appt.ID})
	return appt, nil
}

// SetAppointmentStatus applies a pure status transition: check-in,
// cancel, or restore. Times are never touched here.
func (s *Store) SetAppointmentStatus(ctx context.Context, id, status string) (appointments.Appointment, error) {
	s.mu.Lock()
	idx := s.appointmentIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Warn("status change for unknown appointment", "appointment_id", id)
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	if !appointments.CanTransition(s.appointments[idx].Status, status) {
		s.mu.Unlock()
		s.metrics.ObserveRejection("appointments", "transition")
		return appointments.Appointment{}, appointments.ErrInvalidTransition
	}
	s.appointments[idx].Status = status
	appt := s.appointments[idx]
	s.persistAppointmentsLocked(ctx)
	s.mu.Unlock()

	s.metrics.ObserveMutation("appointments", "status")
	s.publish(Event{Collection: "appointments", Action: "status", ID: id})
	return appt, nil
}

// DeleteAppointment removes an appointment permanently.
func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.appointmentIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Warn("delete for unknown appointment", "appointment_id", id)
		return appointments.ErrNotFound
	}
	s.appointments = append(s.appointments[:idx], s.appointments[idx+1:]...)
	s.persistAppointmentsLocked(ctx)
	s.mu.Unlock()

	s.metrics.ObserveMutation("appointments", "delete")
	s.publish(Event{Collection: "appointments", Action: "deleted", ID: id})
	return nil
}

// AppointmentsOn returns the day's schedule without cancelled entries.
func (s *Store) AppointmentsOn(day time.Time) []appointments.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return appointments.On(s.appointments, day)
}

// AppointmentsOnIncludingCancelled returns the day's schedule with
// cancelled entries kept for strikethrough display.
func (s *Store) AppointmentsOnIncludingCancelled(day time.Time) []appointments.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return appointments.OnIncludingCancelled(s.appointments, day)
}

// AddToWaitingList inserts an entry. Entries arriving with an ID are
// taken as-is (manual construction upstream); otherwise identity and
// AddedAt are assigned here.
func (s *Store) AddToWaitingList(ctx context.Context, e waitinglist.Entry) (waitinglist.Entry, error) {
	if err := e.Validate(); err != nil {
		s.metrics.ObserveRejection("waiting_list", "validation")
		return waitinglist.Entry{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
		e.AddedAt = time.Now().UTC()
		e.Status = waitinglist.StatusWaiting
	}

	s.mu.Lock()
	s.waiting = append(s.waiting, e)
	s.persistWaitingLocked(ctx)
	s.mu.Unlock()

	s.metrics.ObserveMutation("waiting_list", "add")
	s.publish(Event{Collection: "waiting_list", Action: "added", ID: e.ID})
	return e, nil
}

// RemoveFromWaitingList drops an entry. Outright removal and "start
// treatment" promotion are the same operation at this layer; any
// follow-up (booking, history record) is the caller's move.
func (s *Store) RemoveFromWaitingList(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.waiting {
		if s.waiting[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Warn("removal for unknown waiting entry", "entry_id", id)
		return waitinglist.ErrNotFound
	}
	s.waiting = append(s.waiting[:idx], s.waiting[idx+1:]...)
	s.persistWaitingLocked(ctx)
	s.mu.Unlock()

	s.metrics.ObserveMutation("waiting_list", "remove")
	s.publish(Event{Collection: "waiting_list", Action: "removed", ID: id})
	return nil
}

// ReplaceAll swaps in restored collections wholesale. The backup was
// already parsed and written to storage; this is the atomic in-memory
// half of a restore.
func (s *Store) ReplaceAll(ctx context.Context, backup *storage.Backup) error {
	var (
		cs []patients.Client
		as []appointments.Appointment
		ws []waitinglist.Entry
	)
	if backup.Clients != nil {
		if err := json.Unmarshal(backup.Clients, &cs); err != nil {
			return err
		}
	}
	if backup.Appointments != nil {
		if err := json.Unmarshal(backup.Appointments, &as); err != nil {
			return err
		}
	}
	if backup.WaitingList != nil {
		if err := json.Unmarshal(backup.WaitingList, &ws); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.clients = cs
	s.appointments = as
	s.waiting = ws
	s.mu.Unlock()

	s.publish(Event{Collection: "all", Action: "restored"})
	return nil
}

func (s *Store) clientIndexLocked(id string) int {
	for i := range s.clients {
		if s.clients[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) appointmentIndexLocked(id string) int {
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistClientsLocked(ctx context.Context) {
	if s.kv != nil {
		s.kv.Save(ctx, storage.KeyClients, s.clients)
	}
}

func (s *Store) persistAppointmentsLocked(ctx context.Context) {
	if s.kv != nil {
		s.kv.Save(ctx, storage.KeyAppointments, s.appointments)
	}
}

func (s *Store) persistWaitingLocked(ctx context.Context) {
	if s.kv != nil {
		s.kv.Save(ctx, storage.KeyWaitingList, s.waiting)
	}
}
