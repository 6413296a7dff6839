package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/services"
	"github.com/isdelr/mindcare-be/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ElapsedEventType is the event emitted when a confirmed session's start time passes.
const ElapsedEventType = "appointment.elapsed"

// Scheduler periodically looks for confirmed sessions whose start time has
// passed and raises one reminder event per session, prompting the counselor
// to mark it completed. It never changes appointments itself.
type Scheduler struct {
	store    *store.Store
	eventSvc services.EventServiceProvider
	spec     string
	now      func() time.Time
	cron     *cron.Cron

	mu       sync.Mutex
	notified map[string]bool
}

// NewScheduler creates a new scheduler running on the cron spec (e.g. "@every 1m").
func NewScheduler(st *store.Store, eventSvc services.EventServiceProvider, spec string) *Scheduler {
	return &Scheduler{
		store:    st,
		eventSvc: eventSvc,
		spec:     spec,
		now:      time.Now,
		notified: make(map[string]bool),
	}
}

// Start runs one check immediately and then schedules checks on the cron spec.
func (s *Scheduler) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() { s.Check() }); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.spec, err)
	}
	s.cron = c

	log.Info().Str("schedule", s.spec).Msg("Starting elapsed-session reminder scheduler")
	s.Check()
	c.Start()
	return nil
}

// Stop halts the scheduler and waits for a running check to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped elapsed-session reminder scheduler")
}

// Check raises a reminder for every confirmed session that has started and was
// not reported before. It returns the number of new reminders.
func (s *Scheduler) Check() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	raised := 0
	for _, a := range s.store.Snapshot().Appointments {
		if a.Status != models.StatusConfirmed || s.notified[a.ID] {
			continue
		}
		start, err := a.StartsAt(now.Location())
		if err != nil {
			log.Warn().Err(err).Str("appointment_id", a.ID).Msg("Skipping appointment with unparseable start")
			continue
		}
		if !start.Before(now) {
			continue
		}

		s.notified[a.ID] = true
		raised++
		ReminderEvents.Inc()

		msg := fmt.Sprintf("Session with %s on %s at %s has passed and can be marked completed.",
			s.studentName(a.StudentID), a.Date, a.Time)
		id := a.ID
		if err := s.eventSvc.CreateEvent(ElapsedEventType, services.LevelWarn, msg, &id); err != nil {
			log.Error().Err(err).Str("appointment_id", a.ID).Msg("Failed to record reminder event")
		}
	}
	return raised
}

func (s *Scheduler) studentName(id string) string {
	if u, ok := s.store.User(id); ok {
		return u.Name
	}
	return services.UnknownStudent
}
