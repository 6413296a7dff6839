package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultEventCapacity is how many events the log keeps before dropping the oldest.
const DefaultEventCapacity = 200

// Event levels.
const (
	LevelInfo = "info"
	LevelWarn = "warn"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, subjectID *string) error
	GetRecentEvents(limit int) ([]models.Event, error)
}

// EventService keeps a bounded in-memory activity log.
type EventService struct {
	mu       sync.RWMutex
	events   []models.Event // oldest first
	capacity int
	onEvent  func(models.Event)
	now      func() time.Time
}

// NewEventService creates a new EventService holding at most capacity events.
func NewEventService(capacity int) *EventService {
	if capacity <= 0 {
		capacity = DefaultEventCapacity
	}
	return &EventService{capacity: capacity, now: time.Now}
}

// OnEvent registers fn to receive every event after it is recorded.
func (s *EventService) OnEvent(fn func(models.Event)) {
	s.mu.Lock()
	s.onEvent = fn
	s.mu.Unlock()
}

// CreateEvent records a new event.
func (s *EventService) CreateEvent(eventType, level, message string, subjectID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		SubjectID: subjectID,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.events = append(s.events, event)
	if over := len(s.events) - s.capacity; over > 0 {
		s.events = append([]models.Event(nil), s.events[over:]...)
	}
	fn := s.onEvent
	s.mu.Unlock()

	log.Info().Str("type", eventType).Str("level", level).Msg(message)
	if fn != nil {
		fn(event)
	}
	return nil
}

// GetRecentEvents returns up to limit events, newest first.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]models.Event, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

func strPtr(s string) *string {
	return &s
}
