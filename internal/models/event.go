package models

import "time"

// Event represents a loggable action or alert in the system.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "appointment.update", "appointment.elapsed"
	Level     string    `json:"level"` // e.g., "info", "warn"
	Message   string    `json:"message"`
	SubjectID *string   `json:"subjectId,omitempty"` // Record the event is about, if any
	CreatedAt time.Time `json:"createdAt"`
}
