package models

import (
	"fmt"
	"time"
)

// Layouts of the Appointment date and time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// AppointmentStatus is the lifecycle state of a booking.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusDeclined  AppointmentStatus = "declined"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further transition leaves s.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case StatusDeclined, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// AppointmentAction is a counselor decision on a booking.
type AppointmentAction string

const (
	ActionAccept   AppointmentAction = "accept"
	ActionDecline  AppointmentAction = "decline"
	ActionComplete AppointmentAction = "complete"
	ActionCancel   AppointmentAction = "cancel"
)

// Target returns the status an action moves a booking to.
func (a AppointmentAction) Target() (AppointmentStatus, bool) {
	switch a {
	case ActionAccept:
		return StatusConfirmed, true
	case ActionDecline:
		return StatusDeclined, true
	case ActionComplete:
		return StatusCompleted, true
	case ActionCancel:
		return StatusCancelled, true
	}
	return "", false
}

// Appointment is a counseling session request between a student and a counselor.
type Appointment struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"studentId"`
	CounselorID string            `json:"counselorId"`
	Date        string            `json:"date"` // YYYY-MM-DD
	Time        string            `json:"time"` // HH:MM
	Status      AppointmentStatus `json:"status"`
	Type        string            `json:"type"` // e.g. "individual", "career-counseling"
	Notes       string            `json:"notes"`
}

// StartsAt parses the appointment's date and time in loc.
func (a Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, a.Date+" "+a.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("appointment %s has an invalid date/time: %w", a.ID, err)
	}
	return t, nil
}

// OfferedActions returns the actions a counselor is offered for a in the current state.
// A confirmed session that has already started can be completed; one still upcoming can be cancelled.
func OfferedActions(a Appointment, now time.Time) []AppointmentAction {
	switch a.Status {
	case StatusPending:
		return []AppointmentAction{ActionAccept, ActionDecline}
	case StatusConfirmed:
		start, err := a.StartsAt(now.Location())
		if err != nil {
			return nil
		}
		if start.Before(now) {
			return []AppointmentAction{ActionComplete}
		}
		return []AppointmentAction{ActionCancel}
	}
	return nil
}

// AppointmentPatch holds the fields to overwrite on an appointment. Nil fields are left alone.
type AppointmentPatch struct {
	StudentID   *string            `json:"studentId,omitempty"`
	CounselorID *string            `json:"counselorId,omitempty"`
	Date        *string            `json:"date,omitempty"`
	Time        *string            `json:"time,omitempty"`
	Status      *AppointmentStatus `json:"status,omitempty"`
	Type        *string            `json:"type,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

// StatusPatch is a patch that only changes the status.
func StatusPatch(s AppointmentStatus) AppointmentPatch {
	return AppointmentPatch{Status: &s}
}

// Apply returns a with every non-nil patch field merged in.
func (p AppointmentPatch) Apply(a Appointment) Appointment {
	if p.StudentID != nil {
		a.StudentID = *p.StudentID
	}
	if p.CounselorID != nil {
		a.CounselorID = *p.CounselorID
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	return a
}
