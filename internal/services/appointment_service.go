package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/store"
)

// Booking defaults.
const (
	DefaultAppointmentType  = "individual"
	DefaultAppointmentNotes = "Initial consultation"
	BookingWindowDays       = 14
)

// BookingTimeSlots are the start times offered when booking.
var BookingTimeSlots = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}

// Labels for appointment parties that do not resolve to a user.
const (
	UnknownStudent   = "Unknown Student"
	UnknownCounselor = "Unknown Counselor"
)

// ErrActionNotOffered is returned when a counselor action does not apply to
// the appointment in its current state.
var ErrActionNotOffered = errors.New("action not offered for this appointment")

// BookingRequest is the student booking form.
type BookingRequest struct {
	CounselorID string `json:"counselorId" validate:"notblank"`
	Date        string `json:"date" validate:"notblank,datetime=2006-01-02"`
	Time        string `json:"time" validate:"notblank,datetime=15:04"`
	Type        string `json:"type"`
	Notes       string `json:"notes"`
}

// AppointmentView is an appointment with its parties' names and the actions
// currently offered to the counselor.
type AppointmentView struct {
	models.Appointment
	StudentName   string                     `json:"studentName"`
	CounselorName string                     `json:"counselorName"`
	Actions       []models.AppointmentAction `json:"actions"`
}

// BookingDate is one selectable booking day.
type BookingDate struct {
	Value string `json:"value"` // YYYY-MM-DD
	Label string `json:"label"`
}

// BookingOptions is everything the booking form offers.
type BookingOptions struct {
	Dates      []BookingDate `json:"dates"`
	Times      []string      `json:"times"`
	Counselors []models.User `json:"counselors"`
}

// AppointmentServiceProvider defines the interface for appointment services.
type AppointmentServiceProvider interface {
	Book(studentID string, req BookingRequest) (models.Appointment, string, error)
	ForStudent(studentID string, now time.Time) []AppointmentView
	ForCounselor(counselorID, status string, now time.Time) []AppointmentView
	BookingCounts(counselorID string) map[string]int
	Patch(id string, patch models.AppointmentPatch) (models.Appointment, error)
	Act(counselorID, id string, action models.AppointmentAction, now time.Time) (models.Appointment, string, error)
	BookingOptions(now time.Time) BookingOptions
}

// AppointmentService provides business logic for counseling appointments.
type AppointmentService struct {
	store        *store.Store
	eventService EventServiceProvider
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(st *store.Store, eventService EventServiceProvider) *AppointmentService {
	return &AppointmentService{store: st, eventService: eventService}
}

// Book files a pending appointment for studentID and returns it with the
// confirmation message.
func (s *AppointmentService) Book(studentID string, req BookingRequest) (models.Appointment, string, error) {
	if err := check(req, "Please select a counselor, date, and time for your appointment."); err != nil {
		return models.Appointment{}, "", err
	}

	a := models.Appointment{
		StudentID:   studentID,
		CounselorID: strings.TrimSpace(req.CounselorID),
		Date:        strings.TrimSpace(req.Date),
		Time:        strings.TrimSpace(req.Time),
		Status:      models.StatusPending,
		Type:        strings.TrimSpace(req.Type),
		Notes:       strings.TrimSpace(req.Notes),
	}
	if a.Type == "" {
		a.Type = DefaultAppointmentType
	}
	if a.Notes == "" {
		a.Notes = DefaultAppointmentNotes
	}

	created := s.store.AddAppointment(a)
	counselor := s.userName(created.CounselorID, UnknownCounselor)
	message := fmt.Sprintf("Your appointment request has been sent to %s. They will confirm it shortly.", counselor)
	_ = s.eventService.CreateEvent("appointment.create", LevelInfo,
		fmt.Sprintf("%s requested a session with %s on %s at %s", s.userName(studentID, UnknownStudent), counselor, created.Date, created.Time),
		strPtr(created.ID))
	return created, message, nil
}

// ForStudent returns every appointment of studentID ordered by date and time.
func (s *AppointmentService) ForStudent(studentID string, now time.Time) []AppointmentView {
	return s.views(func(a models.Appointment) bool { return a.StudentID == studentID }, now)
}

// ForCounselor returns the appointments of counselorID with the given status,
// ordered by date and time. "all" or "" matches every status and "declined"
// also matches cancelled sessions.
func (s *AppointmentService) ForCounselor(counselorID, status string, now time.Time) []AppointmentView {
	return s.views(func(a models.Appointment) bool {
		return a.CounselorID == counselorID && statusMatches(a.Status, status)
	}, now)
}

func statusMatches(actual models.AppointmentStatus, filter string) bool {
	switch filter {
	case "", FilterAll:
		return true
	case string(models.StatusDeclined):
		return actual == models.StatusDeclined || actual == models.StatusCancelled
	default:
		return string(actual) == filter
	}
}

// BookingCounts tallies counselorID's appointments per booking tab.
func (s *AppointmentService) BookingCounts(counselorID string) map[string]int {
	counts := make(map[string]int, 5)
	for _, tab := range []string{FilterAll, string(models.StatusPending), string(models.StatusConfirmed), string(models.StatusCompleted), string(models.StatusDeclined)} {
		counts[tab] = 0
	}
	for _, a := range s.store.Snapshot().Appointments {
		if a.CounselorID != counselorID {
			continue
		}
		counts[FilterAll]++
		switch a.Status {
		case models.StatusDeclined, models.StatusCancelled:
			counts[string(models.StatusDeclined)]++
		default:
			counts[string(a.Status)]++
		}
	}
	return counts
}

// Patch merges patch into the appointment without checking transitions.
func (s *AppointmentService) Patch(id string, patch models.AppointmentPatch) (models.Appointment, error) {
	updated, err := s.store.UpdateAppointment(id, patch)
	if err != nil {
		return models.Appointment{}, err
	}
	_ = s.eventService.CreateEvent("appointment.update", LevelInfo,
		fmt.Sprintf("Appointment %s updated (%s)", id, updated.Status), strPtr(id))
	return updated, nil
}

// Act applies a counselor decision. Only actions offered for the appointment's
// current state at now are accepted. Appointments of other counselors are
// reported as not found.
func (s *AppointmentService) Act(counselorID, id string, action models.AppointmentAction, now time.Time) (models.Appointment, string, error) {
	target, known := action.Target()
	allow := func(a models.Appointment) error {
		if a.CounselorID != counselorID {
			return store.ErrNotFound
		}
		for _, o := range models.OfferedActions(a, now) {
			if o == action && known {
				return nil
			}
		}
		return fmt.Errorf("%w: %s on a %s appointment", ErrActionNotOffered, action, a.Status)
	}

	updated, err := s.store.UpdateAppointmentIf(id, allow, models.StatusPatch(target))
	if err != nil {
		return models.Appointment{}, "", err
	}

	message := statusMessage(target)
	_ = s.eventService.CreateEvent("appointment.update", LevelInfo,
		fmt.Sprintf("%s: %s with %s on %s", message, s.userName(counselorID, UnknownCounselor), s.userName(updated.StudentID, UnknownStudent), updated.Date),
		strPtr(id))
	return updated, message, nil
}

func statusMessage(status models.AppointmentStatus) string {
	switch status {
	case models.StatusConfirmed:
		return "Appointment confirmed successfully!"
	case models.StatusDeclined:
		return "Appointment declined."
	case models.StatusCompleted:
		return "Session marked as completed."
	case models.StatusCancelled:
		return "Appointment cancelled."
	}
	return "Appointment status updated."
}

// BookingOptions lists the next BookingWindowDays days starting tomorrow, the
// time slots and the counselors to choose from.
func (s *AppointmentService) BookingOptions(now time.Time) BookingOptions {
	opts := BookingOptions{
		Dates:      make([]BookingDate, 0, BookingWindowDays),
		Times:      append([]string(nil), BookingTimeSlots...),
		Counselors: s.store.UsersByRole(models.RoleCounselor),
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 1; i <= BookingWindowDays; i++ {
		d := day.AddDate(0, 0, i)
		opts.Dates = append(opts.Dates, BookingDate{
			Value: d.Format(models.DateLayout),
			Label: d.Format("Mon, Jan 2"),
		})
	}
	return opts
}

func (s *AppointmentService) views(keep func(models.Appointment) bool, now time.Time) []AppointmentView {
	out := []AppointmentView{}
	for _, a := range s.store.Snapshot().Appointments {
		if keep(a) {
			out = append(out, s.view(a, now))
		}
	}
	sortByStart(out)
	return out
}

func (s *AppointmentService) view(a models.Appointment, now time.Time) AppointmentView {
	actions := models.OfferedActions(a, now)
	if actions == nil {
		actions = []models.AppointmentAction{}
	}
	return AppointmentView{
		Appointment:   a,
		StudentName:   s.userName(a.StudentID, UnknownStudent),
		CounselorName: s.userName(a.CounselorID, UnknownCounselor),
		Actions:       actions,
	}
}

func (s *AppointmentService) userName(id, fallback string) string {
	if u, ok := s.store.User(id); ok {
		return u.Name
	}
	return fallback
}

func startKey(a models.Appointment) string {
	return a.Date + " " + a.Time
}

func sortByStart(views []AppointmentView) {
	sort.SliceStable(views, func(i, j int) bool {
		return startKey(views[i].Appointment) < startKey(views[j].Appointment)
	})
}
