package services

import (
	"math"
	"sort"
	"time"

	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/store"
)

// Dashboard list sizes.
const (
	RecentAppointmentsLimit = 5
	RecentPostsLimit        = 3
)

// StudentDashboard is the landing page data for a student.
type StudentDashboard struct {
	User     models.User       `json:"user"`
	Initials string            `json:"initials"`
	Upcoming []AppointmentView `json:"upcoming"`
	Total    int               `json:"totalAppointments"`
}

// CounselorDashboard is the landing page data for a counselor.
type CounselorDashboard struct {
	User              models.User       `json:"user"`
	Initials          string            `json:"initials"`
	Pending           []AppointmentView `json:"pending"`
	Today             []AppointmentView `json:"today"`
	ConfirmedCount    int               `json:"confirmedCount"`
	TotalAppointments int               `json:"totalAppointments"`
	DistinctStudents  int               `json:"distinctStudents"`
}

// PlatformStats are the admin totals.
type PlatformStats struct {
	TotalStudents         int     `json:"totalStudents"`
	TotalCounselors       int     `json:"totalCounselors"`
	TotalResources        int     `json:"totalResources"`
	TotalAppointments     int     `json:"totalAppointments"`
	PendingAppointments   int     `json:"pendingAppointments"`
	ConfirmedAppointments int     `json:"confirmedAppointments"`
	CompletedAppointments int     `json:"completedAppointments"`
	TotalForumPosts       int     `json:"totalForumPosts"`
	TotalForumReplies     int     `json:"totalForumReplies"`
	EngagementRate        float64 `json:"engagementRate"` // Replies per post, as a percentage
}

// AdminDashboard is the landing page data for an admin.
type AdminDashboard struct {
	Stats              PlatformStats      `json:"stats"`
	RecentAppointments []AppointmentView  `json:"recentAppointments"`
	RecentPosts        []models.ForumPost `json:"recentPosts"`
}

// CounselorStats counts one counselor's appointments by status.
type CounselorStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
}

// CounselorSummary is a counselor with their booking stats.
type CounselorSummary struct {
	models.User
	Stats CounselorStats `json:"stats"`
}

// CounselorDirectory is the admin counselor listing.
type CounselorDirectory struct {
	Counselors      []CounselorSummary `json:"counselors"`
	AverageSessions int                `json:"averageSessions"`
}

// DashboardServiceProvider defines the interface for dashboard services.
type DashboardServiceProvider interface {
	Student(user models.User, now time.Time) StudentDashboard
	Counselor(user models.User, now time.Time) CounselorDashboard
	Admin(now time.Time) AdminDashboard
	Counselors() CounselorDirectory
}

// DashboardService assembles per-role dashboards from the store.
type DashboardService struct {
	store        *store.Store
	appointments *AppointmentService
	forum        *ForumService
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(st *store.Store, appointments *AppointmentService, forum *ForumService) *DashboardService {
	return &DashboardService{store: st, appointments: appointments, forum: forum}
}

// Student lists the student's appointments dated today or later, soonest first.
func (s *DashboardService) Student(user models.User, now time.Time) StudentDashboard {
	today := now.Format(models.DateLayout)
	all := s.appointments.ForStudent(user.ID, now)

	upcoming := []AppointmentView{}
	for _, v := range all {
		if v.Date >= today {
			upcoming = append(upcoming, v)
		}
	}
	return StudentDashboard{User: user, Initials: user.Initials(), Upcoming: upcoming, Total: len(all)}
}

// Counselor lists pending requests and today's confirmed sessions.
func (s *DashboardService) Counselor(user models.User, now time.Time) CounselorDashboard {
	today := now.Format(models.DateLayout)
	all := s.appointments.ForCounselor(user.ID, FilterAll, now)

	d := CounselorDashboard{
		User:              user,
		Initials:          user.Initials(),
		Pending:           []AppointmentView{},
		Today:             []AppointmentView{},
		TotalAppointments: len(all),
	}
	students := map[string]struct{}{}
	for _, v := range all {
		students[v.StudentID] = struct{}{}
		switch v.Status {
		case models.StatusPending:
			d.Pending = append(d.Pending, v)
		case models.StatusConfirmed:
			d.ConfirmedCount++
			if v.Date == today {
				d.Today = append(d.Today, v)
			}
		}
	}
	d.DistinctStudents = len(students)
	return d
}

// Admin computes the platform totals and recent activity.
func (s *DashboardService) Admin(now time.Time) AdminDashboard {
	snap := s.store.Snapshot()

	stats := PlatformStats{
		TotalStudents:     len(s.store.UsersByRole(models.RoleStudent)),
		TotalCounselors:   len(s.store.UsersByRole(models.RoleCounselor)),
		TotalResources:    len(snap.Resources),
		TotalAppointments: len(snap.Appointments),
		TotalForumPosts:   len(snap.Forum),
	}
	for _, a := range snap.Appointments {
		switch a.Status {
		case models.StatusPending:
			stats.PendingAppointments++
		case models.StatusConfirmed:
			stats.ConfirmedAppointments++
		case models.StatusCompleted:
			stats.CompletedAppointments++
		}
	}
	for _, p := range snap.Forum {
		stats.TotalForumReplies += len(p.Replies)
	}
	stats.EngagementRate = engagementRate(stats.TotalForumReplies, stats.TotalForumPosts)

	recent := make([]AppointmentView, 0, len(snap.Appointments))
	for _, a := range snap.Appointments {
		recent = append(recent, s.appointments.view(a, now))
	}
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date > recent[j].Date })
	if len(recent) > RecentAppointmentsLimit {
		recent = recent[:RecentAppointmentsLimit]
	}

	posts := s.forum.List()
	if len(posts) > RecentPostsLimit {
		posts = posts[:RecentPostsLimit]
	}

	return AdminDashboard{Stats: stats, RecentAppointments: recent, RecentPosts: posts}
}

// engagementRate is replies per post as a percentage rounded to a whole number.
func engagementRate(replies, posts int) float64 {
	if posts < 1 {
		posts = 1
	}
	return math.Round(float64(replies) / float64(posts) * 100)
}

// Counselors lists every counselor with their appointment counts.
func (s *DashboardService) Counselors() CounselorDirectory {
	counselors := s.store.UsersByRole(models.RoleCounselor)
	appointments := s.store.Snapshot().Appointments

	dir := CounselorDirectory{Counselors: make([]CounselorSummary, 0, len(counselors))}
	total := 0
	for _, c := range counselors {
		summary := CounselorSummary{User: c}
		for _, a := range appointments {
			if a.CounselorID != c.ID {
				continue
			}
			summary.Stats.Total++
			switch a.Status {
			case models.StatusPending:
				summary.Stats.Pending++
			case models.StatusConfirmed:
				summary.Stats.Confirmed++
			case models.StatusCompleted:
				summary.Stats.Completed++
			}
		}
		total += summary.Stats.Total
		dir.Counselors = append(dir.Counselors, summary)
	}
	if len(counselors) > 0 {
		dir.AverageSessions = int(math.Round(float64(total) / float64(len(counselors))))
	}
	return dir
}
