package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/mindcare-be/internal/auth"
	"github.com/isdelr/mindcare-be/internal/services"
)

// DashboardHandler serves the per-role dashboards.
type DashboardHandler struct {
	service services.DashboardServiceProvider
	now     func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service services.DashboardServiceProvider, now func() time.Time) *DashboardHandler {
	return &DashboardHandler{service: service, now: now}
}

// Student returns the signed-in student's dashboard.
func (h *DashboardHandler) Student(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	writeJSON(w, http.StatusOK, h.service.Student(user, h.now()))
}

// Counselor returns the signed-in counselor's dashboard.
func (h *DashboardHandler) Counselor(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	writeJSON(w, http.StatusOK, h.service.Counselor(user, h.now()))
}

// Admin returns platform-wide statistics.
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Admin(h.now()))
}

// Counselors returns the counselor directory with per-counselor stats.
func (h *DashboardHandler) Counselors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Counselors())
}
