package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/mindcare-be/internal/auth"
	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/services"
)

// AppointmentHandler handles booking and booking management.
type AppointmentHandler struct {
	service services.AppointmentServiceProvider
	now     func() time.Time
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(service services.AppointmentServiceProvider, now func() time.Time) *AppointmentHandler {
	return &AppointmentHandler{service: service, now: now}
}

// ActionRequest names the counselor decision to apply.
type ActionRequest struct {
	Action models.AppointmentAction `json:"action"`
}

// BookingsResponse is a counselor's filtered bookings with per-tab counts.
type BookingsResponse struct {
	Status       string                     `json:"status"`
	Appointments []services.AppointmentView `json:"appointments"`
	Counts       map[string]int             `json:"counts"`
}

// Book files a booking request for the signed-in student.
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	var req services.BookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, message, err := h.service.Book(user.ID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MutationResponse{Data: created, Message: message})
}

// Mine lists the signed-in student's appointments.
func (h *AppointmentHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	writeJSON(w, http.StatusOK, h.service.ForStudent(user.ID, h.now()))
}

// BookingOptions returns the dates, slots and counselors a student can pick.
func (h *AppointmentHandler) BookingOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.BookingOptions(h.now()))
}

// Bookings lists the signed-in counselor's appointments filtered by ?status=.
func (h *AppointmentHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	status := r.URL.Query().Get("status")
	if status == "" {
		status = services.FilterAll
	}

	writeJSON(w, http.StatusOK, BookingsResponse{
		Status:       status,
		Appointments: h.service.ForCounselor(user.ID, status, h.now()),
		Counts:       h.service.BookingCounts(user.ID),
	})
}

// Act applies a counselor decision to one of their appointments.
func (h *AppointmentHandler) Act(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	var req ActionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, message, err := h.service.Act(user.ID, chi.URLParam(r, "id"), req.Action, h.now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MutationResponse{Data: updated, Message: message})
}

// Patch merges arbitrary fields into an appointment.
func (h *AppointmentHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var patch models.AppointmentPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	updated, err := h.service.Patch(chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
