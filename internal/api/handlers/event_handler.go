package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/services"
)

const defaultActivityPage = 20

// EventHandler serves the activity log.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent returns the newest activity entries. ?type= keeps entries whose
// type starts with the given prefix, so "appointment." matches every
// appointment entry. ?limit= is capped at the log capacity.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := defaultActivityPage
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, services.DefaultEventCapacity)
	}

	events, err := h.service.GetRecentEvents(services.DefaultEventCapacity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filterActivity(events, q.Get("type"), limit))
}

func filterActivity(events []models.Event, typePrefix string, limit int) []models.Event {
	out := make([]models.Event, 0, min(limit, len(events)))
	for _, e := range events {
		if len(out) == limit {
			break
		}
		if strings.HasPrefix(e.Type, typePrefix) {
			out = append(out, e)
		}
	}
	return out
}
