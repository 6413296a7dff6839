package handlers

import (
	"net/http"

	"github.com/isdelr/mindcare-be/internal/monitoring"
)

// HealthHandler reports service health.
type HealthHandler struct {
	checker *monitoring.HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checker *monitoring.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Get returns the current health report.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.checker.Check(r.Context()))
}
