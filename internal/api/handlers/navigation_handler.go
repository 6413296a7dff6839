package handlers

import (
	"net/http"

	"github.com/isdelr/mindcare-be/internal/auth"
	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/navigation"
)

// NavigationHandler answers route-gating questions for the current visitor.
type NavigationHandler struct{}

// NewNavigationHandler creates a new NavigationHandler.
func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Resolve reports whether the visitor may open ?path= and where to go otherwise.
func (h *NavigationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var user *models.User
	if u, ok := auth.CurrentUser(r); ok {
		user = &u
	}
	writeJSON(w, http.StatusOK, navigation.Resolve(r.URL.Query().Get("path"), user))
}
