package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/services"
)

// UserHandler handles HTTP requests related to the user directory.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// GetAll lists users for the login picker, grouped by role. With ?role= it
// returns the plain list of that role's users instead.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	roleParam := r.URL.Query().Get("role")
	if roleParam == "" {
		writeJSON(w, http.StatusOK, h.service.LoginOptions())
		return
	}

	role, err := models.ParseRole(roleParam)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	users := h.service.ListUsers(&role)
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// Get returns one user from the directory.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
