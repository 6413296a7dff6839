package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/mindcare-be/internal/auth"
	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/navigation"
	"github.com/isdelr/mindcare-be/internal/store"
	"github.com/rs/zerolog/log"
)

// SessionHandler handles login, logout and session lookup.
type SessionHandler struct {
	auth *auth.Authenticator
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(a *auth.Authenticator) *SessionHandler {
	return &SessionHandler{auth: a}
}

// LoginRequest selects the user to sign in as.
type LoginRequest struct {
	UserID string `json:"userId"`
}

// SessionResponse describes the signed-in user. User is null when signed out.
type SessionResponse struct {
	User       *models.User      `json:"user"`
	Token      string            `json:"token,omitempty"`
	HomePath   string            `json:"homePath,omitempty"`
	Navigation []navigation.Item `json:"navigation,omitempty"`
}

func sessionResponse(u models.User) SessionResponse {
	return SessionResponse{
		User:       &u,
		HomePath:   navigation.HomePath(u.Role),
		Navigation: navigation.Items(u.Role),
	}
}

// Login signs in as the requested user. An unknown id leaves the session as it
// was and answers with whoever is still signed in, or a null user.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess := h.auth.Session(r)
	if err := sess.Login(req.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info().Str("user_id", req.UserID).Msg("Login ignored for unknown user")
			if user, ok := sess.Current(); ok {
				writeJSON(w, http.StatusOK, sessionResponse(user))
				return
			}
			writeJSON(w, http.StatusOK, SessionResponse{})
			return
		}
		writeError(w, err)
		return
	}
	if err := auth.Persist(w, r); err != nil {
		writeError(w, err)
		return
	}

	user, _ := sess.Current()
	token, err := auth.GenerateJWT(user, h.auth.Secret())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := sessionResponse(user)
	resp.Token = token
	log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	writeJSON(w, http.StatusOK, resp)
}

// Logout clears the session.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Session(r).Logout()
	if err := auth.Persist(w, r); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Get returns the current session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeJSON(w, http.StatusOK, SessionResponse{})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(user))
}
