package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/mindcare-be/internal/auth"
	"github.com/isdelr/mindcare-be/internal/services"
)

// ForumHandler handles the peer forum.
type ForumHandler struct {
	service services.ForumServiceProvider
}

// NewForumHandler creates a new ForumHandler.
func NewForumHandler(service services.ForumServiceProvider) *ForumHandler {
	return &ForumHandler{service: service}
}

// List returns every post, newest first.
func (h *ForumHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.List())
}

// Create publishes a post by the signed-in user.
func (h *ForumHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	var in services.NewPost
	if !decodeJSON(w, r, &in) {
		return
	}

	post, message, err := h.service.CreatePost(user, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MutationResponse{Data: post, Message: message})
}

// Reply appends a reply to the post in the URL.
func (h *ForumHandler) Reply(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	var in services.NewReply
	if !decodeJSON(w, r, &in) {
		return
	}

	reply, message, err := h.service.Reply(user, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MutationResponse{Data: reply, Message: message})
}
