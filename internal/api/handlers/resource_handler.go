package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/mindcare-be/internal/services"
)

// ResourceHandler handles HTTP requests related to the resource library.
type ResourceHandler struct {
	service services.ResourceServiceProvider
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(service services.ResourceServiceProvider) *ResourceHandler {
	return &ResourceHandler{service: service}
}

// List handles ?search=, ?category= and ?type= filtered listings.
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.ResourceFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Type:     q.Get("type"),
	}
	writeJSON(w, http.StatusOK, h.service.List(filter))
}

// Facets returns the available filter values.
func (h *ResourceHandler) Facets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Facets())
}

// Library returns the admin overview grouped by category.
func (h *ResourceHandler) Library(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Library())
}

// Create adds a resource.
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.NewResource
	if !decodeJSON(w, r, &in) {
		return
	}

	created, message, err := h.service.Create(in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MutationResponse{Data: created, Message: message})
}

// Delete removes a resource.
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	message, err := h.service.Delete(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MutationResponse{Data: map[string]string{"id": id}, Message: message})
}
