package services

import (
	"fmt"
	"strings"

	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/store"
)

// Defaults applied to new resources.
const (
	DefaultResourceURL  = "#"
	DefaultResourceTime = "10 minutes"
)

// DefaultResourceTags are used when a new resource is given no tags.
var DefaultResourceTags = []string{"wellness", "support"}

// FilterAll disables a category or type filter.
const FilterAll = "all"

// ResourceFilter narrows a resource listing. Empty fields and FilterAll match everything.
type ResourceFilter struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Type     string `json:"type"`
}

// NewResource is the admin form for adding a resource.
type NewResource struct {
	Title       string              `json:"title" validate:"notblank"`
	Description string              `json:"description"`
	Type        models.ResourceType `json:"type" validate:"required,oneof=article audio video podcast"`
	Category    string              `json:"category" validate:"notblank"`
	Time        string              `json:"time"`
	URL         string              `json:"url"`
	Tags        string              `json:"tags"` // Comma-separated
}

// ResourceFacets lists the values a resource listing can be filtered by.
type ResourceFacets struct {
	Categories []string              `json:"categories"`
	Types      []models.ResourceType `json:"types"`
}

// CategoryGroup is the resources sharing one category.
type CategoryGroup struct {
	Category  string            `json:"category"`
	Resources []models.Resource `json:"resources"`
}

// ResourceLibrary is the admin overview of the resource collection.
type ResourceLibrary struct {
	Total      int                         `json:"total"`
	ByType     map[models.ResourceType]int `json:"byType"`
	Categories []CategoryGroup             `json:"categories"`
}

// ResourceServiceProvider defines the interface for resource services.
type ResourceServiceProvider interface {
	List(filter ResourceFilter) []models.Resource
	Facets() ResourceFacets
	Library() ResourceLibrary
	Create(in NewResource) (models.Resource, string, error)
	Delete(id string) (string, error)
}

// ResourceService provides business logic for the resource library.
type ResourceService struct {
	store        *store.Store
	eventService EventServiceProvider
}

// NewResourceService creates a new ResourceService.
func NewResourceService(st *store.Store, eventService EventServiceProvider) *ResourceService {
	return &ResourceService{store: st, eventService: eventService}
}

// List returns the resources matching filter in collection order. Search is a
// case-insensitive substring match on title, description and tags.
func (s *ResourceService) List(filter ResourceFilter) []models.Resource {
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	out := []models.Resource{}
	for _, r := range s.store.Snapshot().Resources {
		if filter.Category != "" && filter.Category != FilterAll && r.Category != filter.Category {
			continue
		}
		if filter.Type != "" && filter.Type != FilterAll && string(r.Type) != filter.Type {
			continue
		}
		if term != "" && !matchesSearch(r, term) {
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}

func matchesSearch(r models.Resource, term string) bool {
	if strings.Contains(strings.ToLower(r.Title), term) || strings.Contains(strings.ToLower(r.Description), term) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Facets returns the distinct categories and types in collection order.
func (s *ResourceService) Facets() ResourceFacets {
	f := ResourceFacets{Categories: []string{}, Types: []models.ResourceType{}}
	seenCat := map[string]bool{}
	seenType := map[models.ResourceType]bool{}
	for _, r := range s.store.Snapshot().Resources {
		if !seenCat[r.Category] {
			seenCat[r.Category] = true
			f.Categories = append(f.Categories, r.Category)
		}
		if !seenType[r.Type] {
			seenType[r.Type] = true
			f.Types = append(f.Types, r.Type)
		}
	}
	return f
}

// Library groups the collection by category and counts each known type.
func (s *ResourceService) Library() ResourceLibrary {
	resources := s.store.Snapshot().Resources
	lib := ResourceLibrary{
		Total:      len(resources),
		ByType:     make(map[models.ResourceType]int, len(models.ResourceTypes)),
		Categories: []CategoryGroup{},
	}
	for _, t := range models.ResourceTypes {
		lib.ByType[t] = 0
	}

	index := map[string]int{}
	for _, r := range resources {
		lib.ByType[r.Type]++
		i, ok := index[r.Category]
		if !ok {
			i = len(lib.Categories)
			index[r.Category] = i
			lib.Categories = append(lib.Categories, CategoryGroup{Category: r.Category})
		}
		lib.Categories[i].Resources = append(lib.Categories[i].Resources, r.Clone())
	}
	return lib
}

// Create validates in, applies form defaults and adds the resource. It returns
// the stored record and the confirmation message.
func (s *ResourceService) Create(in NewResource) (models.Resource, string, error) {
	if err := check(in, "Please provide at least title, type, and category."); err != nil {
		return models.Resource{}, "", err
	}

	r := models.Resource{
		Title:       strings.TrimSpace(in.Title),
		Type:        in.Type,
		Category:    strings.TrimSpace(in.Category),
		Time:        strings.TrimSpace(in.Time),
		Description: strings.TrimSpace(in.Description),
		URL:         strings.TrimSpace(in.URL),
		Tags:        splitTags(in.Tags),
	}
	if r.Time == "" {
		r.Time = DefaultResourceTime
	}
	if r.URL == "" {
		r.URL = DefaultResourceURL
	}
	if len(r.Tags) == 0 {
		r.Tags = append([]string(nil), DefaultResourceTags...)
	}

	created := s.store.AddResource(r)
	message := fmt.Sprintf("%s has been added to the resource library.", created.Title)
	_ = s.eventService.CreateEvent("resource.create", LevelInfo, message, strPtr(created.ID))
	return created, message, nil
}

// Delete removes a resource. A missing id returns store.ErrNotFound and changes nothing.
func (s *ResourceService) Delete(id string) (string, error) {
	existing, ok := s.store.Resource(id)
	if !ok {
		return "", store.ErrNotFound
	}
	if err := s.store.DeleteResource(id); err != nil {
		return "", err
	}

	message := fmt.Sprintf("%s has been removed from the library.", existing.Title)
	_ = s.eventService.CreateEvent("resource.delete", LevelInfo, message, strPtr(id))
	return message, nil
}
