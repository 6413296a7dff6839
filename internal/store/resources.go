package store

import "github.com/isdelr/mindcare-be/internal/models"

// Resource looks up a resource by id.
func (s *Store) Resource(id string) (models.Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.snap.Resources {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return models.Resource{}, false
}

// AddResource appends r with a freshly generated id and returns the stored record.
// Any id set on r is ignored.
func (s *Store) AddResource(r models.Resource) models.Resource {
	s.mu.Lock()
	r = r.Clone()
	r.ID = s.resourceIDs.next(func(id string) bool {
		for _, existing := range s.snap.Resources {
			if existing.ID == id {
				return true
			}
		}
		return false
	})
	if r.Tags == nil {
		r.Tags = []string{}
	}
	next := make([]models.Resource, len(s.snap.Resources), len(s.snap.Resources)+1)
	copy(next, s.snap.Resources)
	s.snap.Resources = append(next, r)
	s.mu.Unlock()

	s.publish(Change{Collection: CollectionResources, Op: OpCreate, ID: r.ID})
	return r.Clone()
}

// DeleteResource removes the resource with the given id.
func (s *Store) DeleteResource(id string) error {
	s.mu.Lock()
	next := make([]models.Resource, 0, len(s.snap.Resources))
	for _, r := range s.snap.Resources {
		if r.ID != id {
			next = append(next, r)
		}
	}
	if len(next) == len(s.snap.Resources) {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.snap.Resources = next
	s.mu.Unlock()

	s.publish(Change{Collection: CollectionResources, Op: OpDelete, ID: id})
	return nil
}
