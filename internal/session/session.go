// Package session tracks which seed user is currently signed in.
//
// The only durable state is the user id stored under CurrentUserKey in a
// Storage. A Session is built per request from the request's cookie (or a
// bearer token) and discarded afterwards.
package session

import (
	"sync"

	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/store"
)

// CurrentUserKey is the storage key holding the signed-in user's id.
const CurrentUserKey = "currentUserId"

// Storage is a small durable key-value record.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// Directory resolves user ids to users.
type Directory interface {
	User(id string) (models.User, bool)
}

// Session holds the current user, mirrored into a Storage.
type Session struct {
	dir     Directory
	storage Storage

	mu      sync.RWMutex
	current *models.User
}

// New creates a signed-out session backed by storage.
func New(dir Directory, storage Storage) *Session {
	return &Session{dir: dir, storage: storage}
}

// Login signs in the user with the given id and records the id in storage.
// An unknown id leaves both the current user and storage untouched and
// returns store.ErrNotFound.
func (s *Session) Login(id string) error {
	u, ok := s.dir.User(id)
	if !ok {
		return store.ErrNotFound
	}

	s.mu.Lock()
	s.current = &u
	s.mu.Unlock()
	s.storage.Set(CurrentUserKey, u.ID)
	return nil
}

// Logout clears the current user and the stored id, whatever the prior state.
func (s *Session) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.storage.Remove(CurrentUserKey)
}

// Restore signs in the user whose id is in storage. Having no stored id is not
// an error; a stored id that no longer matches a user returns store.ErrNotFound.
func (s *Session) Restore() error {
	id, ok := s.storage.Get(CurrentUserKey)
	if !ok || id == "" {
		return nil
	}
	return s.Login(id)
}

// Current returns the signed-in user, if any.
func (s *Session) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.User{}, false
	}
	return s.current.Clone(), true
}

// MemoryStorage is a Storage kept in process memory.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemoryStorage) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}
