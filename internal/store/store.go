// Package store is the single owner of the platform's in-memory collections.
//
// Every mutation installs a fresh Snapshot; slices handed out by the store are
// never modified afterwards, so readers may hold on to them without copying.
// Lookup misses never panic: they leave state untouched and report ErrNotFound,
// which callers are free to ignore.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/isdelr/mindcare-be/internal/models"
)

// ErrNotFound is returned when an operation targets an id that does not exist.
var ErrNotFound = errors.New("not found")

// Collection names a record collection in change notifications.
type Collection string

const (
	CollectionResources    Collection = "resources"
	CollectionAppointments Collection = "appointments"
	CollectionForum        Collection = "forum"
)

// Op is the kind of mutation a Change describes.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpReply  Op = "reply"
)

// Change describes a single applied mutation.
type Change struct {
	Collection Collection `json:"collection"`
	Op         Op         `json:"op"`
	ID         string     `json:"id"`
	ParentID   string     `json:"parentId,omitempty"` // Post id for replies
}

// Snapshot is an immutable view of the mutable collections. Treat it as read-only.
type Snapshot struct {
	Resources    []models.Resource    `json:"resources"`
	Appointments []models.Appointment `json:"appointments"`
	Forum        []models.ForumPost   `json:"forum"`
}

// Fixtures are the records a Store starts with.
type Fixtures struct {
	Users        []models.User
	Resources    []models.Resource
	Appointments []models.Appointment
	Forum        []models.ForumPost
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the clock used for forum timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store holds the user directory and the three mutable collections.
type Store struct {
	mu    sync.RWMutex
	users []models.User
	snap  Snapshot

	resourceIDs    *idSequence
	appointmentIDs *idSequence
	postIDs        *idSequence
	replyIDs       *idSequence

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int

	now func() time.Time
}

// New creates a Store seeded with deep copies of f.
func New(f Fixtures, opts ...Option) *Store {
	s := &Store{
		subs: make(map[int]func(Change)),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.users = make([]models.User, 0, len(f.Users))
	for _, u := range f.Users {
		s.users = append(s.users, u.Clone())
	}

	s.snap.Resources = make([]models.Resource, 0, len(f.Resources))
	for _, r := range f.Resources {
		s.snap.Resources = append(s.snap.Resources, r.Clone())
	}
	s.snap.Appointments = append(make([]models.Appointment, 0, len(f.Appointments)), f.Appointments...)

	replies := 0
	s.snap.Forum = make([]models.ForumPost, 0, len(f.Forum))
	for _, p := range f.Forum {
		s.snap.Forum = append(s.snap.Forum, p.Clone())
		replies += len(p.Replies)
	}

	s.resourceIDs = newIDSequence("r", len(f.Resources))
	s.appointmentIDs = newIDSequence("apt", len(f.Appointments))
	s.postIDs = newIDSequence("f", len(f.Forum))
	s.replyIDs = newIDSequence("rp", replies)
	return s
}

// Snapshot returns the current state of the mutable collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Users returns the static user directory.
func (s *Store) Users() []models.User {
	return s.users
}

// User looks up a user by id.
func (s *Store) User(id string) (models.User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u.Clone(), true
		}
	}
	return models.User{}, false
}

// UsersByRole returns the users holding role, in directory order.
func (s *Store) UsersByRole(role models.Role) []models.User {
	var out []models.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u.Clone())
		}
	}
	return out
}

// Subscribe registers fn to be called after every applied mutation.
// Callbacks run on the mutating goroutine once the store lock is released.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(c Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
