package services

import (
	"fmt"

	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/store"
)

// LoginOption is a user as shown on the login picker.
type LoginOption struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
	Email    string      `json:"email"`
	Initials string      `json:"initials"`
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	ListUsers(role *models.Role) []models.User
	LoginOptions() map[models.Role][]LoginOption
}

// UserService exposes the static user directory.
type UserService struct {
	store *store.Store
}

// NewUserService creates a new UserService.
func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	u, ok := s.store.User(id)
	if !ok {
		return models.User{}, fmt.Errorf("user with ID %s: %w", id, store.ErrNotFound)
	}
	return u, nil
}

// ListUsers returns every user, or only those holding role when it is set.
func (s *UserService) ListUsers(role *models.Role) []models.User {
	if role != nil {
		return s.store.UsersByRole(*role)
	}
	users := s.store.Users()
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Clone())
	}
	return out
}

// LoginOptions groups the directory by role for the login picker.
func (s *UserService) LoginOptions() map[models.Role][]LoginOption {
	out := make(map[models.Role][]LoginOption, len(models.Roles))
	for _, role := range models.Roles {
		out[role] = []LoginOption{}
	}
	for _, u := range s.store.Users() {
		out[u.Role] = append(out[u.Role], LoginOption{
			ID:       u.ID,
			Name:     u.Name,
			Role:     u.Role,
			Email:    u.Email,
			Initials: u.Initials(),
		})
	}
	return out
}
