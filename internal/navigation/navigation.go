// Package navigation maps roles to their pages and decides where a visit to a
// path should end up.
package navigation

import (
	"fmt"
	"strings"

	"github.com/isdelr/mindcare-be/internal/models"
)

// LoginPath is where signed-out visitors are sent.
const LoginPath = "/login"

// Item is one entry of a role's navigation menu.
type Item struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Decision is the outcome of resolving a path for a visitor.
type Decision struct {
	Path     string `json:"path"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
	NotFound bool   `json:"notFound,omitempty"`
}

// pages lists every role-scoped path with the role that owns it.
var pages = map[string]models.Role{
	"/student":           models.RoleStudent,
	"/student/resources": models.RoleStudent,
	"/student/book":      models.RoleStudent,
	"/student/forum":     models.RoleStudent,
	"/student/chatbot":   models.RoleStudent,

	"/counselor":          models.RoleCounselor,
	"/counselor/bookings": models.RoleCounselor,

	"/admin":            models.RoleAdmin,
	"/admin/counselors": models.RoleAdmin,
	"/admin/resources":  models.RoleAdmin,
}

// HomePath returns the landing page for role.
func HomePath(role models.Role) string {
	switch role {
	case models.RoleStudent:
		return "/student"
	case models.RoleCounselor:
		return "/counselor"
	case models.RoleAdmin:
		return "/admin"
	default:
		panic(fmt.Sprintf("navigation: unhandled role %q", role))
	}
}

// Items returns the navigation menu for role.
func Items(role models.Role) []Item {
	switch role {
	case models.RoleStudent:
		return []Item{
			{Path: "/student", Label: "Dashboard", Icon: "home"},
			{Path: "/student/resources", Label: "Resources", Icon: "book-open"},
			{Path: "/student/book", Label: "Book Appointment", Icon: "calendar"},
			{Path: "/student/forum", Label: "Peer Forum", Icon: "message-circle"},
			{Path: "/student/chatbot", Label: "AI Support", Icon: "heart"},
		}
	case models.RoleCounselor:
		return []Item{
			{Path: "/counselor", Label: "Dashboard", Icon: "home"},
			{Path: "/counselor/bookings", Label: "Manage Bookings", Icon: "calendar"},
		}
	case models.RoleAdmin:
		return []Item{
			{Path: "/admin", Label: "Dashboard", Icon: "bar-chart"},
			{Path: "/admin/counselors", Label: "Counselors", Icon: "users"},
			{Path: "/admin/resources", Label: "Resources", Icon: "book-open"},
		}
	default:
		panic(fmt.Sprintf("navigation: unhandled role %q", role))
	}
}

// Resolve decides what happens when user (nil when signed out) visits path.
func Resolve(path string, user *models.User) Decision {
	path = normalize(path)
	d := Decision{Path: path}

	if path == LoginPath || path == "/" {
		if user == nil {
			if path == "/" {
				d.Redirect = LoginPath
				return d
			}
			d.Allowed = true
			return d
		}
		d.Redirect = HomePath(user.Role)
		return d
	}

	owner, ok := pages[path]
	if !ok {
		d.NotFound = true
		return d
	}
	if user == nil {
		d.Redirect = LoginPath
		return d
	}
	if owner != user.Role {
		d.Redirect = HomePath(user.Role)
		return d
	}
	d.Allowed = true
	return d
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
