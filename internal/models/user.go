package models

import (
	"fmt"
	"strings"
)

// Role determines which pages a user sees and which actions they may take.
type Role string

const (
	RoleStudent   Role = "student"
	RoleCounselor Role = "counselor"
	RoleAdmin     Role = "admin"
)

// Roles lists every role in display order.
var Roles = []Role{RoleStudent, RoleCounselor, RoleAdmin}

// ParseRole converts a raw string into a Role, rejecting anything outside the closed set.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleStudent, RoleCounselor, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// User represents a platform account. Users come from seed data only.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Email string `json:"email"`

	// Counselor profile
	Specializations []string `json:"specializations,omitempty"`
	Experience      string   `json:"experience,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Availability    []string `json:"availability,omitempty"`

	// Student profile
	Year  string `json:"year,omitempty"`
	Major string `json:"major,omitempty"`

	// Admin profile
	Department string `json:"department,omitempty"`
}

// Initials returns the first letter of each word of the user's name, e.g. "EC" for "Emily Carter".
func (u User) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(u.Name) {
		for _, r := range part {
			b.WriteRune(r)
			break
		}
	}
	if b.Len() == 0 {
		return "U"
	}
	return b.String()
}

// Clone returns a copy that shares no slices with u.
func (u User) Clone() User {
	u.Specializations = cloneStrings(u.Specializations)
	u.Availability = cloneStrings(u.Availability)
	return u
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
