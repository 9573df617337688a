package domain

import (
	"strings"
	"time"
)

// Role is the caller's authorization level, carried in token claims.
type Role string

const (
	RoleUser        Role = "USER"
	RoleCoordinator Role = "COORDINATOR"
	RoleAdmin       Role = "ADMIN"
)

// ParseRole upper-cases the claim and falls back to USER.
func ParseRole(s string) Role {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleCoordinator, RoleAdmin:
		return r
	default:
		return RoleUser
	}
}

// Credential is a password login bound to a subject id.
type Credential struct {
	SubjectID    string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor identifies who performs a mutation.
type Actor struct {
	ID    string
	Admin bool
}

// Owns reports whether the actor may act on a resource owned by ownerID.
func (a Actor) Owns(ownerID string) bool {
	return a.Admin || (a.ID != "" && a.ID == ownerID)
}
