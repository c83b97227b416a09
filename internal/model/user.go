package model

import (
	"time"
)

// AllowedUser is an entry on the allowlist of identities permitted to use the desk.
type AllowedUser struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	IsAdmin   bool      `db:"is_admin" json:"is_admin"`
	Name      *string   `db:"name" json:"name"`
	Notes     *string   `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type AllowedUserRequest struct {
	Email   string  `json:"email" binding:"required,email"`
	IsAdmin bool    `json:"is_admin"`
	Name    *string `json:"name"`
	Notes   *string `json:"notes"`
}

// Actor is the authenticated identity behind a request.
type Actor struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// DisplayName is what gets recorded as updated_by.
func (a *Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}
