package vault

import (
	"errors"
	"time"
)

// Entry is a stored credential owned by exactly one user. Every read, update
// and delete must be scoped by OwnerID; an entry that exists under a
// different owner is reported as absent.
type Entry struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Title     string    `json:"title"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	URL       string    `json:"url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrNotFound covers both a missing id and an ownership mismatch; callers
// must not be able to tell the two apart.
var ErrNotFound = errors.New("entry not found")

type CreateEntryRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=200"`
	Username string `json:"username" binding:"required,min=1,max=200"`
	Password string `json:"password" binding:"required,min=1"`
	URL      string `json:"url" binding:"omitempty,max=500"`
	Notes    string `json:"notes" binding:"omitempty,max=2000"`
}

type UpdateEntryRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=200"`
	Username string `json:"username" binding:"required,min=1,max=200"`
	Password string `json:"password" binding:"required,min=1"`
	URL      string `json:"url" binding:"omitempty,max=500"`
	Notes    string `json:"notes" binding:"omitempty,max=2000"`
}
