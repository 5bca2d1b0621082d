package user

import (
	"errors"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken is the storage-level uniqueness verdict; the email
	// column's unique index is the final arbiter under concurrent signups.
	ErrEmailTaken = errors.New("email already registered")
)
