package contact

import (
	"errors"
	"time"
)

// Contacts are globally visible to any authenticated user; they carry no
// owner column, so a contact id either exists for everyone or for no one.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("contact not found")

type CreateContactRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=120"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=40"`
	Notes string `json:"notes" binding:"omitempty,max=1000"`
}

type UpdateContactRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=120"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=40"`
	Notes string `json:"notes" binding:"omitempty,max=1000"`
}
