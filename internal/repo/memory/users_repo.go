package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vaultdeck/vaultdeck/internal/domain/user"
)

// UsersRepo is the in-memory variant used by tests and local bring-up before
// a database exists. Same contract as the postgres repo, including the
// uniqueness verdict on concurrent creates.
type UsersRepo struct {
	mu      sync.RWMutex
	byID    map[string]user.User
	byEmail map[string]string
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byID:    make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return r.byID[id], nil
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *UsersRepo) Create(_ context.Context, email, passwordHash, username, role string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// check-then-insert under one lock mirrors the unique index
	if _, ok := r.byEmail[email]; ok {
		return user.User{}, user.ErrEmailTaken
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Username:     username,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID

	return u, nil
}

// Delete exists so tests can simulate an identity vanishing after a token
// was issued.
func (r *UsersRepo) Delete(_ context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byID, id)
	}
}
