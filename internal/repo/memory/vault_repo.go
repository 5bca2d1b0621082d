package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vaultdeck/vaultdeck/internal/domain/vault"
)

type VaultRepo struct {
	mu    sync.RWMutex
	items map[string]vault.Entry
}

func NewVaultRepo() *VaultRepo {
	return &VaultRepo{items: make(map[string]vault.Entry)}
}

func (r *VaultRepo) ListByOwner(_ context.Context, ownerID string) ([]vault.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vault.Entry, 0, len(r.items))

	for _, e := range r.items {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}

func (r *VaultRepo) GetByID(_ context.Context, ownerID, id string) (vault.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]

	// wrong owner and missing id are the same answer
	if !ok || e.OwnerID != ownerID {
		return vault.Entry{}, vault.ErrNotFound
	}

	return e, nil
}

func (r *VaultRepo) Create(_ context.Context, ownerID string, req vault.CreateEntryRequest) (vault.Entry, error) {
	now := time.Now().UTC()

	e := vault.Entry{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Username:  req.Username,
		Password:  req.Password,
		URL:       req.URL,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.items[e.ID] = e
	r.mu.Unlock()

	return e, nil
}

func (r *VaultRepo) Update(_ context.Context, ownerID, id string, req vault.UpdateEntryRequest) (vault.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]

	if !ok || e.OwnerID != ownerID {
		return vault.Entry{}, vault.ErrNotFound
	}

	e.Title = req.Title
	e.Username = req.Username
	e.Password = req.Password
	e.URL = req.URL
	e.Notes = req.Notes
	e.UpdatedAt = time.Now().UTC()

	r.items[id] = e

	return e, nil
}

func (r *VaultRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]

	if !ok || e.OwnerID != ownerID {
		return vault.ErrNotFound
	}

	delete(r.items, id)
	return nil
}
