package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vaultdeck/vaultdeck/internal/domain/vault"
	"github.com/vaultdeck/vaultdeck/internal/http/middlewares"
)

// EntryStore is owner-scoped end to end: every method takes the resolved
// caller id, and an id under another owner comes back as vault.ErrNotFound.
type EntryStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]vault.Entry, error)
	GetByID(ctx context.Context, ownerID, id string) (vault.Entry, error)
	Create(ctx context.Context, ownerID string, req vault.CreateEntryRequest) (vault.Entry, error)
	Update(ctx context.Context, ownerID, id string, req vault.UpdateEntryRequest) (vault.Entry, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type PasswordsHandler struct {
	repo EntryStore
}

func NewPasswordsHandler(repo EntryStore) *PasswordsHandler {
	return &PasswordsHandler{repo: repo}
}

func ownerID(ctx *gin.Context) (string, bool) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok || id == "" {
		// the guard should have run; if it didn't, fail closed
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return "", false
	}

	return id, true
}

func (h *PasswordsHandler) ListEntries(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	entries, err := h.repo.ListByOwner(ctx.Request.Context(), owner)

	if err != nil {
		RespondInternal(ctx, "Could not list passwords")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": entries,
		"count": len(entries),
	})
}

func (h *PasswordsHandler) GetEntryById(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	e, err := h.repo.GetByID(ctx.Request.Context(), owner, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			RespondNotFound(ctx, "Password not found")
			return
		}
		RespondInternal(ctx, "Could not fetch password")
		return
	}

	ctx.JSON(http.StatusOK, e)
}

func (h *PasswordsHandler) CreateEntry(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	var req vault.CreateEntryRequest

	if !BindJSON(ctx, &req) {
		return
	}

	e, err := h.repo.Create(ctx.Request.Context(), owner, req)

	if err != nil {
		RespondInternal(ctx, "Could not create password")
		return
	}

	ctx.JSON(http.StatusCreated, e)
}

func (h *PasswordsHandler) UpdateEntry(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	var req vault.UpdateEntryRequest

	if !BindJSON(ctx, &req) {
		return
	}

	e, err := h.repo.Update(ctx.Request.Context(), owner, ctx.Param("id"), req)

	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			// someone else's entry and no entry at all answer identically
			RespondNotFound(ctx, "Password not found")
			return
		}
		RespondInternal(ctx, "Could not update password")
		return
	}

	ctx.JSON(http.StatusOK, e)
}

func (h *PasswordsHandler) DeleteEntry(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	err := h.repo.Delete(ctx.Request.Context(), owner, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			RespondNotFound(ctx, "Password not found")
			return
		}
		RespondInternal(ctx, "Could not delete password")
		return
	}

	ctx.Status(http.StatusNoContent)
}
