package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vaultdeck/vaultdeck/internal/cache"
	"github.com/vaultdeck/vaultdeck/internal/domain/contact"
)

type ContactStore interface {
	List(ctx context.Context) ([]contact.Contact, error)
	GetByID(ctx context.Context, id string) (contact.Contact, error)
	Create(ctx context.Context, req contact.CreateContactRequest) (contact.Contact, error)
	Update(ctx context.Context, id string, req contact.UpdateContactRequest) (contact.Contact, error)
	Delete(ctx context.Context, id string) error
}

// Contacts are a shared address book: any authenticated user sees every row.
// That is the shipped contract, not an oversight here.
type ContactsHandler struct {
	repo  ContactStore
	cache *cache.Cache
}

const contactsListKey = "contacts:list"

func NewContactsHandler(repo ContactStore, c *cache.Cache) *ContactsHandler {
	return &ContactsHandler{repo: repo, cache: c}
}

func (h *ContactsHandler) ListContacts(ctx *gin.Context) {
	if h.cache != nil {
		if v, ok := h.cache.Get(contactsListKey); ok {
			if items, ok := v.([]contact.Contact); ok {
				RespondJSONWithETag(ctx, http.StatusOK, gin.H{
					"items": items,
					"count": len(items),
				})
				return
			}
		}
	}

	contacts, err := h.repo.List(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not list contacts")
		return
	}

	if h.cache != nil {
		h.cache.Set(contactsListKey, contacts)
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": contacts,
		"count": len(contacts),
	})
}

func (h *ContactsHandler) GetContactById(ctx *gin.Context) {
	c, err := h.repo.GetByID(ctx.Request.Context(), ctx.Param("id"))

	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			RespondNotFound(ctx, "Contact not found")
			return
		}
		RespondInternal(ctx, "Could not fetch contact")
		return
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *ContactsHandler) CreateContact(ctx *gin.Context) {
	var req contact.CreateContactRequest

	if !BindJSON(ctx, &req) {
		return
	}

	c, err := h.repo.Create(ctx.Request.Context(), req)

	if err != nil {
		RespondInternal(ctx, "Could not create contact")
		return
	}

	if h.cache != nil {
		h.cache.Delete(contactsListKey)
	}

	ctx.JSON(http.StatusCreated, c)
}

func (h *ContactsHandler) UpdateContact(ctx *gin.Context) {
	var req contact.UpdateContactRequest

	if !BindJSON(ctx, &req) {
		return
	}

	c, err := h.repo.Update(ctx.Request.Context(), ctx.Param("id"), req)

	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			RespondNotFound(ctx, "Contact not found")
			return
		}
		RespondInternal(ctx, "Could not update contact")
		return
	}

	if h.cache != nil {
		h.cache.Delete(contactsListKey)
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *ContactsHandler) DeleteContact(ctx *gin.Context) {
	err := h.repo.Delete(ctx.Request.Context(), ctx.Param("id"))

	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			RespondNotFound(ctx, "Contact not found")
			return
		}
		RespondInternal(ctx, "Could not delete contact")
		return
	}

	if h.cache != nil {
		h.cache.Delete(contactsListKey)
	}

	ctx.Status(http.StatusNoContent)
}
