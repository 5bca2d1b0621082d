package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vaultdeck/vaultdeck/internal/audit"
)

type AuditReader interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]audit.Event, error)
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

type SecurityLogHandler struct {
	repo AuditReader
}

func NewSecurityLogHandler(repo AuditReader) *SecurityLogHandler {
	return &SecurityLogHandler{repo: repo}
}

func limitParam(ctx *gin.Context) int {
	raw := ctx.Query("limit")
	if raw == "" {
		return 0
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}

	return n
}

// ListOwn returns the caller's auth events, newest first. The repo caps the
// limit, so a hostile limit param only costs a clamp.
func (h *SecurityLogHandler) ListOwn(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	events, err := h.repo.ListByUser(ctx.Request.Context(), owner, limitParam(ctx))

	if err != nil {
		RespondInternal(ctx, "Could not list security events")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": events,
		"count": len(events),
	})
}

// ListAll is the admin view, including failed attempts with no resolved user.
func (h *SecurityLogHandler) ListAll(ctx *gin.Context) {
	events, err := h.repo.ListRecent(ctx.Request.Context(), limitParam(ctx))

	if err != nil {
		RespondInternal(ctx, "Could not list security events")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": events,
		"count": len(events),
	})
}
