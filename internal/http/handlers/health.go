package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	pingDB    func() error
	pingRedis func() error
}

func NewHealthHandler(pingDB, pingRedis func() error) *HealthHandler {
	return &HealthHandler{pingDB: pingDB, pingRedis: pingRedis}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.pingDB != nil {
		if err := h.pingDB(); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_unreachable"})
			return
		}
	}

	// redis is best-effort: the audit queue being down degrades the security
	// log, it does not make the API unready
	ready := gin.H{"status": "ready"}

	if h.pingRedis != nil {
		if err := h.pingRedis(); err != nil {
			ready["queue"] = "degraded"
		}
	}

	ctx.JSON(http.StatusOK, ready)
}
