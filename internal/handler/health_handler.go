package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler answers liveness and readiness checks.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Liveness handles GET /healthz. It answers as long as the process serves
// requests, independent of any dependency.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "faktura"})
}

// Readiness handles GET /readyz. Per-dependency results are reported so a
// failing check names the broken dependency.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := gin.H{"database": "ok"}
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		checks["database"] = "unreachable"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
