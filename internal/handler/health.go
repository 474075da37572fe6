package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const readyTimeout = 2 * time.Second

// Pinger is any dependency /readyz should probe besides the database.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB *gorm.DB
	// Deps are probed by name, e.g. "redis".
	Deps map[string]Pinger
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
}

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// @Summary Health check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Readiness check
// @Description Probes the database and every configured dependency; 503 when any check fails.
// @Tags health
// @Success 200 {object} readiness
// @Failure 503 {object} readiness
// @Router /readyz [get]
func (h *HealthHandler) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	out := readiness{Status: "ready", Checks: map[string]string{"db": h.pingDB(ctx)}}
	names := make([]string, 0, len(h.Deps))
	for name := range h.Deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out.Checks[name] = "ok"
		if err := h.Deps[name].Ping(ctx); err != nil {
			out.Checks[name] = "unreachable"
		}
	}

	code := http.StatusOK
	for _, state := range out.Checks {
		if state != "ok" {
			out.Status = "not_ready"
			code = http.StatusServiceUnavailable
			break
		}
	}
	c.JSON(code, out)
}

func (h *HealthHandler) pingDB(ctx context.Context) string {
	if h.DB == nil {
		return "missing"
	}
	sqlDB, err := h.DB.DB()
	if err != nil {
		return "error"
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return "unreachable"
	}
	return "ok"
}
