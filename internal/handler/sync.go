package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamecompare/internal/models"
	"gamecompare/internal/platform"
	"gamecompare/internal/repository"
	"gamecompare/internal/service"
)

type SyncHandler struct {
	Manager *platform.Manager
	Service *service.SyncService
	Logger  *zap.Logger
}

func (h *SyncHandler) Register(r *gin.Engine) {
	group := r.Group("/api/sync")
	group.POST("", h.runSync)
	group.GET("/status", h.status)
	group.GET("/logs", h.listLogs)
}

// @Summary Run a storefront sync
// @Tags sync
// @Param platform query string false "all|steam|epic|gog (default all)"
// @Param force query bool false "ignore the per-platform throttle"
// @Param query query string false "seed query for search-driven syncs"
// @Param offset query int false "upstream offset"
// @Success 200 {object} apiResponse
// @Router /api/sync [post]
func (h *SyncHandler) runSync(c *gin.Context) {
	if h.Manager == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	target := strings.TrimSpace(c.Query("platform"))
	if target == "" {
		target = "all"
	}
	results, err := h.Manager.SyncPlatform(c.Request.Context(), target, platform.SyncOptions{
		Force:  boolQueryDefault(c, "force", false),
		Type:   models.SyncTypeManual,
		Query:  strings.TrimSpace(c.Query("query")),
		Offset: intQuery(c, "offset", 0),
	})
	if err != nil {
		fail(c, h.Logger, "sync failed", err)
		return
	}
	for _, res := range results {
		if !res.Success && h.Logger != nil {
			h.Logger.Warn("sync finished unsuccessfully",
				zap.String("platform", res.Platform.String()),
				zap.String("status", res.Status),
				zap.Strings("errors", res.Errors),
			)
		}
	}
	Ok(c, results, nil)
}

// @Summary Latest sync state per platform
// @Tags sync
// @Success 200 {object} apiResponse
// @Router /api/sync/status [get]
func (h *SyncHandler) status(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Service.GetSyncStatus(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, "sync status failed", err)
		return
	}
	Ok(c, items, nil)
}

// @Summary Sync history
// @Tags sync
// @Param platform query string false "steam|epic|gog"
// @Param status query string false "running|completed|partial|failed"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/sync/logs [get]
func (h *SyncHandler) listLogs(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	items, err := h.Service.ListSyncLogs(c.Request.Context(), repository.ListSyncLogsParams{
		Platform: strQueryPtr(c, "platform"),
		Status:   strQueryPtr(c, "status"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		fail(c, h.Logger, "list sync logs failed", err)
		return
	}
	Ok(c, items, map[string]any{"limit": limit, "offset": offset})
}
