package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gamecompare/internal/apperr"
	"gamecompare/internal/service"
)

const userHeader = "X-User-ID"

type LibraryHandler struct {
	Service *service.LibraryService
	Logger  *zap.Logger
}

func (h *LibraryHandler) Register(r *gin.Engine) {
	lib := r.Group("/api/library")
	lib.GET("", h.listLibrary)
	lib.POST("", h.addToLibrary)
	lib.DELETE("", h.removeFromLibrary)

	track := r.Group("/api/tracking")
	track.GET("", h.listTracked)
	track.POST("", h.track)
	track.DELETE("", h.untrack)
	track.GET("/alerts", h.alerts)
}

type libraryRequest struct {
	GameID   uint64 `json:"game_id"`
	Platform string `json:"platform"`
	Status   string `json:"status"`
}

type trackRequest struct {
	GameID      uint64           `json:"game_id"`
	TargetPrice *decimal.Decimal `json:"target_price"`
	Notify      *bool            `json:"notify"`
}

func userID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(userHeader))
}

func gameIDQuery(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Query("game_id")), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Invalid("game_id", "must be a positive integer")
	}
	return id, nil
}

// @Summary List library
// @Tags library
// @Param X-User-ID header string true "user id"
// @Success 200 {object} apiResponse
// @Router /api/library [get]
func (h *LibraryHandler) listLibrary(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Service.ListLibrary(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, h.Logger, "list library failed", err)
		return
	}
	Ok(c, items, nil)
}

// @Summary Add to library
// @Tags library
// @Param X-User-ID header string true "user id"
// @Param body body libraryRequest true "entry"
// @Success 200 {object} apiResponse
// @Router /api/library [post]
func (h *LibraryHandler) addToLibrary(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req libraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	entry, err := h.Service.AddToLibrary(c.Request.Context(), service.LibraryInput{
		UserID:   userID(c),
		GameID:   req.GameID,
		Platform: strings.ToLower(strings.TrimSpace(req.Platform)),
		Status:   strings.ToLower(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		fail(c, h.Logger, "add to library failed", err)
		return
	}
	Ok(c, entry, nil)
}

// @Summary Remove from library
// @Tags library
// @Param X-User-ID header string true "user id"
// @Param game_id query int true "game id"
// @Param platform query string false "platform; all platforms when empty"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/library [delete]
func (h *LibraryHandler) removeFromLibrary(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	gameID, err := gameIDQuery(c)
	if err != nil {
		fail(c, h.Logger, "remove from library failed", err)
		return
	}
	platform := strings.ToLower(strings.TrimSpace(c.Query("platform")))
	if err := h.Service.RemoveFromLibrary(c.Request.Context(), userID(c), gameID, platform); err != nil {
		fail(c, h.Logger, "remove from library failed", err)
		return
	}
	Ok(c, gin.H{"removed": true}, nil)
}

// @Summary List tracked games
// @Tags tracking
// @Param X-User-ID header string true "user id"
// @Success 200 {object} apiResponse
// @Router /api/tracking [get]
func (h *LibraryHandler) listTracked(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Service.ListTracked(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, h.Logger, "list tracked failed", err)
		return
	}
	Ok(c, items, nil)
}

// @Summary Track a game price
// @Tags tracking
// @Param X-User-ID header string true "user id"
// @Param body body trackRequest true "target"
// @Success 200 {object} apiResponse
// @Router /api/tracking [post]
func (h *LibraryHandler) track(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Service.TrackGame(c.Request.Context(), service.TrackInput{
		UserID:      userID(c),
		GameID:      req.GameID,
		TargetPrice: req.TargetPrice,
		Notify:      req.Notify,
	})
	if err != nil {
		fail(c, h.Logger, "track failed", err)
		return
	}
	Ok(c, item, nil)
}

// @Summary Stop tracking a game
// @Tags tracking
// @Param X-User-ID header string true "user id"
// @Param game_id query int true "game id"
// @Success 200 {object} apiResponse
// @Router /api/tracking [delete]
func (h *LibraryHandler) untrack(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	gameID, err := gameIDQuery(c)
	if err != nil {
		fail(c, h.Logger, "untrack failed", err)
		return
	}
	if err := h.Service.UntrackGame(c.Request.Context(), userID(c), gameID); err != nil {
		fail(c, h.Logger, "untrack failed", err)
		return
	}
	Ok(c, gin.H{"removed": true}, nil)
}

// @Summary Triggered price alerts
// @Tags tracking
// @Param X-User-ID header string true "user id"
// @Success 200 {object} apiResponse
// @Router /api/tracking/alerts [get]
func (h *LibraryHandler) alerts(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Service.ListTriggeredAlerts(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, h.Logger, "alerts failed", err)
		return
	}
	Ok(c, items, nil)
}
