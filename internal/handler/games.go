package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamecompare/internal/service"
)

type GameHandler struct {
	Catalog    *service.CatalogService
	Comparison *service.ComparisonService
	Logger     *zap.Logger
}

func (h *GameHandler) Register(r *gin.Engine) {
	group := r.Group("/api/games")
	group.GET("", h.listGames)
	group.GET("/:id", h.getGame)
	group.GET("/:id/price-history", h.priceHistory)
	group.GET("/:id/compare", h.compareByID)
	group.DELETE("/:id/compare", h.invalidateComparison)
	group.GET("/:id/where-to-buy", h.whereToBuy)
	r.GET("/api/compare", h.compareByName)
}

// @Summary List games
// @Tags games
// @Param q query string false "name contains"
// @Param platform query string false "steam|epic|gog"
// @Param order_by query string false "name|release_date|created_at|updated_at|id"
// @Param asc query bool false "ascending order"
// @Param page query int false "page (1-based)"
// @Param limit query int false "page size (max 100)"
// @Success 200 {object} apiResponse
// @Router /api/games [get]
func (h *GameHandler) listGames(c *gin.Context) {
	if h.Catalog == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	res, err := h.Catalog.ListGames(c.Request.Context(), service.GameListInput{
		Query:    c.Query("q"),
		Platform: strings.ToLower(strings.TrimSpace(c.Query("platform"))),
		OrderBy:  strings.TrimSpace(c.Query("order_by")),
		Asc:      boolQueryDefault(c, "asc", false),
		Page:     intQuery(c, "page", 1),
		Limit:    intQuery(c, "limit", 0),
	})
	if err != nil {
		fail(c, h.Logger, "list games failed", err)
		return
	}
	offset := (res.Pagination.Page - 1) * res.Pagination.Limit
	Ok(c, res.Games, paginationMeta(res.Pagination.Limit, offset, res.Pagination.Total))
}

// @Summary Get game with offers
// @Tags games
// @Param id path int true "game id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/games/{id} [get]
func (h *GameHandler) getGame(c *gin.Context) {
	if h.Catalog == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, h.Logger, "get game failed", err)
		return
	}
	game, err := h.Catalog.GetGame(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, "get game failed", err)
		return
	}
	Ok(c, game, nil)
}

// @Summary Price history
// @Tags games
// @Param id path int true "game id"
// @Param platform query string false "steam|epic|gog"
// @Param since query string false "RFC3339 or YYYY-MM-DD"
// @Param limit query int false "limit (max 500)"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/price-history [get]
func (h *GameHandler) priceHistory(c *gin.Context) {
	if h.Catalog == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, h.Logger, "price history failed", err)
		return
	}
	since, err := timeQueryPtr(c, "since")
	if err != nil {
		fail(c, h.Logger, "price history failed", err)
		return
	}
	points, err := h.Catalog.PriceHistory(c.Request.Context(), service.PriceHistoryInput{
		GameID:   id,
		Platform: strings.ToLower(strings.TrimSpace(c.Query("platform"))),
		Since:    since,
		Limit:    intQuery(c, "limit", 0),
	})
	if err != nil {
		fail(c, h.Logger, "price history failed", err)
		return
	}
	Ok(c, points, nil)
}

// @Summary Compare prices across platforms
// @Tags comparison
// @Param id path int true "game id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/games/{id}/compare [get]
func (h *GameHandler) compareByID(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, h.Logger, "compare failed", err)
		return
	}
	h.compare(c, service.ComparisonQuery{GameID: id})
}

// @Summary Compare prices by exact game name
// @Tags comparison
// @Param name query string true "game name"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/compare [get]
func (h *GameHandler) compareByName(c *gin.Context) {
	h.compare(c, service.ComparisonQuery{GameName: c.Query("name")})
}

func (h *GameHandler) compare(c *gin.Context, q service.ComparisonQuery) {
	if h.Comparison == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	res, err := h.Comparison.PriceComparison(c.Request.Context(), q)
	if err != nil {
		fail(c, h.Logger, "compare failed", err)
		return
	}
	Ok(c, res, map[string]any{"cached": res.Cached})
}

// @Summary Drop the cached comparison
// @Description The next compare recomputes from current offers.
// @Tags comparison
// @Param id path int true "game id"
// @Success 200 {object} apiResponse
// @Router /api/games/{id}/compare [delete]
func (h *GameHandler) invalidateComparison(c *gin.Context) {
	if h.Comparison == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, h.Logger, "invalidate comparison failed", err)
		return
	}
	if err := h.Comparison.InvalidateComparison(c.Request.Context(), id); err != nil {
		fail(c, h.Logger, "invalidate comparison failed", err)
		return
	}
	Ok(c, gin.H{"game_id": id}, nil)
}

// @Summary Where to buy
// @Tags comparison
// @Param id path int true "game id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/games/{id}/where-to-buy [get]
func (h *GameHandler) whereToBuy(c *gin.Context) {
	if h.Comparison == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, h.Logger, "where to buy failed", err)
		return
	}
	res, err := h.Comparison.WhereToBuy(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, "where to buy failed", err)
		return
	}
	Ok(c, res, nil)
}
