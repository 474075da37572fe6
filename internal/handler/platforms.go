package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamecompare/internal/platform"
)

// PlatformHandler exposes live storefront lookups. Nothing here is persisted.
type PlatformHandler struct {
	Manager *platform.Manager
	Logger  *zap.Logger
}

func (h *PlatformHandler) Register(r *gin.Engine) {
	group := r.Group("/api/platforms")
	group.GET("", h.listPlatforms)
	group.GET("/search", h.search)
	group.GET("/availability", h.availability)
	group.GET("/:platform/games/:platformId", h.gameDetails)
}

// @Summary List enabled platforms
// @Tags platforms
// @Success 200 {object} apiResponse
// @Router /api/platforms [get]
func (h *PlatformHandler) listPlatforms(c *gin.Context) {
	if h.Manager == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	Ok(c, h.Manager.Platforms(), nil)
}

// @Summary Search storefronts live
// @Tags platforms
// @Param q query string true "search text"
// @Param platforms query string false "comma separated subset (steam,epic,gog)"
// @Param limit query int false "max results per platform"
// @Param on_sale query bool false "only discounted offers"
// @Param max_price query number false "price ceiling"
// @Success 200 {object} apiResponse
// @Router /api/platforms/search [get]
func (h *PlatformHandler) search(c *gin.Context) {
	if h.Manager == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		Error(c, http.StatusBadRequest, "q is required", nil)
		return
	}
	var platforms []platform.Platform
	for _, raw := range listQuery(c, "platforms") {
		p, err := platform.Parse(raw)
		if err != nil {
			fail(c, h.Logger, "platform search failed", err)
			return
		}
		platforms = append(platforms, p)
	}
	maxPrice, err := decimalQueryPtr(c, "max_price")
	if err != nil {
		fail(c, h.Logger, "platform search failed", err)
		return
	}
	results := h.Manager.SearchAllPlatforms(c.Request.Context(), q, platforms, platform.SearchFilters{
		Limit:      intQuery(c, "limit", 0),
		OnSaleOnly: boolQueryDefault(c, "on_sale", false),
		MaxPrice:   maxPrice,
	})
	Ok(c, results, nil)
}

// @Summary Live game details
// @Tags platforms
// @Param platform path string true "steam|epic|gog"
// @Param platformId path string true "storefront id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/platforms/{platform}/games/{platformId} [get]
func (h *PlatformHandler) gameDetails(c *gin.Context) {
	if h.Manager == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	game, err := h.Manager.GetGameDetails(c.Request.Context(), c.Param("platform"), c.Param("platformId"))
	if err != nil {
		fail(c, h.Logger, "game details failed", err)
		return
	}
	Ok(c, game, nil)
}

// @Summary Per-platform availability by title
// @Tags platforms
// @Param name query string true "game title"
// @Success 200 {object} apiResponse
// @Router /api/platforms/availability [get]
func (h *PlatformHandler) availability(c *gin.Context) {
	if h.Manager == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		Error(c, http.StatusBadRequest, "name is required", nil)
		return
	}
	Ok(c, h.Manager.GetPlatformAvailability(c.Request.Context(), name), nil)
}
