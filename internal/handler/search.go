package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamecompare/internal/service"
)

type SearchHandler struct {
	Service *service.SearchService
	Logger  *zap.Logger
}

func (h *SearchHandler) Register(r *gin.Engine) {
	group := r.Group("/api/search")
	group.GET("", h.advancedSearch)
	group.GET("/genre", h.byGenre)
	group.GET("/trending", h.trending)
	group.GET("/autocomplete", h.autocomplete)
}

// @Summary Search the local catalog
// @Tags search
// @Param q query string true "search text (1-500 chars)"
// @Param platforms query string false "comma separated subset (steam,epic,gog)"
// @Param min_price query number false "minimum offer price"
// @Param max_price query number false "maximum offer price"
// @Param genres query string false "comma separated genres (any)"
// @Param tags query string false "comma separated tags (any)"
// @Param released_after query string false "RFC3339 or YYYY-MM-DD"
// @Param released_before query string false "RFC3339 or YYYY-MM-DD"
// @Param on_sale query bool false "discounted offers only"
// @Param sort query string false "relevance|price_low_to_high|price_high_to_low|release_date|discount"
// @Param page query int false "page (1-based)"
// @Param limit query int false "page size (1-100)"
// @Success 200 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Router /api/search [get]
func (h *SearchHandler) advancedSearch(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	in := service.AdvancedSearchInput{
		Query:     c.Query("q"),
		Platforms: lowerAll(listQuery(c, "platforms")),
		Genres:    listQuery(c, "genres"),
		Tags:      listQuery(c, "tags"),
		OnSale:    boolQueryDefault(c, "on_sale", false),
		Sort:      strings.TrimSpace(c.Query("sort")),
		Page:      intQuery(c, "page", 1),
		Limit:     intQuery(c, "limit", 0),
	}
	var err error
	if in.MinPrice, err = decimalQueryPtr(c, "min_price"); err != nil {
		fail(c, h.Logger, "search failed", err)
		return
	}
	if in.MaxPrice, err = decimalQueryPtr(c, "max_price"); err != nil {
		fail(c, h.Logger, "search failed", err)
		return
	}
	if in.ReleasedAfter, err = timeQueryPtr(c, "released_after"); err != nil {
		fail(c, h.Logger, "search failed", err)
		return
	}
	if in.ReleasedBefore, err = timeQueryPtr(c, "released_before"); err != nil {
		fail(c, h.Logger, "search failed", err)
		return
	}
	res, err := h.Service.AdvancedSearch(c.Request.Context(), in)
	if err != nil {
		fail(c, h.Logger, "search failed", err)
		return
	}
	Ok(c, res, nil)
}

// @Summary Games by genre
// @Tags search
// @Param genre query string true "genre"
// @Param limit query int false "limit (1-100)"
// @Success 200 {object} apiResponse
// @Router /api/search/genre [get]
func (h *SearchHandler) byGenre(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	res, err := h.Service.SearchByGenre(c.Request.Context(), service.GenreSearchInput{
		Genre: c.Query("genre"),
		Limit: intQuery(c, "limit", 0),
	})
	if err != nil {
		fail(c, h.Logger, "genre search failed", err)
		return
	}
	Ok(c, res, nil)
}

// @Summary Trending games
// @Tags search
// @Param timeframe query string false "week|month"
// @Param platforms query string false "comma separated subset"
// @Param limit query int false "limit (1-50)"
// @Success 200 {object} apiResponse
// @Router /api/search/trending [get]
func (h *SearchHandler) trending(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	res, err := h.Service.GetTrending(c.Request.Context(), service.TrendingInput{
		Timeframe: strings.ToLower(strings.TrimSpace(c.Query("timeframe"))),
		Platforms: lowerAll(listQuery(c, "platforms")),
		Limit:     intQuery(c, "limit", 0),
	})
	if err != nil {
		fail(c, h.Logger, "trending failed", err)
		return
	}
	Ok(c, res, nil)
}

// @Summary Autocomplete suggestions
// @Tags search
// @Param q query string true "prefix or fragment"
// @Param limit query int false "limit (1-20)"
// @Success 200 {object} apiResponse
// @Router /api/search/autocomplete [get]
func (h *SearchHandler) autocomplete(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	res, err := h.Service.GetAutoCompleteSuggestions(c.Request.Context(), service.AutoCompleteInput{
		Query: c.Query("q"),
		Limit: intQuery(c, "limit", 0),
	})
	if err != nil {
		fail(c, h.Logger, "autocomplete failed", err)
		return
	}
	Ok(c, res, nil)
}
