package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Game Price Compare

Aggregates Steam, Epic Games Store and GOG offers into one catalog, keeps it
fresh through throttled syncs, and answers price comparison and search queries.

## Identity

Library and tracking routes read the caller from the X-User-ID header.
There is no authentication in this service.

## Routes

- GET /healthz, GET /readyz, GET /metrics
- GET /swagger/index.html
- GET /api/platforms/search?q=
- GET /api/platforms/{platform}/games/{platformId}
- GET /api/platforms/availability?name=
- POST /api/sync?platform=all&force=false
- GET /api/sync/status, GET /api/sync/logs
- GET /api/games, GET /api/games/{id}, GET /api/games/{id}/price-history
- GET /api/games/{id}/compare, GET /api/compare?name=
- GET /api/games/{id}/where-to-buy
- GET /api/search?q=, /api/search/genre, /api/search/trending, /api/search/autocomplete
- GET|POST|DELETE /api/library, GET|POST|DELETE /api/tracking, GET /api/tracking/alerts

## Errors

Every response uses {code, message, data, meta}. Validation failures are 400,
unknown games or missing comparisons are 404, and storefront outages are 502.
`)
	})
}
