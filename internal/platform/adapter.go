package platform

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gamecompare/internal/cache"
	"gamecompare/internal/models"
)

type AdapterOptions struct {
	StoreURL       string
	Cache          cache.Store
	CacheTTL       time.Duration
	RateLimitDelay time.Duration
	BatchSize      int
	Pages          int
	Syncer         Syncer
	Logger         *zap.Logger
}

func (o AdapterOptions) batchSize() int {
	if o.BatchSize <= 0 {
		return 50
	}
	return o.BatchSize
}

func (o AdapterOptions) pages() int {
	if o.Pages <= 0 {
		return 1
	}
	return o.Pages
}

func (o AdapterOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// newPacer spaces upstream calls inside one sync run. The first call is
// immediate; searches are never paced.
func newPacer(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

func runSync(ctx context.Context, syncer Syncer, src Source, opts SyncOptions) SyncResult {
	if syncer == nil {
		return SyncResult{Platform: src.Platform(), Status: models.SyncStatusFailed, Errors: []string{"sync engine not configured"}}
	}
	return syncer.Run(ctx, src, opts)
}

func filterGames(games []NormalizedGame, filters SearchFilters) []NormalizedGame {
	out := make([]NormalizedGame, 0, len(games))
	for _, g := range games {
		if filters.keep(g) {
			out = append(out, g)
		}
	}
	return out
}

func sortDir(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "asc"
	}
	return "desc"
}
