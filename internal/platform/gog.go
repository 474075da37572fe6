package platform

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gamecompare/internal/cache"
	"gamecompare/internal/client/gog"
)

const (
	gogSearchLimit    = 20
	gogSearchMaxLimit = 48
)

type GOGAdapter struct {
	client *gog.Client
	opts   AdapterOptions
}

func NewGOGAdapter(client *gog.Client, opts AdapterOptions) *GOGAdapter {
	if opts.StoreURL == "" {
		opts.StoreURL = "https://www.gog.com"
	}
	return &GOGAdapter{client: client, opts: opts}
}

func (a *GOGAdapter) Platform() Platform {
	return GOG
}

func gogOrder(sortBy, dir string) string {
	field := ""
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "price":
		field = "price"
	case "title", "name":
		field = "title"
	case "release", "release_date", "date":
		field = "releaseDate"
	case "discount":
		field = "discount"
	default:
		return ""
	}
	return sortDir(dir) + ":" + field
}

func (a *GOGAdapter) SearchGames(ctx context.Context, query string, filters SearchFilters) ([]NormalizedGame, error) {
	limit := filters.limit(gogSearchLimit, gogSearchMaxLimit)
	params := gog.SearchParams{
		Search: strings.TrimSpace(query),
		Page:   max(filters.Offset, 0)/limit + 1,
		Limit:  limit,
		Order:  gogOrder(filters.SortBy, filters.SortDir),
	}
	key := cache.Key("gog", "search", map[string]string{
		"q":     params.Search,
		"page":  strconv.Itoa(params.Page),
		"limit": strconv.Itoa(params.Limit),
		"order": params.Order,
	})
	games, err := cache.Remember(ctx, a.opts.Cache, key, a.opts.CacheTTL, func(ctx context.Context) ([]NormalizedGame, error) {
		page, err := a.client.Catalog(ctx, params)
		if err != nil {
			return nil, err
		}
		out := make([]NormalizedGame, 0, len(page.Products))
		for _, p := range page.Products {
			if strings.TrimSpace(p.Title) == "" {
				continue
			}
			out = append(out, NormalizeGOG(p, a.opts.StoreURL))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return filterGames(games, filters), nil
}

func (a *GOGAdapter) GetGameDetails(ctx context.Context, platformID string) (*NormalizedGame, error) {
	key := cache.Key("gog", "product", map[string]string{"id": platformID})
	p, err := cache.Remember(ctx, a.opts.Cache, key, a.opts.CacheTTL, func(ctx context.Context) (*gog.Product, error) {
		return a.client.GetProduct(ctx, platformID)
	})
	if err != nil || p == nil {
		return nil, err
	}
	g := NormalizeGOG(*p, a.opts.StoreURL)
	return &g, nil
}

func (a *GOGAdapter) SyncGames(ctx context.Context, opts SyncOptions) SyncResult {
	return runSync(ctx, a.opts.Syncer, a, opts)
}

func (a *GOGAdapter) FetchBatch(ctx context.Context, opts SyncOptions) ([]Record, error) {
	size := a.opts.batchSize()
	first := max(opts.Offset, 0)/size + 1
	pacer := newPacer(a.opts.RateLimitDelay)
	var records []Record
	for i := 0; i < a.opts.pages(); i++ {
		if err := pacer.Wait(ctx); err != nil {
			return records, err
		}
		res, err := a.client.Catalog(ctx, gog.SearchParams{Search: opts.Query, Page: first + i, Limit: size})
		if err != nil {
			if i == 0 {
				return nil, err
			}
			a.opts.logger().Warn("gog catalog page failed", zap.Int("page", first+i), zap.Error(err))
			records = append(records, pageFailure(first+i, err))
			break
		}
		for _, p := range res.Products {
			p := p
			records = append(records, Record{
				PlatformID: strconv.FormatInt(p.ID, 10),
				Normalize: func(context.Context) (NormalizedGame, error) {
					return NormalizeGOG(p, a.opts.StoreURL), nil
				},
			})
		}
		if res.TotalPages > 0 && first+i >= res.TotalPages {
			break
		}
	}
	return records, nil
}
