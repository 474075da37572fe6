package platform

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gamecompare/internal/cache"
	"gamecompare/internal/client/epic"
)

const (
	epicSearchLimit    = 20
	epicSearchMaxLimit = 50
)

type EpicAdapter struct {
	client *epic.Client
	opts   AdapterOptions
}

func NewEpicAdapter(client *epic.Client, opts AdapterOptions) *EpicAdapter {
	if opts.StoreURL == "" {
		opts.StoreURL = "https://store.epicgames.com/en-US"
	}
	return &EpicAdapter{client: client, opts: opts}
}

func (a *EpicAdapter) Platform() Platform {
	return Epic
}

func epicSortBy(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "price":
		return "currentPrice"
	case "title", "name":
		return "title"
	case "release", "release_date", "date":
		return "releaseDate"
	default:
		return ""
	}
}

func (a *EpicAdapter) SearchGames(ctx context.Context, query string, filters SearchFilters) ([]NormalizedGame, error) {
	params := epic.SearchParams{
		Keywords: strings.TrimSpace(query),
		Count:    filters.limit(epicSearchLimit, epicSearchMaxLimit),
		Start:    max(filters.Offset, 0),
		SortBy:   epicSortBy(filters.SortBy),
		SortDir:  sortDir(filters.SortDir),
		OnSale:   filters.OnSaleOnly,
	}
	key := cache.Key("epic", "search", map[string]string{
		"q":      params.Keywords,
		"count":  strconv.Itoa(params.Count),
		"start":  strconv.Itoa(params.Start),
		"sort":   params.SortBy + "." + params.SortDir,
		"onsale": strconv.FormatBool(params.OnSale),
	})
	games, err := cache.Remember(ctx, a.opts.Cache, key, a.opts.CacheTTL, func(ctx context.Context) ([]NormalizedGame, error) {
		page, err := a.client.SearchStore(ctx, params)
		if err != nil {
			return nil, err
		}
		return a.normalizeAll(page.Elements), nil
	})
	if err != nil {
		return nil, err
	}
	return filterGames(games, filters), nil
}

func (a *EpicAdapter) normalizeAll(elements []epic.Element) []NormalizedGame {
	out := make([]NormalizedGame, 0, len(elements))
	for _, el := range elements {
		if strings.TrimSpace(el.Title) == "" {
			continue
		}
		out = append(out, NormalizeEpic(el, a.opts.StoreURL))
	}
	return out
}

// GetGameDetails expects the "<namespace>:<offer id>" form stored by sync.
func (a *EpicAdapter) GetGameDetails(ctx context.Context, platformID string) (*NormalizedGame, error) {
	if _, _, ok := epic.SplitID(platformID); !ok {
		return nil, nil
	}
	key := cache.Key("epic", "product", map[string]string{"id": platformID})
	el, err := cache.Remember(ctx, a.opts.Cache, key, a.opts.CacheTTL, func(ctx context.Context) (*epic.Element, error) {
		return a.client.GetOffer(ctx, platformID)
	})
	if err != nil || el == nil {
		return nil, err
	}
	g := NormalizeEpic(*el, a.opts.StoreURL)
	return &g, nil
}

func (a *EpicAdapter) SyncGames(ctx context.Context, opts SyncOptions) SyncResult {
	return runSync(ctx, a.opts.Syncer, a, opts)
}

// FetchBatch pages through the catalog. A failing later page becomes a
// failing record so the pages already listed still sync.
func (a *EpicAdapter) FetchBatch(ctx context.Context, opts SyncOptions) ([]Record, error) {
	size := a.opts.batchSize()
	pacer := newPacer(a.opts.RateLimitDelay)
	var records []Record
	for page := 0; page < a.opts.pages(); page++ {
		if err := pacer.Wait(ctx); err != nil {
			return records, err
		}
		res, err := a.client.SearchStore(ctx, epic.SearchParams{
			Keywords: opts.Query,
			Count:    size,
			Start:    max(opts.Offset, 0) + page*size,
		})
		if err != nil {
			if page == 0 {
				return nil, err
			}
			a.opts.logger().Warn("epic catalog page failed", zap.Int("page", page), zap.Error(err))
			records = append(records, pageFailure(page, err))
			break
		}
		for _, el := range res.Elements {
			el := el
			records = append(records, Record{
				PlatformID: epic.JoinID(el.Namespace, el.ID),
				Normalize: func(context.Context) (NormalizedGame, error) {
					return NormalizeEpic(el, a.opts.StoreURL), nil
				},
			})
		}
		if len(res.Elements) < size {
			break
		}
	}
	return records, nil
}

func pageFailure(page int, err error) Record {
	return Record{
		PlatformID: fmt.Sprintf("page:%d", page),
		Normalize: func(context.Context) (NormalizedGame, error) {
			return NormalizedGame{}, fmt.Errorf("list page %d: %w", page, err)
		},
	}
}
