package platform

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gamecompare/internal/cache"
	"gamecompare/internal/client/steam"
)

const (
	steamSearchLimit    = 10
	steamSearchMaxLimit = 25
)

// SteamAdapter searches the public app list and prices each hit through the
// storefront details endpoint.
type SteamAdapter struct {
	client *steam.Client
	opts   AdapterOptions
}

func NewSteamAdapter(client *steam.Client, opts AdapterOptions) *SteamAdapter {
	if opts.StoreURL == "" && client != nil {
		opts.StoreURL = client.StoreHost()
	}
	return &SteamAdapter{client: client, opts: opts}
}

func (a *SteamAdapter) Platform() Platform {
	return Steam
}

func (a *SteamAdapter) appList(ctx context.Context) ([]steam.App, error) {
	return cache.Remember(ctx, a.opts.Cache, cache.Key("steam", "applist", nil), a.opts.CacheTTL, a.client.GetAppList)
}

func (a *SteamAdapter) details(ctx context.Context, appID string) (*steam.AppDetails, error) {
	key := cache.Key("steam", "details", map[string]string{"id": appID})
	return cache.Remember(ctx, a.opts.Cache, key, a.opts.CacheTTL, func(ctx context.Context) (*steam.AppDetails, error) {
		return a.client.GetAppDetails(ctx, appID)
	})
}

// matchApps returns named apps whose name contains query, skipping offset.
func matchApps(apps []steam.App, query string, offset, limit int) []steam.App {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]steam.App, 0, limit)
	skipped := 0
	for _, app := range apps {
		name := strings.TrimSpace(app.Name)
		if name == "" || (q != "" && !strings.Contains(strings.ToLower(name), q)) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, app)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (a *SteamAdapter) SearchGames(ctx context.Context, query string, filters SearchFilters) ([]NormalizedGame, error) {
	limit := filters.limit(steamSearchLimit, steamSearchMaxLimit)
	offset := max(filters.Offset, 0)
	key := cache.Key("steam", "search", map[string]string{
		"q":      query,
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	})
	games, err := cache.Remember(ctx, a.opts.Cache, key, a.opts.CacheTTL, func(ctx context.Context) ([]NormalizedGame, error) {
		apps, err := a.appList(ctx)
		if err != nil {
			return nil, err
		}
		hits := matchApps(apps, query, offset, limit)
		out := make([]NormalizedGame, 0, len(hits))
		for _, app := range hits {
			id := strconv.FormatInt(app.AppID, 10)
			d, err := a.details(ctx, id)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				a.opts.logger().Warn("steam details failed", zap.String("app_id", id), zap.Error(err))
			}
			out = append(out, NormalizeSteam(app.AppID, app.Name, d, a.opts.StoreURL))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return filterGames(games, filters), nil
}

func (a *SteamAdapter) GetGameDetails(ctx context.Context, platformID string) (*NormalizedGame, error) {
	appID, err := strconv.ParseInt(strings.TrimSpace(platformID), 10, 64)
	if err != nil {
		return nil, nil
	}
	d, err := a.details(ctx, platformID)
	if err != nil || d == nil {
		return nil, err
	}
	g := NormalizeSteam(appID, "", d, a.opts.StoreURL)
	return &g, nil
}

func (a *SteamAdapter) SyncGames(ctx context.Context, opts SyncOptions) SyncResult {
	return runSync(ctx, a.opts.Syncer, a, opts)
}

// FetchBatch takes one batch of the app list; each record fetches its own
// details behind the pacer.
func (a *SteamAdapter) FetchBatch(ctx context.Context, opts SyncOptions) ([]Record, error) {
	apps, err := a.appList(ctx)
	if err != nil {
		return nil, err
	}
	batch := matchApps(apps, opts.Query, max(opts.Offset, 0), a.opts.batchSize())
	pacer := newPacer(a.opts.RateLimitDelay)
	records := make([]Record, 0, len(batch))
	for _, app := range batch {
		id := strconv.FormatInt(app.AppID, 10)
		records = append(records, Record{
			PlatformID: id,
			Normalize: func(ctx context.Context) (NormalizedGame, error) {
				if err := pacer.Wait(ctx); err != nil {
					return NormalizedGame{}, err
				}
				d, err := a.client.GetAppDetails(ctx, id)
				if err != nil {
					return NormalizedGame{}, err
				}
				if d != nil {
					_ = cache.SetJSON(ctx, a.opts.Cache, cache.Key("steam", "details", map[string]string{"id": id}), d, a.opts.CacheTTL)
				}
				return NormalizeSteam(app.AppID, app.Name, d, a.opts.StoreURL), nil
			},
		})
	}
	return records, nil
}
