package platform

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gamecompare/internal/apperr"
	"gamecompare/internal/models"
)

// Manager is the adapter registry. Fan-out calls settle every platform and
// never fail as a whole because one storefront did.
type Manager struct {
	adapters map[Platform]Adapter
	logger   *zap.Logger
}

func NewManager(logger *zap.Logger, adapters ...Adapter) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{adapters: make(map[Platform]Adapter, len(adapters)), logger: logger}
	for _, a := range adapters {
		if a != nil {
			m.adapters[a.Platform()] = a
		}
	}
	return m
}

func (m *Manager) Adapter(p Platform) (Adapter, bool) {
	if m == nil {
		return nil, false
	}
	a, ok := m.adapters[p]
	return a, ok
}

// Platforms lists registered platforms in fixed order.
func (m *Manager) Platforms() []Platform {
	out := make([]Platform, 0, len(All))
	for _, p := range All {
		if _, ok := m.Adapter(p); ok {
			out = append(out, p)
		}
	}
	return out
}

func (m *Manager) resolve(platforms []Platform) []Platform {
	if len(platforms) == 0 {
		return m.Platforms()
	}
	out := make([]Platform, 0, len(platforms))
	for _, p := range All {
		for _, want := range platforms {
			if p == want {
				if _, ok := m.Adapter(p); ok {
					out = append(out, p)
				}
				break
			}
		}
	}
	return out
}

// SearchAllPlatforms queries each platform concurrently. A failing platform
// contributes an empty list.
func (m *Manager) SearchAllPlatforms(ctx context.Context, query string, platforms []Platform, filters SearchFilters) map[Platform][]NormalizedGame {
	targets := m.resolve(platforms)
	out := make(map[Platform][]NormalizedGame, len(targets))
	var mu sync.Mutex
	var g errgroup.Group
	for _, p := range targets {
		p := p
		adapter := m.adapters[p]
		g.Go(func() error {
			games, err := safeSearch(ctx, adapter, query, filters)
			if err != nil {
				m.logger.Warn("platform search failed", zap.String("platform", p.String()), zap.String("query", query), zap.Error(err))
				games = nil
			}
			if games == nil {
				games = []NormalizedGame{}
			}
			mu.Lock()
			out[p] = games
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func safeSearch(ctx context.Context, a Adapter, query string, filters SearchFilters) (games []NormalizedGame, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.SearchGames(ctx, query, filters)
}

// SyncPlatform runs one platform or, for "all", every registered platform.
func (m *Manager) SyncPlatform(ctx context.Context, target string, opts SyncOptions) ([]SyncResult, error) {
	if strings.EqualFold(strings.TrimSpace(target), "all") {
		return m.SyncAll(ctx, opts), nil
	}
	p, err := Parse(target)
	if err != nil {
		return nil, err
	}
	a, ok := m.Adapter(p)
	if !ok {
		return nil, apperr.Invalid("platform", "platform %s is not enabled", p)
	}
	return []SyncResult{safeSync(ctx, a, opts)}, nil
}

// SyncAll syncs every platform concurrently; results follow the fixed order.
func (m *Manager) SyncAll(ctx context.Context, opts SyncOptions) []SyncResult {
	targets := m.Platforms()
	results := make([]SyncResult, len(targets))
	var g errgroup.Group
	for i, p := range targets {
		i := i
		adapter := m.adapters[p]
		g.Go(func() error {
			results[i] = safeSync(ctx, adapter, opts)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func safeSync(ctx context.Context, a Adapter, opts SyncOptions) (res SyncResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = failedResult(a.Platform(), fmt.Errorf("Failed to sync %s: panic: %v", a.Platform(), r))
			res.DurationMs = time.Since(start).Milliseconds()
		}
	}()
	return a.SyncGames(ctx, opts)
}

// GetGameDetails fetches one live item from a storefront.
func (m *Manager) GetGameDetails(ctx context.Context, platform, platformID string) (*NormalizedGame, error) {
	p, err := Parse(platform)
	if err != nil {
		return nil, err
	}
	a, ok := m.Adapter(p)
	if !ok {
		return nil, apperr.Invalid("platform", "platform %s is not enabled", p)
	}
	g, err := a.GetGameDetails(ctx, platformID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFoundf("Game not found: %s on %s", platformID, p)
	}
	return g, nil
}

type Availability struct {
	Platform   Platform `json:"platform"`
	Available  bool     `json:"available"`
	PlatformID string   `json:"platform_id,omitempty"`
	Price      *string  `json:"price,omitempty"`
	URL        *string  `json:"url,omitempty"`
}

// GetPlatformAvailability picks, per platform, the live search hit whose
// title equals name (case-insensitive), else the first hit.
func (m *Manager) GetPlatformAvailability(ctx context.Context, name string) []Availability {
	name = strings.TrimSpace(name)
	hits := m.SearchAllPlatforms(ctx, name, nil, SearchFilters{Limit: 10})
	out := make([]Availability, 0, len(hits))
	for _, p := range m.Platforms() {
		av := Availability{Platform: p}
		if g := bestMatch(hits[p], name); g != nil {
			av.Available = g.Offer.IsAvailable != models.TriFalse
			av.PlatformID = g.Offer.PlatformID
			av.URL = g.Offer.URL
			if g.Offer.Price != nil {
				s := g.Offer.Price.StringFixed(2)
				av.Price = &s
			}
		}
		out = append(out, av)
	}
	return out
}

func bestMatch(games []NormalizedGame, name string) *NormalizedGame {
	if len(games) == 0 {
		return nil
	}
	for i := range games {
		if strings.EqualFold(strings.TrimSpace(games[i].Name), name) {
			return &games[i]
		}
	}
	return &games[0]
}
