// Package platform adapts the three storefronts to one normalized shape and
// exposes them through a registry.
package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gamecompare/internal/apperr"
	"gamecompare/internal/models"
)

type Platform string

const (
	Steam Platform = models.PlatformSteam
	Epic  Platform = models.PlatformEpic
	GOG   Platform = models.PlatformGOG
)

// All is the fixed platform order.
var All = []Platform{Steam, Epic, GOG}

func Parse(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case Steam, Epic, GOG:
		return p, nil
	default:
		return "", apperr.Invalid("platform", "unknown platform %q", s)
	}
}

func (p Platform) String() string {
	return string(p)
}

// NormalizedGame is one upstream record mapped onto the common model.
type NormalizedGame struct {
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	CoverImage      *string    `json:"cover_image,omitempty"`
	Genres          []string   `json:"genres"`
	Tags            []string   `json:"tags"`
	Developer       *string    `json:"developer,omitempty"`
	Publisher       *string    `json:"publisher,omitempty"`
	ReleaseDate     *time.Time `json:"release_date,omitempty"`
	MetacriticScore *int       `json:"metacritic_score,omitempty"`
	Offer           Offer      `json:"offer"`
}

// Offer is the platform-specific half of a NormalizedGame.
type Offer struct {
	Platform        Platform         `json:"platform"`
	PlatformID      string           `json:"platform_id"`
	Price           *decimal.Decimal `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price"`
	DiscountPercent int              `json:"discount_percent"`
	Currency        string           `json:"currency"`
	URL             *string          `json:"url,omitempty"`
	ImageURL        *string          `json:"image_url,omitempty"`
	IsAvailable     models.TriState  `json:"is_available"`
	DRMFree         models.TriState  `json:"drm_free"`
	Metadata        map[string]any   `json:"metadata,omitempty"`
}

type SearchFilters struct {
	Limit      int
	Offset     int
	SortBy     string
	SortDir    string
	OnSaleOnly bool
	MaxPrice   *decimal.Decimal
}

func (f SearchFilters) limit(fallback, max int) int {
	if f.Limit <= 0 {
		return fallback
	}
	if f.Limit > max {
		return max
	}
	return f.Limit
}

// keep applies the filters an upstream cannot express itself.
func (f SearchFilters) keep(g NormalizedGame) bool {
	if f.OnSaleOnly && g.Offer.DiscountPercent <= 0 {
		return false
	}
	if f.MaxPrice != nil && (g.Offer.Price == nil || g.Offer.Price.GreaterThan(*f.MaxPrice)) {
		return false
	}
	return true
}

const (
	SyncTypeFull        = models.SyncTypeFull
	SyncTypeIncremental = models.SyncTypeIncremental
	SyncTypeManual      = models.SyncTypeManual
)

type SyncOptions struct {
	Force bool
	Type  string
	// Query narrows the upstream listing; empty means the default catalog order.
	Query  string
	Offset int
}

type SyncResult struct {
	Platform       Platform `json:"platform"`
	Status         string   `json:"status"`
	Success        bool     `json:"success"`
	Skipped        bool     `json:"skipped"`
	SyncLogID      uint64   `json:"sync_log_id,omitempty"`
	GamesProcessed int      `json:"games_processed"`
	GamesAdded     int      `json:"games_added"`
	GamesUpdated   int      `json:"games_updated"`
	Errors         []string `json:"errors"`
	DurationMs     int64    `json:"duration_ms"`
}

// Err classifies a finished result; nil for completed or skipped runs.
func (r SyncResult) Err() error {
	switch r.Status {
	case models.SyncStatusPartial:
		return fmt.Errorf("%s: %w (%d errors)", r.Platform, apperr.ErrPartialSync, len(r.Errors))
	case models.SyncStatusFailed:
		msg := ""
		if len(r.Errors) > 0 {
			msg = ": " + r.Errors[0]
		}
		return fmt.Errorf("%s: %w%s", r.Platform, apperr.ErrFatalSync, msg)
	default:
		return nil
	}
}

// Adapter is the uniform storefront contract.
type Adapter interface {
	Platform() Platform
	SearchGames(ctx context.Context, query string, filters SearchFilters) ([]NormalizedGame, error)
	// GetGameDetails returns nil, nil when the storefront has no such item.
	GetGameDetails(ctx context.Context, platformID string) (*NormalizedGame, error)
	SyncGames(ctx context.Context, opts SyncOptions) SyncResult
}

// Record is one upstream item queued for sync. Normalize may call upstream.
type Record struct {
	PlatformID string
	Normalize  func(ctx context.Context) (NormalizedGame, error)
}

// Source lists the records a sync run should persist.
type Source interface {
	Platform() Platform
	// FetchBatch fails only when nothing could be listed at all.
	FetchBatch(ctx context.Context, opts SyncOptions) ([]Record, error)
}

// Syncer runs the shared sync state machine over a Source.
type Syncer interface {
	Run(ctx context.Context, src Source, opts SyncOptions) SyncResult
}

func failedResult(p Platform, err error) SyncResult {
	return SyncResult{
		Platform: p,
		Status:   models.SyncStatusFailed,
		Errors:   []string{err.Error()},
	}
}

func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
