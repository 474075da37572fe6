package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"gamecompare/internal/config"
	"gamecompare/internal/db"
	"gamecompare/internal/models"
	"gamecompare/internal/platform"
	gormrepository "gamecompare/internal/repository/gorm"
)

func newTestStore(t *testing.T) *gormrepository.Store {
	t.Helper()
	conn, err := db.Open(config.DBConfig{Driver: "sqlite"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gormrepository.New(conn.Gorm)
}

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

// staticSource serves fixed records; failAt marks 1-based positions whose
// normalization fails.
type staticSource struct {
	platform platform.Platform
	games    []platform.NormalizedGame
	failAt   map[int]bool
	fetchErr error
	fetches  int
	// onFetch runs before records are returned, e.g. to advance a test clock.
	onFetch func()
}

func (s *staticSource) Platform() platform.Platform { return s.platform }

func (s *staticSource) FetchBatch(ctx context.Context, opts platform.SyncOptions) ([]platform.Record, error) {
	s.fetches++
	if s.onFetch != nil {
		s.onFetch()
	}
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	out := make([]platform.Record, 0, len(s.games))
	for i, g := range s.games {
		g := g
		pos := i + 1
		out = append(out, platform.Record{
			PlatformID: g.Offer.PlatformID,
			Normalize: func(context.Context) (platform.NormalizedGame, error) {
				if s.failAt[pos] {
					return platform.NormalizedGame{}, errUpstreamShape
				}
				return g, nil
			},
		})
	}
	return out, nil
}

var errUpstreamShape = errors.New("unexpected upstream shape")

func normalized(p platform.Platform, name, id, price string, discount int) platform.NormalizedGame {
	g := platform.NormalizedGame{
		Name:   name,
		Genres: []string{"Action"},
		Offer: platform.Offer{
			Platform:        p,
			PlatformID:      id,
			DiscountPercent: discount,
			Currency:        "USD",
			IsAvailable:     models.TriTrue,
			DRMFree:         models.TriUnknown,
		},
	}
	if price != "" {
		g.Offer.Price = dec(price)
		g.Offer.OriginalPrice = dec(price)
	}
	return g
}
