package platform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"gamecompare/internal/apperr"
	"gamecompare/internal/models"
)

type stubAdapter struct {
	platform Platform
	games    []NormalizedGame
	err      error
	panics   bool
	details  *NormalizedGame
	sync     SyncResult
}

func (s *stubAdapter) Platform() Platform { return s.platform }

func (s *stubAdapter) SearchGames(ctx context.Context, query string, filters SearchFilters) ([]NormalizedGame, error) {
	if s.panics {
		panic("boom")
	}
	return s.games, s.err
}

func (s *stubAdapter) GetGameDetails(ctx context.Context, platformID string) (*NormalizedGame, error) {
	return s.details, s.err
}

func (s *stubAdapter) SyncGames(ctx context.Context, opts SyncOptions) SyncResult {
	if s.panics {
		panic("boom")
	}
	res := s.sync
	res.Platform = s.platform
	return res
}

func game(p Platform, name, price string) NormalizedGame {
	d := decimal.RequireFromString(price)
	return NormalizedGame{Name: name, Offer: Offer{Platform: p, PlatformID: name + "-" + string(p), Price: &d, IsAvailable: models.TriTrue}}
}

func TestSearchAllPlatforms_SettlesFailures(t *testing.T) {
	m := NewManager(nil,
		&stubAdapter{platform: Steam, games: []NormalizedGame{game(Steam, "Hades", "24.99")}},
		&stubAdapter{platform: Epic, err: errors.New("upstream down")},
		&stubAdapter{platform: GOG, panics: true},
	)
	got := m.SearchAllPlatforms(context.Background(), "hades", nil, SearchFilters{})
	if len(got) != 3 {
		t.Fatalf("platforms=%d", len(got))
	}
	if len(got[Steam]) != 1 || got[Epic] == nil || len(got[Epic]) != 0 || len(got[GOG]) != 0 {
		t.Fatalf("results=%+v", got)
	}
}

func TestSearchAllPlatforms_Subset(t *testing.T) {
	m := NewManager(nil, &stubAdapter{platform: Steam}, &stubAdapter{platform: GOG})
	got := m.SearchAllPlatforms(context.Background(), "x", []Platform{GOG, Epic}, SearchFilters{})
	if _, ok := got[GOG]; !ok || len(got) != 1 {
		t.Fatalf("results=%+v", got)
	}
}

func TestSyncPlatform(t *testing.T) {
	m := NewManager(nil,
		&stubAdapter{platform: GOG, sync: SyncResult{Status: models.SyncStatusCompleted, Success: true}},
		&stubAdapter{platform: Steam, panics: true},
		&stubAdapter{platform: Epic, sync: SyncResult{Status: models.SyncStatusPartial, Success: true, Errors: []string{"x"}}},
	)
	results, err := m.SyncPlatform(context.Background(), "all", SyncOptions{})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(results) != 3 || results[0].Platform != Steam || results[1].Platform != Epic || results[2].Platform != GOG {
		t.Fatalf("order=%+v", results)
	}
	if results[0].Status != models.SyncStatusFailed || !strings.Contains(results[0].Errors[0], "panic") {
		t.Fatalf("panicking platform=%+v", results[0])
	}
	if !errors.Is(results[1].Err(), apperr.ErrPartialSync) || results[2].Err() != nil {
		t.Fatalf("errs=%v %v", results[1].Err(), results[2].Err())
	}

	one, err := m.SyncPlatform(context.Background(), "GOG", SyncOptions{})
	if err != nil || len(one) != 1 || one[0].Platform != GOG {
		t.Fatalf("one=%+v err=%v", one, err)
	}
	if _, err := m.SyncPlatform(context.Background(), "origin", SyncOptions{}); !apperr.IsValidation(err) {
		t.Fatalf("unknown platform err=%v", err)
	}
}

func TestGetGameDetails_NotFound(t *testing.T) {
	m := NewManager(nil, &stubAdapter{platform: Steam})
	_, err := m.GetGameDetails(context.Background(), "steam", "999")
	if !apperr.IsNotFound(err) || err.Error() != "Game not found: 999 on steam" {
		t.Fatalf("err=%v", err)
	}
	if _, err := m.GetGameDetails(context.Background(), "epic", "ns:1"); !apperr.IsValidation(err) {
		t.Fatalf("disabled platform err=%v", err)
	}
}

func TestGetPlatformAvailability(t *testing.T) {
	m := NewManager(nil,
		&stubAdapter{platform: Steam, games: []NormalizedGame{game(Steam, "Hades II", "29.99"), game(Steam, "Hades", "24.99")}},
		&stubAdapter{platform: GOG, games: []NormalizedGame{game(GOG, "Hades: Deluxe", "30.00")}},
		&stubAdapter{platform: Epic},
	)
	got := m.GetPlatformAvailability(context.Background(), "hades")
	if len(got) != 3 || got[1].Platform != Epic || got[1].Available {
		t.Fatalf("got=%+v", got)
	}
	if !got[0].Available || got[0].Price == nil || *got[0].Price != "24.99" {
		t.Fatalf("steam=%+v", got[0])
	}
	if !got[2].Available || got[2].PlatformID != "Hades: Deluxe-gog" {
		t.Fatalf("gog should fall back to first hit: %+v", got[2])
	}
}
