package gormrepository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gamecompare/internal/config"
	"gamecompare/internal/db"
	"gamecompare/internal/models"
	"gamecompare/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(config.DBConfig{Driver: "sqlite"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(conn.Gorm)
}

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func seedGame(t *testing.T, s *Store, name string, genres []string, offers ...models.GamePlatform) models.Game {
	t.Helper()
	ctx := context.Background()
	game := models.Game{Name: name, Genres: models.StringSet(genres), Tags: models.StringSet(nil)}
	err := s.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.CreateGameTx(ctx, tx, &game); err != nil {
			return err
		}
		for i := range offers {
			offers[i].GameID = game.ID
			if offers[i].PlatformID == "" {
				offers[i].PlatformID = name + "-" + offers[i].Platform
			}
			if err := s.UpsertGamePlatformTx(ctx, tx, &offers[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed %s: %v", name, err)
	}
	return game
}

func TestUpsertGamePlatform_Converges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	game := seedGame(t, s, "Hades", nil, models.GamePlatform{Platform: models.PlatformSteam, Price: price("24.99")})

	offer := models.GamePlatform{GameID: game.ID, Platform: models.PlatformSteam, PlatformID: "Hades-steam", Price: price("19.99"), DiscountPercent: 20}
	if err := s.InTx(ctx, func(tx *gorm.DB) error { return s.UpsertGamePlatformTx(ctx, tx, &offer) }); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if offer.ID == 0 || offer.Price.StringFixed(2) != "19.99" || offer.DiscountPercent != 20 {
		t.Fatalf("offer=%+v", offer)
	}
	total, err := s.CountGamePlatforms(ctx)
	if err != nil || total != 1 {
		t.Fatalf("offers=%d err=%v", total, err)
	}
	loaded, err := s.GetGame(ctx, game.ID)
	if err != nil || loaded == nil || len(loaded.Offers) != 1 || loaded.Offers[0].IsAvailable != models.TriUnknown {
		t.Fatalf("loaded=%+v err=%v", loaded, err)
	}
	missing, err := s.GetGame(ctx, 999)
	if err != nil || missing != nil {
		t.Fatalf("missing=%v err=%v", missing, err)
	}
}

func TestSearchGames_FilterConjunction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	g1 := seedGame(t, s, "G1", []string{"Action"}, models.GamePlatform{Platform: models.PlatformSteam, Price: price("10")})
	seedGame(t, s, "G2", []string{"Action"}, models.GamePlatform{Platform: models.PlatformEpic, Price: price("50")})

	page, err := s.SearchGames(ctx, repository.SearchParams{
		Platforms: []string{models.PlatformSteam},
		MaxPrice:  price("20"),
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 1 || len(page.Games) != 1 || page.Games[0].ID != g1.ID {
		t.Fatalf("page=%+v", page)
	}
	if len(page.Games[0].Offers) != 1 || page.Games[0].Offers[0].Platform != models.PlatformSteam {
		t.Fatalf("offers=%+v", page.Games[0].Offers)
	}
}

func TestSearchGames_SortAndMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedGame(t, s, "Portal 2", []string{"Puzzle"},
		models.GamePlatform{Platform: models.PlatformSteam, Price: price("9.99")},
		models.GamePlatform{Platform: models.PlatformGOG, Price: price("4.99"), DiscountPercent: 50})
	seedGame(t, s, "Portal", []string{"Puzzle"}, models.GamePlatform{Platform: models.PlatformSteam, Price: price("7.99")})
	seedGame(t, s, "Quake", []string{"Shooter"}, models.GamePlatform{Platform: models.PlatformGOG, Price: price("2.99")})

	relevance, err := s.SearchGames(ctx, repository.SearchParams{Query: "PORTAL", Sort: repository.SortRelevance})
	if err != nil || relevance.Total != 2 || relevance.Games[0].Name != "Portal" {
		t.Fatalf("relevance=%+v err=%v", relevance, err)
	}
	if len(relevance.Games[1].Offers) != 2 {
		t.Fatalf("portal 2 offers=%d", len(relevance.Games[1].Offers))
	}

	cheap, err := s.SearchGames(ctx, repository.SearchParams{Sort: repository.SortPriceAsc})
	if err != nil || len(cheap.Games) != 3 {
		t.Fatalf("cheap=%+v err=%v", cheap, err)
	}
	if cheap.Games[0].Name != "Quake" || cheap.Games[1].Name != "Portal 2" || cheap.Games[2].Name != "Portal" {
		t.Fatalf("order=%s,%s,%s", cheap.Games[0].Name, cheap.Games[1].Name, cheap.Games[2].Name)
	}

	sale, err := s.SearchGames(ctx, repository.SearchParams{OnSale: true, Genres: []string{"puzz", "rpg"}})
	if err != nil || sale.Total != 1 || sale.Games[0].Name != "Portal 2" || len(sale.Games[0].Offers) != 1 {
		t.Fatalf("sale=%+v err=%v", sale, err)
	}

	paged, err := s.SearchGames(ctx, repository.SearchParams{Limit: 1, Offset: 2})
	if err != nil || paged.Total != 3 || len(paged.Games) != 1 || paged.Games[0].Name != "Quake" {
		t.Fatalf("paged=%+v err=%v", paged, err)
	}
}

func TestPopularSearches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for _, q := range []string{"hades", "hades", "portal", "hades"} {
		if err := s.IncrementPopularSearch(ctx, q, now); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	old := now.Add(-40 * 24 * time.Hour)
	if err := s.IncrementPopularSearch(ctx, "doom", old); err != nil {
		t.Fatalf("increment: %v", err)
	}

	since := now.Add(-7 * 24 * time.Hour)
	items, err := s.ListPopularSearches(ctx, repository.ListPopularSearchesParams{Since: &since})
	if err != nil || len(items) != 2 {
		t.Fatalf("items=%+v err=%v", items, err)
	}
	if items[0].Query != "hades" || items[0].SearchCount != 3 {
		t.Fatalf("top=%+v", items[0])
	}
	contains := "ORT"
	matched, err := s.ListPopularSearches(ctx, repository.ListPopularSearchesParams{Contains: &contains})
	if err != nil || len(matched) != 1 || matched[0].Query != "portal" {
		t.Fatalf("matched=%+v err=%v", matched, err)
	}
}

func TestComparisonCacheUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := s.UpsertComparisonCache(ctx, &models.ComparisonCache{GameID: 7, Payload: []byte(`{"v":1}`), LastUpdated: first}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.UpsertComparisonCache(ctx, &models.ComparisonCache{GameID: 7, Payload: []byte(`{"v":2}`), LastUpdated: first.Add(time.Hour)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	row, err := s.GetComparisonCache(ctx, 7)
	if err != nil || row == nil || string(row.Payload) != `{"v":2}` || !row.LastUpdated.Equal(first.Add(time.Hour)) {
		t.Fatalf("row=%+v err=%v", row, err)
	}
	if err := s.DeleteComparisonCache(ctx, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if row, _ := s.GetComparisonCache(ctx, 7); row != nil {
		t.Fatalf("row survived delete")
	}
}

func TestLastSyncLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	logs := []models.SyncLog{
		{Platform: "steam", SyncType: models.SyncTypeFull, Status: models.SyncStatusCompleted, StartedAt: base},
		{Platform: "steam", SyncType: models.SyncTypeFull, Status: models.SyncStatusFailed, StartedAt: base.Add(time.Hour)},
		{Platform: "gog", SyncType: models.SyncTypeFull, Status: models.SyncStatusCompleted, StartedAt: base.Add(2 * time.Hour)},
	}
	for i := range logs {
		if err := s.CreateSyncLog(ctx, &logs[i]); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	last, err := s.LastSyncLog(ctx, "steam", models.SyncStatusCompleted)
	if err != nil || last == nil || last.ID != logs[0].ID {
		t.Fatalf("last completed=%+v err=%v", last, err)
	}
	latest, err := s.LastSyncLog(ctx, "steam", "")
	if err != nil || latest == nil || latest.Status != models.SyncStatusFailed {
		t.Fatalf("latest=%+v err=%v", latest, err)
	}
	none, err := s.LastSyncLog(ctx, "epic", "")
	if err != nil || none != nil {
		t.Fatalf("epic=%+v err=%v", none, err)
	}
	platform := "steam"
	items, err := s.ListSyncLogs(ctx, repository.ListSyncLogsParams{Platform: &platform})
	if err != nil || len(items) != 2 || items[0].ID != logs[1].ID {
		t.Fatalf("items=%+v err=%v", items, err)
	}
}

func TestTrackedGameUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.UpsertTrackedGame(ctx, &models.TrackedGame{UserID: "u1", GameID: 3, TargetPrice: price("10"), Notify: true}); err != nil {
		t.Fatalf("track: %v", err)
	}
	if err := s.UpsertTrackedGame(ctx, &models.TrackedGame{UserID: "u1", GameID: 3, TargetPrice: price("5"), Notify: false}); err != nil {
		t.Fatalf("retrack: %v", err)
	}
	items, err := s.ListTrackedGames(ctx, "u1")
	if err != nil || len(items) != 1 || items[0].TargetPrice.StringFixed(2) != "5.00" || items[0].Notify {
		t.Fatalf("items=%+v err=%v", items, err)
	}
	n, err := s.DeleteTrackedGame(ctx, "u1", 3)
	if err != nil || n != 1 {
		t.Fatalf("deleted=%d err=%v", n, err)
	}
}
