package service

import (
	"context"
	"testing"

	"gamecompare/internal/apperr"
	"gamecompare/internal/platform"
)

func TestLibrary_AddListRemove(t *testing.T) {
	store := newTestStore(t)
	game := seedOffers(t, store, normalized(platform.Steam, "Hades", "1145360", "24.99", 0))
	svc := &LibraryService{Store: store}
	ctx := context.Background()

	if _, err := svc.AddToLibrary(ctx, LibraryInput{UserID: "u1", GameID: 999, Platform: "steam"}); !apperr.IsNotFound(err) {
		t.Fatalf("unknown game err=%v", err)
	}
	if _, err := svc.AddToLibrary(ctx, LibraryInput{UserID: "u1", GameID: game.ID, Platform: "origin"}); !apperr.IsValidation(err) {
		t.Fatalf("bad platform err=%v", err)
	}

	entry, err := svc.AddToLibrary(ctx, LibraryInput{UserID: "u1", GameID: game.ID, Platform: "steam"})
	if err != nil || entry.Status != "owned" {
		t.Fatalf("add entry=%+v err=%v", entry, err)
	}
	if _, err := svc.AddToLibrary(ctx, LibraryInput{UserID: "u1", GameID: game.ID, Platform: "steam", Status: "playing"}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	items, err := svc.ListLibrary(ctx, "u1")
	if err != nil || len(items) != 1 || items[0].Status != "playing" {
		t.Fatalf("items=%+v err=%v", items, err)
	}
	if other, _ := svc.ListLibrary(ctx, "u2"); len(other) != 0 {
		t.Fatalf("leaked entries: %+v", other)
	}

	if err := svc.RemoveFromLibrary(ctx, "u1", game.ID, "steam"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RemoveFromLibrary(ctx, "u1", game.ID, "steam"); !apperr.IsNotFound(err) {
		t.Fatalf("second remove err=%v", err)
	}
	if _, err := svc.ListLibrary(ctx, ""); !apperr.IsValidation(err) {
		t.Fatalf("anonymous err=%v", err)
	}
}

func TestTracking_Alerts(t *testing.T) {
	store := newTestStore(t)
	hades := seedOffers(t, store,
		normalized(platform.Steam, "Hades", "1145360", "24.99", 0),
		normalized(platform.Epic, "Hades", "ns:hades", "12.49", 50),
	)
	celeste := seedOffers(t, store, normalized(platform.GOG, "Celeste", "1", "19.99", 0))
	unpriced := seedOffers(t, store, normalized(platform.Steam, "Coming Soon", "7", "", 0))
	svc := &LibraryService{Store: store}
	ctx := context.Background()

	off := false
	for _, in := range []TrackInput{
		{UserID: "u1", GameID: hades.ID, TargetPrice: dec("15.00")},
		{UserID: "u1", GameID: celeste.ID, TargetPrice: dec("10.00"), Notify: &off},
		{UserID: "u1", GameID: unpriced.ID, TargetPrice: dec("100.00")},
	} {
		if _, err := svc.TrackGame(ctx, in); err != nil {
			t.Fatalf("track %d: %v", in.GameID, err)
		}
	}
	if _, err := svc.TrackGame(ctx, TrackInput{UserID: "u1", GameID: hades.ID, TargetPrice: dec("-1")}); !apperr.IsValidation(err) {
		t.Fatalf("negative target err=%v", err)
	}

	alerts, err := svc.ListTriggeredAlerts(ctx, "u1")
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(alerts) != 1 || alerts[0].GameName != "Hades" || alerts[0].Platform != "epic" || alerts[0].CurrentPrice.String() != "12.49" {
		t.Fatalf("alerts=%+v", alerts)
	}

	if _, err := svc.TrackGame(ctx, TrackInput{UserID: "u1", GameID: celeste.ID, TargetPrice: dec("19.99")}); err != nil {
		t.Fatalf("retarget: %v", err)
	}
	alerts, _ = svc.ListTriggeredAlerts(ctx, "u1")
	if len(alerts) != 2 {
		t.Fatalf("alerts after retarget=%+v", alerts)
	}

	tracked, err := svc.ListTracked(ctx, "u1")
	if err != nil || len(tracked) != 3 {
		t.Fatalf("tracked=%+v err=%v", tracked, err)
	}
	for _, tg := range tracked {
		if !tg.Notify {
			t.Fatalf("retarget should reset notify to default: %+v", tg)
		}
	}

	if err := svc.UntrackGame(ctx, "u1", celeste.ID); err != nil {
		t.Fatalf("untrack: %v", err)
	}
	if err := svc.UntrackGame(ctx, "u1", celeste.ID); !apperr.IsNotFound(err) {
		t.Fatalf("second untrack err=%v", err)
	}
}

func TestCatalog_ListGetHistory(t *testing.T) {
	store := newTestStore(t)
	game := seedOffers(t, store,
		normalized(platform.Steam, "Elden Ring", "1245620", "59.99", 0),
		normalized(platform.GOG, "Elden Ring", "1", "49.99", 0),
	)
	seedOffers(t, store, normalized(platform.Epic, "Hades", "ns:h", "24.99", 0))
	svc := &CatalogService{Store: store}
	ctx := context.Background()

	list, err := svc.ListGames(ctx, GameListInput{Platform: "gog"})
	if err != nil || list.Pagination.Total != 1 || list.Games[0].Name != "Elden Ring" {
		t.Fatalf("list=%+v err=%v", list, err)
	}
	all, err := svc.ListGames(ctx, GameListInput{OrderBy: "name", Asc: true})
	if err != nil || len(all.Games) != 2 || all.Games[0].Name != "Elden Ring" {
		t.Fatalf("all=%+v err=%v", all, err)
	}

	got, err := svc.GetGame(ctx, game.ID)
	if err != nil || got.PlatformCount != 2 || got.LowestPrice.String() != "49.99" {
		t.Fatalf("game=%+v err=%v", got, err)
	}
	if _, err := svc.GetGame(ctx, 404); !apperr.IsNotFound(err) {
		t.Fatalf("missing err=%v", err)
	}

	cmp := &ComparisonService{Store: store}
	if _, err := cmp.Compare(ctx, game.ID); err != nil {
		t.Fatalf("compare: %v", err)
	}
	points, err := svc.PriceHistory(ctx, PriceHistoryInput{GameID: game.ID, Platform: "gog"})
	if err != nil || len(points) != 1 || points[0].Price.String() != "49.99" {
		t.Fatalf("points=%+v err=%v", points, err)
	}
	if _, err := svc.PriceHistory(ctx, PriceHistoryInput{GameID: 404}); !apperr.IsNotFound(err) {
		t.Fatalf("history missing err=%v", err)
	}
}
