package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gamecompare/internal/apperr"
	"gamecompare/internal/models"
	"gamecompare/internal/platform"
	"gamecompare/internal/repository"
)

func tenGames(p platform.Platform) []platform.NormalizedGame {
	out := make([]platform.NormalizedGame, 0, 10)
	for i := 1; i <= 10; i++ {
		out = append(out, normalized(p, fmt.Sprintf("Game %02d", i), fmt.Sprintf("%d", 100+i), "9.99", 0))
	}
	return out
}

func TestSyncRun_RecordFailureIsIsolated(t *testing.T) {
	store := newTestStore(t)
	svc := &SyncService{Store: store}
	src := &staticSource{platform: platform.Steam, games: tenGames(platform.Steam), failAt: map[int]bool{4: true}}

	res := svc.Run(context.Background(), src, platform.SyncOptions{Force: true})
	if res.GamesProcessed != 9 || res.Status != models.SyncStatusPartial || len(res.Errors) != 1 {
		t.Fatalf("result=%+v", res)
	}
	if !res.Success || res.GamesAdded != 9 || res.GamesUpdated != 0 {
		t.Fatalf("result=%+v", res)
	}
	if !strings.HasPrefix(res.Errors[0], "104:") {
		t.Fatalf("error=%q", res.Errors[0])
	}
	logEntry, err := store.LastSyncLog(context.Background(), "steam", "")
	if err != nil || logEntry == nil || logEntry.ID != res.SyncLogID {
		t.Fatalf("log=%+v err=%v", logEntry, err)
	}
	if logEntry.Status != models.SyncStatusPartial || logEntry.CompletedAt == nil || logEntry.GamesProcessed != 9 || logEntry.ErrorMessage == nil {
		t.Fatalf("log=%+v", logEntry)
	}
}

func TestSyncRun_Idempotent(t *testing.T) {
	store := newTestStore(t)
	svc := &SyncService{Store: store}
	src := &staticSource{platform: platform.GOG, games: tenGames(platform.GOG)}
	ctx := context.Background()

	first := svc.Run(ctx, src, platform.SyncOptions{Force: true})
	if first.Status != models.SyncStatusCompleted || first.GamesAdded != 10 {
		t.Fatalf("first=%+v", first)
	}
	games, _ := store.CountGames(ctx, repository.ListGamesParams{})
	offers, _ := store.CountGamePlatforms(ctx)

	second := svc.Run(ctx, src, platform.SyncOptions{Force: true})
	if second.Status != models.SyncStatusCompleted || second.GamesAdded != 0 || second.GamesUpdated != 10 {
		t.Fatalf("second=%+v", second)
	}
	games2, _ := store.CountGames(ctx, repository.ListGamesParams{})
	offers2, _ := store.CountGamePlatforms(ctx)
	if games != 10 || offers != 10 || games2 != games || offers2 != offers {
		t.Fatalf("games %d->%d offers %d->%d", games, games2, offers, offers2)
	}
}

func TestSyncRun_MergesAcrossPlatforms(t *testing.T) {
	store := newTestStore(t)
	svc := &SyncService{Store: store}
	ctx := context.Background()

	steam := normalized(platform.Steam, "Hades", "1145360", "24.99", 0)
	epic := normalized(platform.Epic, "Hades", "ns:abc", "16.49", 34)
	dev := "Supergiant"
	epic.Developer = &dev
	epic.Genres = []string{"Roguelike"}
	other := normalized(platform.Epic, "hades", "ns:def", "9.99", 0)

	svc.Run(ctx, &staticSource{platform: platform.Steam, games: []platform.NormalizedGame{steam}}, platform.SyncOptions{Force: true})
	res := svc.Run(ctx, &staticSource{platform: platform.Epic, games: []platform.NormalizedGame{epic}}, platform.SyncOptions{Force: true})
	if res.GamesAdded != 0 || res.GamesUpdated != 1 {
		t.Fatalf("epic result=%+v", res)
	}
	game, err := store.FindGameByName(ctx, "Hades")
	if err != nil || game == nil {
		t.Fatalf("game=%v err=%v", game, err)
	}
	if !game.IsMultiPlatform || strings.Join(game.PlatformList(), ",") != "epic,steam" {
		t.Fatalf("platforms=%v multi=%v", game.PlatformList(), game.IsMultiPlatform)
	}
	if game.Developer == nil || *game.Developer != "Supergiant" || strings.Join(game.GenreList(), ",") != "Action,Roguelike" {
		t.Fatalf("merged=%+v genres=%v", game, game.GenreList())
	}

	// Names match case-sensitively, so "hades" is a separate game.
	res = svc.Run(ctx, &staticSource{platform: platform.Epic, games: []platform.NormalizedGame{other}}, platform.SyncOptions{Force: true})
	if res.GamesAdded != 1 {
		t.Fatalf("lower-case title result=%+v", res)
	}
}

func TestSyncRun_Throttle(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := &SyncService{Store: store, TTLHours: map[platform.Platform]int{platform.Epic: 8}, Now: func() time.Time { return now }}
	src := &staticSource{platform: platform.Epic, games: tenGames(platform.Epic)[:2]}
	ctx := context.Background()

	if res := svc.Run(ctx, src, platform.SyncOptions{}); res.Skipped || res.Status != models.SyncStatusCompleted {
		t.Fatalf("first=%+v", res)
	}
	now = now.Add(2 * time.Hour)
	res := svc.Run(ctx, src, platform.SyncOptions{})
	if !res.Skipped || !res.Success || res.GamesProcessed != 0 || res.SyncLogID != 0 {
		t.Fatalf("throttled=%+v", res)
	}
	if src.fetches != 1 {
		t.Fatalf("fetches=%d", src.fetches)
	}
	if res := svc.Run(ctx, src, platform.SyncOptions{Force: true}); res.Skipped {
		t.Fatalf("forced run skipped")
	}
	now = now.Add(9 * time.Hour)
	if res := svc.Run(ctx, src, platform.SyncOptions{}); res.Skipped {
		t.Fatalf("stale window still throttled")
	}

	status, err := svc.GetSyncStatus(ctx)
	if err != nil || len(status) != 3 || status[1].Platform != platform.Epic || status[1].LastCompleted == nil || status[1].NextEligible == nil {
		t.Fatalf("status=%+v err=%v", status, err)
	}
	if status[0].LastRun != nil {
		t.Fatalf("steam never ran: %+v", status[0])
	}
}

func TestSyncRun_FailureThresholds(t *testing.T) {
	store := newTestStore(t)
	svc := &SyncService{Store: store}
	ctx := context.Background()

	many := &staticSource{platform: platform.GOG, games: tenGames(platform.GOG), failAt: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}}
	res := svc.Run(ctx, many, platform.SyncOptions{Force: true})
	if res.Status != models.SyncStatusFailed || res.Success || res.GamesProcessed != 4 {
		t.Fatalf("many errors=%+v", res)
	}
	if !errors.Is(res.Err(), apperr.ErrFatalSync) {
		t.Fatalf("err=%v", res.Err())
	}

	down := &staticSource{platform: platform.Steam, fetchErr: errors.New("connection refused")}
	res = svc.Run(ctx, down, platform.SyncOptions{Force: true})
	if res.Status != models.SyncStatusFailed || len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "Failed to sync steam") {
		t.Fatalf("fetch failure=%+v", res)
	}
	logEntry, _ := store.LastSyncLog(ctx, "steam", "")
	if logEntry == nil || logEntry.Status != models.SyncStatusFailed {
		t.Fatalf("log=%+v", logEntry)
	}
}

func TestSyncStatusMapping(t *testing.T) {
	cases := []struct {
		errs      int
		fatal     bool
		processed int
		want      string
	}{
		{0, false, 3, models.SyncStatusCompleted},
		{1, false, 3, models.SyncStatusPartial},
		{5, false, 3, models.SyncStatusPartial},
		{6, false, 3, models.SyncStatusFailed},
		{1, true, 0, models.SyncStatusFailed},
		{1, true, 2, models.SyncStatusPartial},
	}
	for _, tc := range cases {
		if got := syncStatus(tc.errs, tc.fatal, tc.processed); got != tc.want {
			t.Fatalf("syncStatus(%d,%v,%d)=%s want %s", tc.errs, tc.fatal, tc.processed, got, tc.want)
		}
	}
}

func TestSyncRun_ThrottleCountsFromCompletion(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := &SyncService{Store: store, TTLHours: map[platform.Platform]int{platform.GOG: 8}, Now: func() time.Time { return now }}
	ctx := context.Background()

	slow := &staticSource{platform: platform.GOG, games: tenGames(platform.GOG)[:1], onFetch: func() { now = now.Add(3 * time.Hour) }}
	if res := svc.Run(ctx, slow, platform.SyncOptions{Force: true}); res.Status != models.SyncStatusCompleted {
		t.Fatalf("slow run=%+v", res)
	}
	finished := now

	// Past the window measured from the start, still inside it measured from completion.
	now = finished.Add(6 * time.Hour)
	quick := &staticSource{platform: platform.GOG, games: tenGames(platform.GOG)[:1]}
	if res := svc.Run(ctx, quick, platform.SyncOptions{}); !res.Skipped {
		t.Fatalf("run %s after completion not throttled: %+v", 6*time.Hour, res)
	}
	if quick.fetches != 0 {
		t.Fatalf("fetches=%d", quick.fetches)
	}

	status, err := svc.GetSyncStatus(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	want := finished.Add(8 * time.Hour)
	if next := status[2].NextEligible; next == nil || !next.Equal(want) {
		t.Fatalf("next eligible=%v want %v", next, want)
	}

	now = finished.Add(9 * time.Hour)
	if res := svc.Run(ctx, quick, platform.SyncOptions{}); res.Skipped {
		t.Fatalf("stale window still throttled")
	}
}

func TestSyncRun_KeepsComparisonCache(t *testing.T) {
	store := newTestStore(t)
	game := seedOffers(t, store, eldenRingFixture(true)...)
	cmp := &ComparisonService{Store: store}
	ctx := context.Background()

	first, err := cmp.Compare(ctx, game.ID)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	cheaper := eldenRingFixture(true)
	cheaper[1].Offer.Price = dec("29.99")
	syncer := &SyncService{Store: store}
	for _, g := range cheaper {
		res := syncer.Run(ctx, &staticSource{platform: g.Offer.Platform, games: []platform.NormalizedGame{g}}, platform.SyncOptions{Force: true})
		if res.Status != models.SyncStatusCompleted || res.GamesUpdated != 1 {
			t.Fatalf("resync %s: %+v", g.Offer.Platform, res)
		}
	}

	where, err := cmp.WhereToBuy(ctx, game.ID)
	if err != nil {
		t.Fatalf("where to buy after sync: %v", err)
	}
	if where.Recommendation == nil || where.Recommendation.Platform != "epic" {
		t.Fatalf("recommendation=%+v", where.Recommendation)
	}

	again, err := cmp.Compare(ctx, game.ID)
	if err != nil {
		t.Fatalf("second compare: %v", err)
	}
	if !again.Cached || !again.CheapestOption.Price.Equal(first.CheapestOption.Price) {
		t.Fatalf("comparison recomputed inside window: cached=%v cheapest=%+v", again.Cached, again.CheapestOption)
	}
}
