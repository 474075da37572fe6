package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gamecompare/internal/metrics"
	"gamecompare/internal/models"
	"gamecompare/internal/platform"
	"gamecompare/internal/repository"
)

const (
	// More per-record errors than this fail the whole run.
	maxPartialErrors  = 5
	SyncStatusSkipped = "skipped"
)

type SyncStore interface {
	repository.CatalogRepository
	repository.SyncLogRepository
}

// SyncService runs the per-platform sync state machine:
// running -> completed | partial | failed.
type SyncService struct {
	Store SyncStore
	// TTLHours is the per-platform throttle window for unforced runs.
	TTLHours map[platform.Platform]int
	Logger   *zap.Logger
	Now      func() time.Time
}

func (s *SyncService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *SyncService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Run implements platform.Syncer.
func (s *SyncService) Run(ctx context.Context, src platform.Source, opts platform.SyncOptions) platform.SyncResult {
	p := src.Platform()
	log := s.logger().With(zap.String("platform", p.String()))
	start := s.now()
	result := platform.SyncResult{Platform: p, Errors: []string{}}

	if !opts.Force {
		if last, ok := s.throttled(ctx, p, start); ok {
			log.Info("sync skipped", zap.Uint64("last_sync_log_id", last.ID), zap.Time("last_finished_at", finishedAt(last)))
			result.Status = SyncStatusSkipped
			result.Success = true
			result.Skipped = true
			return result
		}
	}

	syncType := strings.TrimSpace(opts.Type)
	if syncType == "" {
		syncType = models.SyncTypeFull
	}
	entry := &models.SyncLog{
		Platform:  p.String(),
		SyncType:  syncType,
		Status:    models.SyncStatusRunning,
		StartedAt: start,
	}
	if err := s.Store.CreateSyncLog(ctx, entry); err != nil {
		log.Error("create sync log failed", zap.Error(err))
		result.Status = models.SyncStatusFailed
		result.Errors = append(result.Errors, fmt.Sprintf("create sync log: %v", err))
		metrics.SyncRuns.WithLabelValues(p.String(), result.Status).Inc()
		return result
	}
	result.SyncLogID = entry.ID

	fatal := false
	records, err := src.FetchBatch(ctx, opts)
	if err != nil {
		fatal = true
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to sync %s: %v", p, err))
		log.Error("fetch batch failed", zap.Error(err))
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			fatal = true
			result.Errors = append(result.Errors, fmt.Sprintf("sync interrupted: %v", err))
			break
		}
		created, err := s.syncRecord(ctx, p, rec)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rec.PlatformID, err))
			metrics.SyncRecords.WithLabelValues(p.String(), "error").Inc()
			log.Warn("sync record failed", zap.String("platform_id", rec.PlatformID), zap.Error(err))
			continue
		}
		result.GamesProcessed++
		if created {
			result.GamesAdded++
			metrics.SyncRecords.WithLabelValues(p.String(), "added").Inc()
		} else {
			result.GamesUpdated++
			metrics.SyncRecords.WithLabelValues(p.String(), "updated").Inc()
		}
	}

	result.Status = syncStatus(len(result.Errors), fatal, result.GamesProcessed)
	result.Success = result.Status != models.SyncStatusFailed
	s.finish(ctx, entry, &result, start)

	log.Info("sync finished",
		zap.String("status", result.Status),
		zap.Int("processed", result.GamesProcessed),
		zap.Int("added", result.GamesAdded),
		zap.Int("updated", result.GamesUpdated),
		zap.Int("errors", len(result.Errors)),
		zap.Int64("duration_ms", result.DurationMs),
	)
	return result
}

// syncStatus maps error counts to a terminal status. A top-level failure
// with no progress is fatal regardless of the count.
func syncStatus(errCount int, fatal bool, processed int) string {
	switch {
	case fatal && processed == 0:
		return models.SyncStatusFailed
	case errCount > maxPartialErrors:
		return models.SyncStatusFailed
	case errCount > 0:
		return models.SyncStatusPartial
	default:
		return models.SyncStatusCompleted
	}
}

func (s *SyncService) throttled(ctx context.Context, p platform.Platform, now time.Time) (*models.SyncLog, bool) {
	hours := s.TTLHours[p]
	if hours <= 0 {
		return nil, false
	}
	last, err := s.Store.LastSyncLog(ctx, p.String(), models.SyncStatusCompleted)
	if err != nil {
		s.logger().Warn("load last sync failed", zap.String("platform", p.String()), zap.Error(err))
		return nil, false
	}
	if last == nil {
		return nil, false
	}
	if now.Sub(finishedAt(last)) > time.Duration(hours)*time.Hour {
		return nil, false
	}
	return last, true
}

// finishedAt is when a run ended; runs without a completion time fall back to their start.
func finishedAt(entry *models.SyncLog) time.Time {
	if entry.CompletedAt != nil && !entry.CompletedAt.IsZero() {
		return *entry.CompletedAt
	}
	return entry.StartedAt
}

func (s *SyncService) finish(ctx context.Context, entry *models.SyncLog, result *platform.SyncResult, start time.Time) {
	end := s.now()
	result.DurationMs = end.Sub(start).Milliseconds()

	entry.Status = result.Status
	entry.CompletedAt = &end
	entry.GamesProcessed = result.GamesProcessed
	entry.GamesAdded = result.GamesAdded
	entry.GamesUpdated = result.GamesUpdated
	entry.DurationMs = result.DurationMs
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		if len(result.Errors) > 1 {
			msg = fmt.Sprintf("%s (and %d more)", msg, len(result.Errors)-1)
		}
		entry.ErrorMessage = &msg
		if b, err := json.Marshal(result.Errors); err == nil {
			entry.Errors = datatypes.JSON(b)
		}
	}
	// The terminal state is written even when the caller's context is gone.
	if err := s.Store.SaveSyncLog(context.WithoutCancel(ctx), entry); err != nil {
		s.logger().Error("save sync log failed", zap.Uint64("sync_log_id", entry.ID), zap.Error(err))
	}

	p := entry.Platform
	metrics.SyncRuns.WithLabelValues(p, result.Status).Inc()
	metrics.SyncDuration.WithLabelValues(p).Observe(end.Sub(start).Seconds())
	if result.Status == models.SyncStatusCompleted {
		metrics.SyncLastSuccess.WithLabelValues(p).Set(float64(end.Unix()))
	}
}

// syncRecord normalizes one upstream item and writes it in one transaction.
// It reports whether a new Game was created.
func (s *SyncService) syncRecord(ctx context.Context, p platform.Platform, rec platform.Record) (bool, error) {
	g, err := rec.Normalize(ctx)
	if err != nil {
		return false, err
	}
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return false, errors.New("missing game name")
	}
	if g.Offer.PlatformID == "" {
		g.Offer.PlatformID = rec.PlatformID
	}

	created := false
	now := s.now()
	err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
		game, err := s.resolveGame(ctx, tx, p, g)
		if err != nil {
			return err
		}
		if game == nil {
			game = newGame(g)
			if err := s.Store.CreateGameTx(ctx, tx, game); err != nil {
				return fmt.Errorf("create game: %w", err)
			}
			created = true
		} else {
			mergeGame(game, g)
		}

		offer := offerModel(game.ID, p, g.Offer, now)
		if err := s.Store.UpsertGamePlatformTx(ctx, tx, &offer); err != nil {
			return fmt.Errorf("upsert offer: %w", err)
		}
		offers, err := s.Store.ListGamePlatformsTx(ctx, tx, game.ID)
		if err != nil {
			return err
		}
		platforms := make([]string, 0, len(offers))
		for _, o := range offers {
			platforms = append(platforms, o.Platform)
		}
		game.Platforms = models.StringSet(platforms)
		game.IsMultiPlatform = len(models.DecodeStrings(game.Platforms)) > 1
		return s.Store.SaveGameTx(ctx, tx, game)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// resolveGame prefers the game already holding this storefront id, then the
// exact (case-sensitive) name match.
func (s *SyncService) resolveGame(ctx context.Context, tx *gorm.DB, p platform.Platform, g platform.NormalizedGame) (*models.Game, error) {
	existing, err := s.Store.FindGamePlatformByExternalTx(ctx, tx, p.String(), g.Offer.PlatformID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		game, err := s.Store.GetGameTx(ctx, tx, existing.GameID)
		if err != nil || game != nil {
			return game, err
		}
	}
	return s.Store.FindGameByNameTx(ctx, tx, g.Name)
}

func newGame(g platform.NormalizedGame) *models.Game {
	game := &models.Game{
		Name:        g.Name,
		Genres:      models.StringSet(g.Genres),
		Tags:        models.StringSet(g.Tags),
		Developer:   g.Developer,
		Publisher:   g.Publisher,
		ReleaseDate: g.ReleaseDate,
		CoverImage:  g.CoverImage,
		Platforms:   models.StringSet(nil),
	}
	if d := strings.TrimSpace(g.Description); d != "" {
		game.Description = &d
	}
	return game
}

// mergeGame fills fields the stored game lacks and unions the label sets.
func mergeGame(game *models.Game, g platform.NormalizedGame) {
	if game.Description == nil || *game.Description == "" {
		if d := strings.TrimSpace(g.Description); d != "" {
			game.Description = &d
		}
	}
	if game.Developer == nil && g.Developer != nil {
		game.Developer = g.Developer
	}
	if game.Publisher == nil && g.Publisher != nil {
		game.Publisher = g.Publisher
	}
	if game.ReleaseDate == nil && g.ReleaseDate != nil {
		game.ReleaseDate = g.ReleaseDate
	}
	if game.CoverImage == nil && g.CoverImage != nil {
		game.CoverImage = g.CoverImage
	}
	game.Genres = models.StringSet(append(game.GenreList(), g.Genres...))
	game.Tags = models.StringSet(append(game.TagList(), g.Tags...))
}

func offerModel(gameID uint64, p platform.Platform, o platform.Offer, now time.Time) models.GamePlatform {
	currency := strings.ToUpper(strings.TrimSpace(o.Currency))
	if currency == "" {
		currency = "USD"
	}
	offer := models.GamePlatform{
		GameID:          gameID,
		Platform:        p.String(),
		PlatformID:      o.PlatformID,
		Price:           o.Price,
		OriginalPrice:   o.OriginalPrice,
		DiscountPercent: o.DiscountPercent,
		Currency:        currency,
		URL:             o.URL,
		ImageURL:        o.ImageURL,
		IsAvailable:     o.IsAvailable.Normalize(),
		DRMFree:         o.DRMFree.Normalize(),
		LastSyncedAt:    now,
	}
	if len(o.Metadata) > 0 {
		if b, err := json.Marshal(o.Metadata); err == nil {
			offer.Metadata = datatypes.JSON(b)
		}
	}
	return offer
}

type PlatformSyncStatus struct {
	Platform      platform.Platform `json:"platform"`
	LastRun       *models.SyncLog   `json:"last_run"`
	LastCompleted *models.SyncLog   `json:"last_completed"`
	TTLHours      int               `json:"ttl_hours"`
	NextEligible  *time.Time        `json:"next_eligible_at"`
}

// GetSyncStatus reports the newest run and newest completed run per platform.
func (s *SyncService) GetSyncStatus(ctx context.Context) ([]PlatformSyncStatus, error) {
	out := make([]PlatformSyncStatus, 0, len(platform.All))
	for _, p := range platform.All {
		st := PlatformSyncStatus{Platform: p, TTLHours: s.TTLHours[p]}
		last, err := s.Store.LastSyncLog(ctx, p.String(), "")
		if err != nil {
			return nil, err
		}
		st.LastRun = last
		done, err := s.Store.LastSyncLog(ctx, p.String(), models.SyncStatusCompleted)
		if err != nil {
			return nil, err
		}
		st.LastCompleted = done
		if done != nil && st.TTLHours > 0 {
			next := finishedAt(done).Add(time.Duration(st.TTLHours) * time.Hour)
			st.NextEligible = &next
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *SyncService) ListSyncLogs(ctx context.Context, params repository.ListSyncLogsParams) ([]models.SyncLog, error) {
	if params.Platform != nil && *params.Platform != "" {
		p, err := platform.Parse(*params.Platform)
		if err != nil {
			return nil, err
		}
		v := p.String()
		params.Platform = &v
	}
	return s.Store.ListSyncLogs(ctx, params)
}
