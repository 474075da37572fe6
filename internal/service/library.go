package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gamecompare/internal/apperr"
	"gamecompare/internal/models"
	"gamecompare/internal/repository"
)

// LibraryService keeps per-user owned/wishlist entries and price targets.
// Users are identified by an opaque caller-supplied id.
type LibraryService struct {
	Store  repository.LibraryRepository
	Logger *zap.Logger
}

type LibraryInput struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	GameID   uint64 `json:"game_id" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=steam epic gog"`
	Status   string `json:"status" validate:"omitempty,oneof=owned wishlist playing completed"`
}

type LibraryEntryView struct {
	GameID   uint64    `json:"game_id"`
	Platform string    `json:"platform"`
	Status   string    `json:"status"`
	AddedAt  time.Time `json:"added_at"`
}

func (s *LibraryService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *LibraryService) requireGame(ctx context.Context, gameID uint64) error {
	game, err := s.Store.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return apperr.NotFound("game", strconv.FormatUint(gameID, 10))
	}
	return nil
}

func requireUser(userID string) error {
	if userID == "" {
		return apperr.Invalid("user_id", "is required")
	}
	if len(userID) > 64 {
		return apperr.Invalid("user_id", "must be at most 64 characters")
	}
	return nil
}

// AddToLibrary is idempotent per user, game and platform; a repeat call updates the status.
func (s *LibraryService) AddToLibrary(ctx context.Context, in LibraryInput) (*LibraryEntryView, error) {
	if in.Status == "" {
		in.Status = models.LibraryStatusOwned
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.requireGame(ctx, in.GameID); err != nil {
		return nil, err
	}
	item := &models.LibraryEntry{
		UserID:   in.UserID,
		GameID:   in.GameID,
		Platform: in.Platform,
		Status:   in.Status,
		AddedAt:  time.Now().UTC(),
	}
	if err := s.Store.UpsertLibraryEntry(ctx, item); err != nil {
		return nil, err
	}
	s.logger().Debug("library entry saved", zap.String("user_id", in.UserID), zap.Uint64("game_id", in.GameID), zap.String("platform", in.Platform))
	return &LibraryEntryView{GameID: item.GameID, Platform: item.Platform, Status: item.Status, AddedAt: item.AddedAt}, nil
}

func (s *LibraryService) ListLibrary(ctx context.Context, userID string) ([]LibraryEntryView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	items, err := s.Store.ListLibraryEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]LibraryEntryView, 0, len(items))
	for _, it := range items {
		out = append(out, LibraryEntryView{GameID: it.GameID, Platform: it.Platform, Status: it.Status, AddedAt: it.AddedAt})
	}
	return out, nil
}

// RemoveFromLibrary drops one platform entry, or every entry for the game when platform is empty.
func (s *LibraryService) RemoveFromLibrary(ctx context.Context, userID string, gameID uint64, platform string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	n, err := s.Store.DeleteLibraryEntry(ctx, userID, gameID, platform)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFoundf("library entry not found: game %d", gameID)
	}
	return nil
}

type TrackInput struct {
	UserID      string           `json:"user_id" validate:"required,max=64"`
	GameID      uint64           `json:"game_id" validate:"required"`
	TargetPrice *decimal.Decimal `json:"target_price"`
	Notify      *bool            `json:"notify"`
}

type TrackedGameView struct {
	GameID      uint64           `json:"game_id"`
	TargetPrice *decimal.Decimal `json:"target_price"`
	Notify      bool             `json:"notify"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// TrackGame upserts the user's price target for a game. Notify defaults to true.
func (s *LibraryService) TrackGame(ctx context.Context, in TrackInput) (*TrackedGameView, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.TargetPrice != nil && in.TargetPrice.IsNegative() {
		return nil, apperr.Invalid("target_price", "must not be negative")
	}
	if err := s.requireGame(ctx, in.GameID); err != nil {
		return nil, err
	}
	notify := true
	if in.Notify != nil {
		notify = *in.Notify
	}
	now := time.Now().UTC()
	item := &models.TrackedGame{
		UserID:      in.UserID,
		GameID:      in.GameID,
		TargetPrice: in.TargetPrice,
		Notify:      notify,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.UpsertTrackedGame(ctx, item); err != nil {
		return nil, err
	}
	return &TrackedGameView{GameID: item.GameID, TargetPrice: item.TargetPrice, Notify: item.Notify, UpdatedAt: item.UpdatedAt}, nil
}

func (s *LibraryService) ListTracked(ctx context.Context, userID string) ([]TrackedGameView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	items, err := s.Store.ListTrackedGames(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]TrackedGameView, 0, len(items))
	for _, it := range items {
		out = append(out, TrackedGameView{GameID: it.GameID, TargetPrice: it.TargetPrice, Notify: it.Notify, UpdatedAt: it.UpdatedAt})
	}
	return out, nil
}

func (s *LibraryService) UntrackGame(ctx context.Context, userID string, gameID uint64) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	n, err := s.Store.DeleteTrackedGame(ctx, userID, gameID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFoundf("tracked game not found: %d", gameID)
	}
	return nil
}

type PriceAlert struct {
	GameID       uint64          `json:"game_id"`
	GameName     string          `json:"game_name"`
	TargetPrice  decimal.Decimal `json:"target_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Platform     string          `json:"platform"`
	URL          *string         `json:"url"`
}

// ListTriggeredAlerts reports tracked games whose lowest known offer is at or
// below the target. Games without a target or a known price never trigger.
func (s *LibraryService) ListTriggeredAlerts(ctx context.Context, userID string) ([]PriceAlert, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	tracked, err := s.Store.ListTrackedGames(ctx, userID)
	if err != nil {
		return nil, err
	}
	targets := make(map[uint64]decimal.Decimal, len(tracked))
	ids := make([]uint64, 0, len(tracked))
	for _, t := range tracked {
		if t.TargetPrice == nil {
			continue
		}
		targets[t.GameID] = *t.TargetPrice
		ids = append(ids, t.GameID)
	}
	if len(ids) == 0 {
		return []PriceAlert{}, nil
	}

	offers, err := s.Store.ListGamePlatformsByGameIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load offers: %w", err)
	}
	lowest := make(map[uint64]models.GamePlatform, len(ids))
	for _, o := range offers {
		if o.Price == nil {
			continue
		}
		cur, ok := lowest[o.GameID]
		if !ok || o.Price.LessThan(*cur.Price) {
			lowest[o.GameID] = o
		}
	}

	games, err := s.Store.ListGamesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}
	names := make(map[uint64]string, len(games))
	for _, g := range games {
		names[g.ID] = g.Name
	}

	out := make([]PriceAlert, 0)
	for _, id := range ids {
		o, ok := lowest[id]
		if !ok || o.Price.GreaterThan(targets[id]) {
			continue
		}
		out = append(out, PriceAlert{
			GameID:       id,
			GameName:     names[id],
			TargetPrice:  targets[id],
			CurrentPrice: *o.Price,
			Platform:     o.Platform,
			URL:          o.URL,
		})
	}
	return out, nil
}
