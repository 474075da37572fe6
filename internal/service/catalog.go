package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gamecompare/internal/apperr"
	"gamecompare/internal/repository"
)

// CatalogService is the read-only view over persisted games.
type CatalogService struct {
	Store  repository.GameReader
	Logger *zap.Logger
}

type GameListInput struct {
	Query    string `json:"q" validate:"max=500"`
	Platform string `json:"platform" validate:"omitempty,oneof=steam epic gog"`
	OrderBy  string `json:"order_by" validate:"omitempty,oneof=name release_date created_at updated_at id"`
	Asc      bool   `json:"asc"`
	Page     int    `json:"page" validate:"min=1"`
	Limit    int    `json:"limit" validate:"min=1,max=100"`
}

type GameList struct {
	Games      []SearchResult `json:"games"`
	Pagination Pagination     `json:"pagination"`
}

func (s *CatalogService) ListGames(ctx context.Context, in GameListInput) (*GameList, error) {
	if in.Page == 0 {
		in.Page = 1
	}
	if in.Limit == 0 {
		in.Limit = DefaultSearchLimit
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	params := repository.ListGamesParams{
		Limit:   in.Limit,
		Offset:  (in.Page - 1) * in.Limit,
		OrderBy: in.OrderBy,
	}
	if q := strings.TrimSpace(in.Query); q != "" {
		params.Name = &q
	}
	if in.Platform != "" {
		params.Platform = &in.Platform
	}
	if in.OrderBy != "" {
		asc := in.Asc
		params.Asc = &asc
	}

	total, err := s.Store.CountGames(ctx, params)
	if err != nil {
		return nil, err
	}
	games, err := s.Store.ListGames(ctx, params)
	if err != nil {
		return nil, err
	}
	out := &GameList{
		Games: make([]SearchResult, 0, len(games)),
		Pagination: Pagination{
			Page:       in.Page,
			Limit:      in.Limit,
			Total:      total,
			TotalPages: int((total + int64(in.Limit) - 1) / int64(in.Limit)),
		},
	}
	for i := range games {
		out.Games = append(out.Games, groupResult(&games[i], games[i].Offers))
	}
	return out, nil
}

func (s *CatalogService) GetGame(ctx context.Context, id uint64) (*SearchResult, error) {
	game, err := s.Store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.NotFound("game", strconv.FormatUint(id, 10))
	}
	r := groupResult(game, game.Offers)
	return &r, nil
}

type PriceHistoryInput struct {
	GameID   uint64     `json:"game_id" validate:"required"`
	Platform string     `json:"platform" validate:"omitempty,oneof=steam epic gog"`
	Since    *time.Time `json:"since"`
	Limit    int        `json:"limit" validate:"min=1,max=500"`
}

type PricePoint struct {
	Platform        string           `json:"platform"`
	Price           *decimal.Decimal `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price"`
	DiscountPercent int              `json:"discount_percent"`
	Currency        string           `json:"currency"`
	RecordedAt      time.Time        `json:"recorded_at"`
}

// PriceHistory lists snapshots newest first.
func (s *CatalogService) PriceHistory(ctx context.Context, in PriceHistoryInput) ([]PricePoint, error) {
	if in.Limit == 0 {
		in.Limit = 100
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	game, err := s.Store.GetGame(ctx, in.GameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.NotFound("game", strconv.FormatUint(in.GameID, 10))
	}
	params := repository.ListPriceHistoryParams{GameID: in.GameID, Since: in.Since, Limit: in.Limit}
	if in.Platform != "" {
		params.Platform = &in.Platform
	}
	rows, err := s.Store.ListPriceHistory(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]PricePoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, PricePoint{
			Platform:        r.Platform,
			Price:           r.Price,
			OriginalPrice:   r.OriginalPrice,
			DiscountPercent: r.DiscountPercent,
			Currency:        r.Currency,
			RecordedAt:      r.RecordedAt,
		})
	}
	return out, nil
}
