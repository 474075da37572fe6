package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"gamecompare/internal/apperr"
	"gamecompare/internal/metrics"
	"gamecompare/internal/models"
	"gamecompare/internal/repository"
)

const DefaultComparisonTTL = 6 * time.Hour

type ComparisonService struct {
	Store  repository.ComparisonRepository
	TTL    time.Duration
	Logger *zap.Logger
	Now    func() time.Time
}

type PlatformSummary struct {
	Platform        string           `json:"platform"`
	PlatformID      string           `json:"platform_id"`
	Price           *decimal.Decimal `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price"`
	DiscountPercent int              `json:"discount_percent"`
	Currency        string           `json:"currency"`
	URL             *string          `json:"url"`
	IsAvailable     models.TriState  `json:"is_available"`
	DRMFree         *models.TriState `json:"drm_free,omitempty"`
}

type CheapestOption struct {
	Platform string                     `json:"platform"`
	Price    decimal.Decimal            `json:"price"`
	Currency string                     `json:"currency"`
	URL      *string                    `json:"url"`
	Savings  map[string]decimal.Decimal `json:"savings"`
}

type BestDeal struct {
	Platform        string          `json:"platform"`
	DiscountPercent int             `json:"discount_percent"`
	Price           decimal.Decimal `json:"price"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	Savings         decimal.Decimal `json:"savings"`
	URL             *string         `json:"url"`
}

// ComparisonResult is the cached payload. Platforms holds one entry per known
// platform, nil where the game has no offer.
type ComparisonResult struct {
	GameID           uint64                      `json:"game_id"`
	GameName         string                      `json:"game_name"`
	Platforms        map[string]*PlatformSummary `json:"platforms"`
	CheapestOption   *CheapestOption             `json:"cheapest_option"`
	BestDeal         *BestDeal                   `json:"best_deal"`
	DRMFreeAvailable bool                        `json:"drm_free_available"`
	LastUpdated      time.Time                   `json:"last_updated"`

	Cached bool `json:"-"`
}

type ComparisonQuery struct {
	GameID   uint64
	GameName string
}

func (s *ComparisonService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultComparisonTTL
	}
	return s.TTL
}

func (s *ComparisonService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ComparisonService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// PriceComparison resolves the game by id, or by exact name when no id is given.
func (s *ComparisonService) PriceComparison(ctx context.Context, q ComparisonQuery) (*ComparisonResult, error) {
	if q.GameID != 0 {
		return s.Compare(ctx, q.GameID)
	}
	name := strings.TrimSpace(q.GameName)
	if name == "" {
		return nil, apperr.Invalid("game", "game id or name is required")
	}
	game, err := s.Store.FindGameByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.NotFoundf("Game not found: %s", name)
	}
	return s.Compare(ctx, game.ID)
}

// Compare serves a fresh cached comparison or recomputes and writes it through.
func (s *ComparisonService) Compare(ctx context.Context, gameID uint64) (*ComparisonResult, error) {
	now := s.now()
	row, err := s.Store.GetComparisonCache(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if row != nil && now.Sub(row.LastUpdated) < s.ttl() {
		var cached ComparisonResult
		if err := json.Unmarshal(row.Payload, &cached); err == nil {
			metrics.ComparisonLookups.WithLabelValues("hit").Inc()
			cached.Cached = true
			return &cached, nil
		}
		s.logger().Warn("undecodable comparison cache row", zap.Uint64("game_id", gameID))
	}
	metrics.ComparisonLookups.WithLabelValues("miss").Inc()

	var (
		game   *models.Game
		offers []models.GamePlatform
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		game, err = s.Store.GetGame(gctx, gameID)
		return err
	})
	g.Go(func() error {
		var err error
		offers, err = s.Store.ListGamePlatforms(gctx, gameID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.NotFound("game", fmt.Sprint(gameID))
	}

	result := buildComparison(game, offers, now)
	s.snapshot(ctx, offers, now)

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	if err := s.Store.UpsertComparisonCache(ctx, &models.ComparisonCache{
		GameID:      gameID,
		Payload:     datatypes.JSON(payload),
		LastUpdated: now,
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// snapshot appends one history row per priced offer. Failures only log.
func (s *ComparisonService) snapshot(ctx context.Context, offers []models.GamePlatform, now time.Time) {
	rows := make([]models.PriceHistory, 0, len(offers))
	for _, o := range offers {
		if o.Price == nil {
			continue
		}
		rows = append(rows, models.PriceHistory{
			GamePlatformID:  o.ID,
			GameID:          o.GameID,
			Platform:        o.Platform,
			Price:           o.Price,
			OriginalPrice:   o.OriginalPrice,
			DiscountPercent: o.DiscountPercent,
			Currency:        o.Currency,
			RecordedAt:      now,
		})
	}
	if err := s.Store.InsertPriceHistory(ctx, rows); err != nil {
		s.logger().Warn("price history snapshot failed", zap.Int("rows", len(rows)), zap.Error(err))
	}
}

func buildComparison(game *models.Game, offers []models.GamePlatform, now time.Time) *ComparisonResult {
	byPlatform := make(map[string]models.GamePlatform, len(offers))
	for _, o := range offers {
		byPlatform[o.Platform] = o
	}
	result := &ComparisonResult{
		GameID:      game.ID,
		GameName:    game.Name,
		Platforms:   make(map[string]*PlatformSummary, len(models.AllPlatforms)),
		LastUpdated: now,
	}

	var cheapest *PlatformSummary
	var deal *PlatformSummary
	for _, p := range models.AllPlatforms {
		o, ok := byPlatform[p]
		if !ok {
			result.Platforms[p] = nil
			continue
		}
		sum := &PlatformSummary{
			Platform:        p,
			PlatformID:      o.PlatformID,
			Price:           o.Price,
			OriginalPrice:   o.OriginalPrice,
			DiscountPercent: o.DiscountPercent,
			Currency:        o.Currency,
			URL:             o.URL,
			IsAvailable:     o.IsAvailable.Normalize(),
		}
		if p == models.PlatformGOG {
			drm := o.DRMFree.Normalize()
			sum.DRMFree = &drm
			result.DRMFreeAvailable = drm.IsTrue()
		}
		result.Platforms[p] = sum

		// Strict comparisons keep the first platform in fixed order on ties.
		if sum.Price != nil && (cheapest == nil || sum.Price.LessThan(*cheapest.Price)) {
			cheapest = sum
		}
		if sum.IsAvailable.IsTrue() && sum.DiscountPercent > 0 && (deal == nil || sum.DiscountPercent > deal.DiscountPercent) {
			deal = sum
		}
	}

	if cheapest != nil {
		opt := &CheapestOption{
			Platform: cheapest.Platform,
			Price:    *cheapest.Price,
			Currency: cheapest.Currency,
			URL:      cheapest.URL,
			Savings:  map[string]decimal.Decimal{},
		}
		for _, p := range models.AllPlatforms {
			sum := result.Platforms[p]
			if sum == nil || sum.Price == nil || p == cheapest.Platform {
				continue
			}
			if sum.Price.GreaterThan(opt.Price) {
				opt.Savings[p] = sum.Price.Sub(opt.Price)
			}
		}
		result.CheapestOption = opt
	}
	if deal != nil {
		bd := &BestDeal{
			Platform:        deal.Platform,
			DiscountPercent: deal.DiscountPercent,
			URL:             deal.URL,
		}
		if deal.Price != nil {
			bd.Price = *deal.Price
		}
		if deal.OriginalPrice != nil {
			bd.OriginalPrice = *deal.OriginalPrice
			bd.Savings = bd.OriginalPrice.Sub(bd.Price)
		}
		result.BestDeal = bd
	}
	return result
}

// InvalidateComparison drops the cached row; WhereToBuy is unavailable until
// the next Compare.
func (s *ComparisonService) InvalidateComparison(ctx context.Context, gameID uint64) error {
	return s.Store.DeleteComparisonCache(ctx, gameID)
}

const (
	RecommendCheapest = "cheapest"
	RecommendBestDeal = "best_deal"
	RecommendDRMFree  = "drm_free"
)

type Recommendation struct {
	Type     string           `json:"type"`
	Platform string           `json:"platform"`
	Priority int              `json:"priority"`
	Reason   string           `json:"reason"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	URL      *string          `json:"url,omitempty"`
}

type WhereToBuyResult struct {
	GameID         uint64           `json:"game_id"`
	GameName       string           `json:"game_name"`
	Recommendation *Recommendation  `json:"recommendation"`
	Alternatives   []Recommendation `json:"alternatives"`
	LastUpdated    time.Time        `json:"last_updated"`
}

// WhereToBuy ranks recommendations from the stored comparison. It never
// computes one; Compare must have run first.
func (s *ComparisonService) WhereToBuy(ctx context.Context, gameID uint64) (*WhereToBuyResult, error) {
	row, err := s.Store.GetComparisonCache(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperr.NotFound("comparison", fmt.Sprint(gameID))
	}
	var cmp ComparisonResult
	if err := json.Unmarshal(row.Payload, &cmp); err != nil {
		return nil, fmt.Errorf("decode comparison %d: %w", gameID, err)
	}
	return recommend(&cmp), nil
}

func recommend(cmp *ComparisonResult) *WhereToBuyResult {
	recs := make([]Recommendation, 0, 3)
	if c := cmp.CheapestOption; c != nil {
		price := c.Price
		recs = append(recs, Recommendation{
			Type:     RecommendCheapest,
			Platform: c.Platform,
			Priority: 1,
			Reason:   fmt.Sprintf("Best price available at $%s", c.Price.StringFixed(2)),
			Price:    &price,
			URL:      c.URL,
		})
	}
	if d := cmp.BestDeal; d != nil && d.DiscountPercent > 0 {
		priority := 3
		if d.DiscountPercent >= 50 {
			priority = 2
		}
		price := d.Price
		recs = append(recs, Recommendation{
			Type:     RecommendBestDeal,
			Platform: d.Platform,
			Priority: priority,
			Reason:   fmt.Sprintf("%d%% off - Save $%s", d.DiscountPercent, d.Savings.StringFixed(2)),
			Price:    &price,
			URL:      d.URL,
		})
	}
	if g := cmp.Platforms[models.PlatformGOG]; g != nil && g.DRMFree != nil && g.DRMFree.IsTrue() {
		recs = append(recs, Recommendation{
			Type:     RecommendDRMFree,
			Platform: models.PlatformGOG,
			Priority: 4,
			Reason:   "DRM-free copy - Play without online restrictions",
			Price:    g.Price,
			URL:      g.URL,
		})
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority < recs[j].Priority })

	out := &WhereToBuyResult{
		GameID:       cmp.GameID,
		GameName:     cmp.GameName,
		Alternatives: []Recommendation{},
		LastUpdated:  cmp.LastUpdated,
	}
	if len(recs) > 0 {
		out.Recommendation = &recs[0]
		out.Alternatives = append(out.Alternatives, recs[1:]...)
	}
	return out
}
