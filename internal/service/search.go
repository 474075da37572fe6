package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gamecompare/internal/metrics"
	"gamecompare/internal/models"
	"gamecompare/internal/platform"
	"gamecompare/internal/repository"
)

const (
	DefaultSearchLimit     = 20
	DefaultLiveFallbackMin = 5

	trendingMatchesPerQuery = 3
	suggestionsPerSource    = 5
)

// LiveSearcher queries storefronts directly. *platform.Manager satisfies it.
type LiveSearcher interface {
	SearchAllPlatforms(ctx context.Context, query string, platforms []platform.Platform, filters platform.SearchFilters) map[platform.Platform][]platform.NormalizedGame
}

type SearchService struct {
	Store repository.SearchRepository
	Live  LiveSearcher

	DefaultLimit    int
	LiveFallbackMin int
	// SkipPopular disables popular search tracking.
	SkipPopular bool

	Logger *zap.Logger
	Now    func() time.Time
}

type AdvancedSearchInput struct {
	Query          string           `json:"query" validate:"required,min=1,max=500"`
	Platforms      []string         `json:"platforms" validate:"omitempty,dive,oneof=steam epic gog"`
	MinPrice       *decimal.Decimal `json:"min_price"`
	MaxPrice       *decimal.Decimal `json:"max_price"`
	Genres         []string         `json:"genres"`
	Tags           []string         `json:"tags"`
	ReleasedAfter  *time.Time       `json:"released_after"`
	ReleasedBefore *time.Time       `json:"released_before"`
	OnSale         bool             `json:"on_sale"`
	Sort           string           `json:"sort" validate:"omitempty,oneof=relevance price_low_to_high price_high_to_low release_date discount"`
	Page           int              `json:"page" validate:"min=1"`
	Limit          int              `json:"limit" validate:"min=1,max=100"`
}

type SearchOffer struct {
	Platform        string           `json:"platform"`
	PlatformID      string           `json:"platform_id"`
	Price           *decimal.Decimal `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price"`
	DiscountPercent int              `json:"discount_percent"`
	Currency        string           `json:"currency"`
	URL             *string          `json:"url"`
	IsAvailable     models.TriState  `json:"is_available"`
	DRMFree         models.TriState  `json:"drm_free"`
}

// SearchResult is one game with the offers that matched the query.
type SearchResult struct {
	ID              uint64           `json:"id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description"`
	Developer       *string          `json:"developer"`
	Publisher       *string          `json:"publisher"`
	Genres          []string         `json:"genres"`
	Tags            []string         `json:"tags"`
	ReleaseDate     *time.Time       `json:"release_date"`
	CoverImage      *string          `json:"cover_image"`
	IsMultiPlatform bool             `json:"is_multi_platform"`
	SearchCount     int64            `json:"search_count,omitempty"`
	Platforms       []SearchOffer    `json:"platforms"`
	LowestPrice     *decimal.Decimal `json:"lowest_price"`
	HighestPrice    *decimal.Decimal `json:"highest_price"`
	PlatformCount   int              `json:"platform_count"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Performance struct {
	ResponseTimeMs int64 `json:"response_time_ms"`
	Cached         bool  `json:"cached"`
}

type AdvancedSearchResult struct {
	Query       string         `json:"query"`
	Results     []SearchResult `json:"results"`
	Pagination  Pagination     `json:"pagination"`
	Performance Performance    `json:"performance"`
	// External holds live storefront hits for sparse first pages. It is never persisted.
	External map[platform.Platform][]platform.NormalizedGame `json:"external,omitempty"`
}

func (s *SearchService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *SearchService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *SearchService) defaultLimit() int {
	if s.DefaultLimit > 0 && s.DefaultLimit <= 100 {
		return s.DefaultLimit
	}
	return DefaultSearchLimit
}

func (s *SearchService) liveFallbackMin() int {
	if s.LiveFallbackMin > 0 {
		return s.LiveFallbackMin
	}
	return DefaultLiveFallbackMin
}

func (s *SearchService) AdvancedSearch(ctx context.Context, in AdvancedSearchInput) (*AdvancedSearchResult, error) {
	started := time.Now()
	if in.Page == 0 {
		in.Page = 1
	}
	if in.Limit == 0 {
		in.Limit = s.defaultLimit()
	}
	if in.Sort == "" {
		in.Sort = repository.SortRelevance
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	s.trackPopular(ctx, in.Query)

	page, err := s.Store.SearchGames(ctx, repository.SearchParams{
		Query:          in.Query,
		Platforms:      in.Platforms,
		MinPrice:       in.MinPrice,
		MaxPrice:       in.MaxPrice,
		Genres:         in.Genres,
		Tags:           in.Tags,
		ReleasedAfter:  in.ReleasedAfter,
		ReleasedBefore: in.ReleasedBefore,
		OnSale:         in.OnSale,
		Sort:           in.Sort,
		Limit:          in.Limit,
		Offset:         (in.Page - 1) * in.Limit,
	})
	if err != nil {
		return nil, err
	}

	out := &AdvancedSearchResult{
		Query:   in.Query,
		Results: make([]SearchResult, 0, len(page.Games)),
		Pagination: Pagination{
			Page:       in.Page,
			Limit:      in.Limit,
			Total:      page.Total,
			TotalPages: int((page.Total + int64(in.Limit) - 1) / int64(in.Limit)),
		},
	}
	for i := range page.Games {
		out.Results = append(out.Results, groupResult(&page.Games[i], page.Games[i].Offers))
	}

	if in.Page == 1 && len(out.Results) < s.liveFallbackMin() && s.Live != nil {
		out.External = s.Live.SearchAllPlatforms(ctx, in.Query, parsePlatforms(in.Platforms), platform.SearchFilters{
			OnSaleOnly: in.OnSale,
			MaxPrice:   in.MaxPrice,
		})
	}

	out.Performance = Performance{ResponseTimeMs: time.Since(started).Milliseconds()}
	return out, nil
}

// trackPopular never fails the search.
func (s *SearchService) trackPopular(ctx context.Context, query string) {
	if s.SkipPopular {
		return
	}
	if err := s.Store.IncrementPopularSearch(ctx, query, s.now()); err != nil {
		metrics.PopularSearchFailures.Inc()
		s.logger().Warn("popular search increment failed", zap.String("query", query), zap.Error(err))
	}
}

func parsePlatforms(values []string) []platform.Platform {
	out := make([]platform.Platform, 0, len(values))
	for _, v := range values {
		if p, err := platform.Parse(v); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// groupResult folds a game's offers into one row. Price bounds only consider known prices.
func groupResult(g *models.Game, offers []models.GamePlatform) SearchResult {
	r := SearchResult{
		ID:              g.ID,
		Name:            g.Name,
		Description:     g.Description,
		Developer:       g.Developer,
		Publisher:       g.Publisher,
		Genres:          g.GenreList(),
		Tags:            g.TagList(),
		ReleaseDate:     g.ReleaseDate,
		CoverImage:      g.CoverImage,
		IsMultiPlatform: g.IsMultiPlatform,
		Platforms:       make([]SearchOffer, 0, len(offers)),
	}
	for _, o := range offers {
		r.Platforms = append(r.Platforms, SearchOffer{
			Platform:        o.Platform,
			PlatformID:      o.PlatformID,
			Price:           o.Price,
			OriginalPrice:   o.OriginalPrice,
			DiscountPercent: o.DiscountPercent,
			Currency:        o.Currency,
			URL:             o.URL,
			IsAvailable:     o.IsAvailable.Normalize(),
			DRMFree:         o.DRMFree.Normalize(),
		})
		if o.Price == nil {
			continue
		}
		if r.LowestPrice == nil || o.Price.LessThan(*r.LowestPrice) {
			r.LowestPrice = o.Price
		}
		if r.HighestPrice == nil || o.Price.GreaterThan(*r.HighestPrice) {
			r.HighestPrice = o.Price
		}
	}
	r.PlatformCount = len(r.Platforms)
	return r
}

type GenreSearchInput struct {
	Genre string `json:"genre" validate:"required,min=1,max=100"`
	Limit int    `json:"limit" validate:"min=1,max=100"`
}

type GenreSearchResult struct {
	Genre   string         `json:"genre"`
	Results []SearchResult `json:"results"`
}

func (s *SearchService) SearchByGenre(ctx context.Context, in GenreSearchInput) (*GenreSearchResult, error) {
	in.Genre = strings.TrimSpace(in.Genre)
	if in.Limit == 0 {
		in.Limit = s.defaultLimit()
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	games, err := s.Store.ListGamesByGenre(ctx, in.Genre, in.Limit)
	if err != nil {
		return nil, err
	}
	out := &GenreSearchResult{Genre: in.Genre, Results: make([]SearchResult, 0, len(games))}
	for i := range games {
		out.Results = append(out.Results, groupResult(&games[i], games[i].Offers))
	}
	return out, nil
}

const (
	TimeframeWeek  = "week"
	TimeframeMonth = "month"
)

type TrendingInput struct {
	Timeframe string   `json:"timeframe" validate:"oneof=week month"`
	Platforms []string `json:"platforms" validate:"omitempty,dive,oneof=steam epic gog"`
	Limit     int      `json:"limit" validate:"min=1,max=50"`
}

type TrendingResult struct {
	Timeframe string         `json:"timeframe"`
	Games     []SearchResult `json:"games"`
	Count     int            `json:"count"`
}

// GetTrending ranks games matched by recent popular queries, then backfills
// with the most recently updated offers.
func (s *SearchService) GetTrending(ctx context.Context, in TrendingInput) (*TrendingResult, error) {
	if in.Timeframe == "" {
		in.Timeframe = TimeframeWeek
	}
	if in.Limit == 0 {
		in.Limit = DefaultSearchLimit
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	days := 7
	if in.Timeframe == TimeframeMonth {
		days = 30
	}
	since := s.now().AddDate(0, 0, -days)

	searches, err := s.Store.ListPopularSearches(ctx, repository.ListPopularSearchesParams{Since: &since, Limit: in.Limit})
	if err != nil {
		return nil, err
	}

	out := &TrendingResult{Timeframe: in.Timeframe, Games: make([]SearchResult, 0, in.Limit)}
	seen := make(map[uint64]struct{}, in.Limit)
	for _, ps := range searches {
		if len(out.Games) >= in.Limit {
			break
		}
		games, err := s.Store.FindGamesByName(ctx, ps.Query, in.Platforms, trendingMatchesPerQuery)
		if err != nil {
			return nil, err
		}
		for i := range games {
			if len(out.Games) >= in.Limit {
				break
			}
			if _, ok := seen[games[i].ID]; ok {
				continue
			}
			seen[games[i].ID] = struct{}{}
			r := groupResult(&games[i], filterOffers(games[i].Offers, in.Platforms))
			r.SearchCount = ps.SearchCount
			out.Games = append(out.Games, r)
		}
	}

	if len(out.Games) < in.Limit {
		if err := s.backfillTrending(ctx, in, since, seen, out); err != nil {
			return nil, err
		}
	}
	out.Count = len(out.Games)
	return out, nil
}

func (s *SearchService) backfillTrending(ctx context.Context, in TrendingInput, since time.Time, seen map[uint64]struct{}, out *TrendingResult) error {
	offers, err := s.Store.ListRecentOffers(ctx, in.Platforms, in.Limit*trendingMatchesPerQuery)
	if err != nil {
		return err
	}
	ids := make([]uint64, 0, len(offers))
	for _, o := range offers {
		if o.UpdatedAt.Before(since) {
			continue
		}
		if _, ok := seen[o.GameID]; ok {
			continue
		}
		seen[o.GameID] = struct{}{}
		ids = append(ids, o.GameID)
		if len(out.Games)+len(ids) >= in.Limit {
			break
		}
	}
	if len(ids) == 0 {
		return nil
	}
	games, err := s.Store.ListGamesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range games {
		out.Games = append(out.Games, groupResult(&games[i], filterOffers(games[i].Offers, in.Platforms)))
	}
	return nil
}

func filterOffers(offers []models.GamePlatform, platforms []string) []models.GamePlatform {
	if len(platforms) == 0 {
		return offers
	}
	allowed := make(map[string]struct{}, len(platforms))
	for _, p := range platforms {
		allowed[p] = struct{}{}
	}
	out := make([]models.GamePlatform, 0, len(offers))
	for _, o := range offers {
		if _, ok := allowed[o.Platform]; ok {
			out = append(out, o)
		}
	}
	return out
}

type AutoCompleteInput struct {
	Query string `json:"query" validate:"required,min=1,max=500"`
	Limit int    `json:"limit" validate:"min=1,max=20"`
}

type AutoCompleteResult struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// GetAutoCompleteSuggestions lists matching game names ahead of matching
// popular queries, without duplicates.
func (s *SearchService) GetAutoCompleteSuggestions(ctx context.Context, in AutoCompleteInput) (*AutoCompleteResult, error) {
	if in.Limit == 0 {
		in.Limit = 10
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	games, err := s.Store.FindGamesByName(ctx, in.Query, nil, suggestionsPerSource)
	if err != nil {
		return nil, err
	}
	contains := in.Query
	searches, err := s.Store.ListPopularSearches(ctx, repository.ListPopularSearchesParams{Contains: &contains, Limit: suggestionsPerSource})
	if err != nil {
		return nil, err
	}

	out := &AutoCompleteResult{Query: in.Query, Suggestions: make([]string, 0, in.Limit)}
	seen := make(map[string]struct{}, in.Limit)
	add := func(v string) {
		if len(out.Suggestions) >= in.Limit {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out.Suggestions = append(out.Suggestions, v)
	}
	for _, g := range games {
		add(g.Name)
	}
	for _, ps := range searches {
		add(ps.Query)
	}
	return out, nil
}
