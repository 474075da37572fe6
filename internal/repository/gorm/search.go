package gormrepository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gamecompare/internal/models"
	"gamecompare/internal/repository"
)

// anyLike ORs one substring match per value.
func (s *Store) anyLike(column string, values []string) *gorm.DB {
	var group *gorm.DB
	for _, v := range cleanStrings(values) {
		if group == nil {
			group = s.db.Where(likeExpr(column), containsPattern(v))
			continue
		}
		group = group.Or(likeExpr(column), containsPattern(v))
	}
	return group
}

func applyOfferFilters(query *gorm.DB, params repository.SearchParams) *gorm.DB {
	if p := cleanStrings(params.Platforms); len(p) > 0 {
		query = query.Where("game_platforms.platform IN ?", p)
	}
	if params.MinPrice != nil {
		query = query.Where("game_platforms.price IS NOT NULL AND game_platforms.price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		query = query.Where("game_platforms.price IS NOT NULL AND game_platforms.price <= ?", *params.MaxPrice)
	}
	if params.OnSale {
		query = query.Where("game_platforms.discount_percent > ?", 0)
	}
	return query
}

// searchRows selects joined game/offer rows; every filter must hold on the same row.
func (s *Store) searchRows(ctx context.Context, params repository.SearchParams) *gorm.DB {
	query := s.db.WithContext(ctx).
		Table("games").
		Joins("JOIN game_platforms ON game_platforms.game_id = games.id")
	if q := strings.TrimSpace(params.Query); q != "" {
		pattern := containsPattern(q)
		query = query.Where(s.db.
			Where(likeExpr("games.name"), pattern).
			Or(likeExpr("games.description"), pattern).
			Or(likeExpr("games.developer"), pattern))
	}
	if group := s.anyLike("games.genres", params.Genres); group != nil {
		query = query.Where(group)
	}
	if group := s.anyLike("games.tags", params.Tags); group != nil {
		query = query.Where(group)
	}
	if params.ReleasedAfter != nil {
		query = query.Where("games.release_date >= ?", *params.ReleasedAfter)
	}
	if params.ReleasedBefore != nil {
		query = query.Where("games.release_date <= ?", *params.ReleasedBefore)
	}
	return applyOfferFilters(query, params)
}

type idRow struct {
	ID uint64
}

func searchOrder(params repository.SearchParams) clause.OrderBy {
	expr := clause.Expr{WithoutParentheses: true}
	switch params.Sort {
	case repository.SortPriceAsc:
		expr.SQL = "CASE WHEN MIN(game_platforms.price) IS NULL THEN 1 ELSE 0 END, MIN(game_platforms.price) ASC, games.id ASC"
	case repository.SortPriceDesc:
		expr.SQL = "CASE WHEN MAX(game_platforms.price) IS NULL THEN 1 ELSE 0 END, MAX(game_platforms.price) DESC, games.id ASC"
	case repository.SortReleaseDate:
		expr.SQL = "CASE WHEN games.release_date IS NULL THEN 1 ELSE 0 END, games.release_date DESC, games.id ASC"
	case repository.SortDiscount:
		expr.SQL = "MAX(game_platforms.discount_percent) DESC, games.id ASC"
	default:
		if q := strings.TrimSpace(params.Query); q != "" {
			expr.SQL = "CASE WHEN LOWER(games.name) = ? THEN 0 ELSE 1 END, games.id ASC"
			expr.Vars = []any{strings.ToLower(q)}
		} else {
			expr.SQL = "games.id ASC"
		}
	}
	return clause.OrderBy{Expression: expr}
}

func (s *Store) SearchGames(ctx context.Context, params repository.SearchParams) (repository.SearchPage, error) {
	if s == nil || s.db == nil {
		return repository.SearchPage{}, nil
	}
	var total int64
	if err := s.searchRows(ctx, params).Distinct("games.id").Count(&total).Error; err != nil {
		return repository.SearchPage{}, err
	}
	if total == 0 {
		return repository.SearchPage{Games: []models.Game{}}, nil
	}

	var rows []idRow
	if err := s.searchRows(ctx, params).
		Select("games.id AS id").
		Group("games.id").
		Order(searchOrder(params)).
		Limit(normalizeLimit(params.Limit, 20)).
		Offset(normalizeOffset(params.Offset)).
		Scan(&rows).Error; err != nil {
		return repository.SearchPage{}, err
	}
	ids := make([]uint64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	if len(ids) == 0 {
		return repository.SearchPage{Games: []models.Game{}, Total: total}, nil
	}

	var games []models.Game
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&games).Error; err != nil {
		return repository.SearchPage{}, err
	}
	var offers []models.GamePlatform
	offerQuery := s.db.WithContext(ctx).Model(&models.GamePlatform{}).Where("game_platforms.game_id IN ?", ids)
	if err := applyOfferFilters(offerQuery, params).Order("game_platforms.id asc").Find(&offers).Error; err != nil {
		return repository.SearchPage{}, err
	}
	byGame := make(map[uint64][]models.GamePlatform, len(ids))
	for _, o := range offers {
		byGame[o.GameID] = append(byGame[o.GameID], o)
	}
	byID := make(map[uint64]models.Game, len(games))
	for _, g := range games {
		g.Offers = byGame[g.ID]
		byID[g.ID] = g
	}
	out := make([]models.Game, 0, len(ids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return repository.SearchPage{Games: out, Total: total}, nil
}

// FindGamesByName matches a name substring, newest first.
func (s *Store) FindGamesByName(ctx context.Context, substr string, platforms []string, limit int) ([]models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Game{}).Where(likeExpr("name"), containsPattern(substr))
	if p := cleanStrings(platforms); len(p) > 0 {
		query = query.Where("id IN (?)", s.db.Model(&models.GamePlatform{}).Select("game_id").Where("platform IN ?", p))
	}
	var items []models.Game
	if err := query.
		Preload("Offers", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Order("updated_at desc, id desc").
		Limit(normalizeLimit(limit, 10)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListGamesByGenre(ctx context.Context, genre string, limit int) ([]models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Game
	if err := s.db.WithContext(ctx).
		Model(&models.Game{}).
		Where(likeExpr("genres"), containsPattern(genre)).
		Preload("Offers", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Order("name asc, id asc").
		Limit(normalizeLimit(limit, 20)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// IncrementPopularSearch bumps the counter for query in one statement.
func (s *Store) IncrementPopularSearch(ctx context.Context, query string, at time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	item := models.PopularSearch{Query: query, SearchCount: 1, LastSearched: at}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "query"}},
		DoUpdates: clause.Assignments(map[string]any{
			"search_count":  gorm.Expr("popular_searches.search_count + 1"),
			"last_searched": at,
		}),
	}).Create(&item).Error
}

func (s *Store) ListPopularSearches(ctx context.Context, params repository.ListPopularSearchesParams) ([]models.PopularSearch, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.PopularSearch{})
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("last_searched >= ?", *params.Since)
	}
	if params.Contains != nil && strings.TrimSpace(*params.Contains) != "" {
		query = query.Where(likeExpr("query"), containsPattern(*params.Contains))
	}
	var items []models.PopularSearch
	if err := query.
		Order("search_count desc, last_searched desc, id asc").
		Limit(normalizeLimit(params.Limit, 10)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
