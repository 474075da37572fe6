package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gamecompare/internal/models"
	"gamecompare/internal/repository"
)

func (s *Store) GetGameTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.Game, error) {
	if tx == nil {
		return nil, nil
	}
	return first[models.Game](tx.WithContext(ctx), "id = ?", id)
}

func (s *Store) FindGameByNameTx(ctx context.Context, tx *gorm.DB, name string) (*models.Game, error) {
	if tx == nil {
		return nil, nil
	}
	return first[models.Game](tx.WithContext(ctx).Where("name = ?", name).Order("id asc"))
}

func (s *Store) CreateGameTx(ctx context.Context, tx *gorm.DB, item *models.Game) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (s *Store) SaveGameTx(ctx context.Context, tx *gorm.DB, item *models.Game) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

func (s *Store) FindGamePlatformByExternalTx(ctx context.Context, tx *gorm.DB, platform, platformID string) (*models.GamePlatform, error) {
	if tx == nil {
		return nil, nil
	}
	return first[models.GamePlatform](tx.WithContext(ctx).Where("platform = ? AND platform_id = ?", platform, platformID))
}

// UpsertGamePlatformTx inserts or refreshes the (game_id, platform) offer and
// loads the stored row back into item.
func (s *Store) UpsertGamePlatformTx(ctx context.Context, tx *gorm.DB, item *models.GamePlatform) error {
	if tx == nil || item == nil {
		return nil
	}
	item.IsAvailable = item.IsAvailable.Normalize()
	item.DRMFree = item.DRMFree.Normalize()
	if err := tx.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "game_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"platform_id",
			"price",
			"original_price",
			"discount_percent",
			"currency",
			"url",
			"image_url",
			"is_available",
			"drm_free",
			"metadata",
			"last_synced_at",
			"updated_at",
		}),
	}).Create(item).Error; err != nil {
		return err
	}
	var stored models.GamePlatform
	if err := tx.WithContext(ctx).
		Where("game_id = ? AND platform = ?", item.GameID, item.Platform).
		First(&stored).Error; err != nil {
		return err
	}
	*item = stored
	return nil
}

func (s *Store) ListGamePlatformsTx(ctx context.Context, tx *gorm.DB, gameID uint64) ([]models.GamePlatform, error) {
	if tx == nil {
		return nil, nil
	}
	var items []models.GamePlatform
	if err := tx.WithContext(ctx).Where("game_id = ?", gameID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetGame(ctx context.Context, id uint64) (*models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return first[models.Game](s.db.WithContext(ctx).Preload("Offers", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}), "id = ?", id)
}

func (s *Store) FindGameByName(ctx context.Context, name string) (*models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return first[models.Game](s.db.WithContext(ctx).Where("name = ?", name).Order("id asc"))
}

func (s *Store) gamesQuery(ctx context.Context, params repository.ListGamesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Game{})
	if params.Name != nil && strings.TrimSpace(*params.Name) != "" {
		query = query.Where(likeExpr("name"), containsPattern(*params.Name))
	}
	if params.Platform != nil && strings.TrimSpace(*params.Platform) != "" {
		sub := s.db.Model(&models.GamePlatform{}).Select("game_id").Where("platform = ?", strings.TrimSpace(*params.Platform))
		query = query.Where("id IN (?)", sub)
	}
	return query
}

func (s *Store) ListGames(ctx context.Context, params repository.ListGamesParams) ([]models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.gamesQuery(ctx, params)
	switch params.OrderBy {
	case "name", "release_date", "created_at", "updated_at", "id":
	default:
		params.OrderBy = ""
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "updated_at")
	var items []models.Game
	if err := query.
		Preload("Offers", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Limit(normalizeLimit(params.Limit, 50)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountGames(ctx context.Context, params repository.ListGamesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.gamesQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) CountGamePlatforms(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.GamePlatform{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListGamesByIDs keeps the order of ids.
func (s *Store) ListGamesByIDs(ctx context.Context, ids []uint64) ([]models.Game, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return nil, nil
	}
	var items []models.Game
	if err := s.db.WithContext(ctx).
		Preload("Offers", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint64]models.Game, len(items))
	for _, g := range items {
		byID[g.ID] = g
	}
	out := make([]models.Game, 0, len(items))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *Store) ListGamePlatforms(ctx context.Context, gameID uint64) ([]models.GamePlatform, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return s.ListGamePlatformsTx(ctx, s.db, gameID)
}

func (s *Store) ListGamePlatformsByGameIDs(ctx context.Context, gameIDs []uint64) ([]models.GamePlatform, error) {
	if s == nil || s.db == nil || len(gameIDs) == 0 {
		return nil, nil
	}
	var items []models.GamePlatform
	if err := s.db.WithContext(ctx).Where("game_id IN ?", gameIDs).Order("game_id asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListRecentOffers returns the most recently updated offers.
func (s *Store) ListRecentOffers(ctx context.Context, platforms []string, limit int) ([]models.GamePlatform, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.GamePlatform{})
	if p := cleanStrings(platforms); len(p) > 0 {
		query = query.Where("platform IN ?", p)
	}
	var items []models.GamePlatform
	if err := query.Order("updated_at desc, id desc").Limit(normalizeLimit(limit, 20)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) InsertPriceHistory(ctx context.Context, items []models.PriceHistory) error {
	if s == nil || s.db == nil {
		return nil
	}
	return createInBatches(s.db.WithContext(ctx), items, 200)
}

func (s *Store) ListPriceHistory(ctx context.Context, params repository.ListPriceHistoryParams) ([]models.PriceHistory, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.PriceHistory{}).Where("game_id = ?", params.GameID)
	if params.Platform != nil && strings.TrimSpace(*params.Platform) != "" {
		query = query.Where("platform = ?", strings.TrimSpace(*params.Platform))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("recorded_at >= ?", *params.Since)
	}
	var items []models.PriceHistory
	if err := query.Order("recorded_at desc, id desc").Limit(normalizeLimit(params.Limit, 100)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
