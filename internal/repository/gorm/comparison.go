package gormrepository

import (
	"context"

	"gorm.io/gorm/clause"

	"gamecompare/internal/models"
)

func (s *Store) GetComparisonCache(ctx context.Context, gameID uint64) (*models.ComparisonCache, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return first[models.ComparisonCache](s.db.WithContext(ctx), "game_id = ?", gameID)
}

func (s *Store) UpsertComparisonCache(ctx context.Context, item *models.ComparisonCache) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "last_updated"}),
	}).Create(item).Error
}

func (s *Store) DeleteComparisonCache(ctx context.Context, gameID uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("game_id = ?", gameID).Delete(&models.ComparisonCache{}).Error
}
