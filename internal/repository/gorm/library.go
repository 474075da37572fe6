package gormrepository

import (
	"context"

	"gorm.io/gorm/clause"

	"gamecompare/internal/models"
)

func (s *Store) UpsertLibraryEntry(ctx context.Context, item *models.LibraryEntry) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "game_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{"status"}),
	}).Create(item).Error
}

func (s *Store) ListLibraryEntries(ctx context.Context, userID string) ([]models.LibraryEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.LibraryEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at desc, id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteLibraryEntry(ctx context.Context, userID string, gameID uint64, platform string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := s.db.WithContext(ctx).Where("user_id = ? AND game_id = ?", userID, gameID)
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}
	res := query.Delete(&models.LibraryEntry{})
	return res.RowsAffected, res.Error
}

func (s *Store) UpsertTrackedGame(ctx context.Context, item *models.TrackedGame) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"target_price", "notify", "updated_at"}),
	}).Create(item).Error
}

func (s *Store) ListTrackedGames(ctx context.Context, userID string) ([]models.TrackedGame, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.TrackedGame
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteTrackedGame(ctx context.Context, userID string, gameID uint64) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("user_id = ? AND game_id = ?", userID, gameID).Delete(&models.TrackedGame{})
	return res.RowsAffected, res.Error
}
