package gormrepository

import (
	"context"
	"strings"

	"gamecompare/internal/models"
	"gamecompare/internal/repository"
)

func (s *Store) CreateSyncLog(ctx context.Context, item *models.SyncLog) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

// SaveSyncLog writes the terminal state of a run.
func (s *Store) SaveSyncLog(ctx context.Context, item *models.SyncLog) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

// LastSyncLog returns the newest run for platform, optionally with a given status.
func (s *Store) LastSyncLog(ctx context.Context, platform, status string) (*models.SyncLog, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Where("platform = ?", platform)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return first[models.SyncLog](query.Order("started_at desc, id desc"))
}

func (s *Store) ListSyncLogs(ctx context.Context, params repository.ListSyncLogsParams) ([]models.SyncLog, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.SyncLog{})
	if params.Platform != nil && strings.TrimSpace(*params.Platform) != "" {
		query = query.Where("platform = ?", strings.TrimSpace(*params.Platform))
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	var items []models.SyncLog
	if err := query.
		Order("started_at desc, id desc").
		Limit(normalizeLimit(params.Limit, 50)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
