package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SyncStatusPending   = "pending"
	SyncStatusRunning   = "running"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
	SyncStatusPartial   = "partial"

	SyncTypeFull        = "full"
	SyncTypeIncremental = "incremental"
	SyncTypeManual      = "manual"
)

type SyncLog struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement"`
	Platform       string         `gorm:"type:varchar(16);not null;index:idx_sync_logs_platform,priority:1;comment:平台"`
	SyncType       string         `gorm:"type:varchar(16);not null;comment:同步类型"`
	Status         string         `gorm:"type:varchar(16);not null;index;comment:运行状态"`
	StartedAt      time.Time      `gorm:"not null;index:idx_sync_logs_platform,priority:2;comment:开始时间"`
	CompletedAt    *time.Time     `gorm:"comment:完成时间"`
	GamesProcessed int            `gorm:"not null;default:0;comment:处理数"`
	GamesAdded     int            `gorm:"not null;default:0;comment:新增数"`
	GamesUpdated   int            `gorm:"not null;default:0;comment:更新数"`
	ErrorMessage   *string        `gorm:"type:text;comment:错误摘要"`
	Errors         datatypes.JSON `gorm:"comment:错误列表JSON"`
	DurationMs     int64          `gorm:"not null;default:0"`
}

func (SyncLog) TableName() string {
	return "sync_logs"
}
