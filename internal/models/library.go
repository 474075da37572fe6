package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	LibraryStatusOwned     = "owned"
	LibraryStatusWishlist  = "wishlist"
	LibraryStatusPlaying   = "playing"
	LibraryStatusCompleted = "completed"
)

type LibraryEntry struct {
	ID       uint64    `gorm:"primaryKey;autoIncrement"`
	UserID   string    `gorm:"type:varchar(64);not null;uniqueIndex:uniq_library_entry,priority:1"`
	GameID   uint64    `gorm:"not null;uniqueIndex:uniq_library_entry,priority:2;index"`
	Platform string    `gorm:"type:varchar(16);not null;uniqueIndex:uniq_library_entry,priority:3"`
	Status   string    `gorm:"type:varchar(16);not null;default:owned"`
	AddedAt  time.Time `gorm:"autoCreateTime"`
}

func (LibraryEntry) TableName() string {
	return "user_library"
}

type TrackedGame struct {
	ID          uint64           `gorm:"primaryKey;autoIncrement"`
	UserID      string           `gorm:"type:varchar(64);not null;uniqueIndex:uniq_tracked_game,priority:1"`
	GameID      uint64           `gorm:"not null;uniqueIndex:uniq_tracked_game,priority:2;index"`
	TargetPrice *decimal.Decimal `gorm:"type:numeric(10,2)"`
	Notify      bool             `gorm:"not null"`
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime"`
}

func (TrackedGame) TableName() string {
	return "tracked_games"
}
