package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistory is append-only.
type PriceHistory struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	GamePlatformID uint64 `gorm:"not null;index"`
	GameID         uint64 `gorm:"not null;index:idx_price_history_game,priority:1"`
	Platform       string `gorm:"type:varchar(16);not null"`

	Price           *decimal.Decimal `gorm:"type:numeric(10,2)"`
	OriginalPrice   *decimal.Decimal `gorm:"type:numeric(10,2)"`
	DiscountPercent int              `gorm:"not null;default:0"`
	Currency        string           `gorm:"type:varchar(3);not null;default:USD"`

	RecordedAt time.Time `gorm:"not null;index:idx_price_history_game,priority:2"`
}

func (PriceHistory) TableName() string {
	return "price_history"
}
