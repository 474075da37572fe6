package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	PlatformSteam = "steam"
	PlatformEpic  = "epic"
	PlatformGOG   = "gog"
)

// AllPlatforms is the fixed platform order. Comparison tie-breaks follow it.
var AllPlatforms = []string{PlatformSteam, PlatformEpic, PlatformGOG}

// TriState is a flag upstream may not report definitively.
type TriState string

const (
	TriUnknown TriState = "unknown"
	TriTrue    TriState = "true"
	TriFalse   TriState = "false"
)

func TriFromBool(v bool) TriState {
	if v {
		return TriTrue
	}
	return TriFalse
}

func TriFromPtr(v *bool) TriState {
	if v == nil {
		return TriUnknown
	}
	return TriFromBool(*v)
}

func (t TriState) IsTrue() bool {
	return t == TriTrue
}

func (t TriState) Normalize() TriState {
	switch t {
	case TriTrue, TriFalse:
		return t
	default:
		return TriUnknown
	}
}

// GamePlatform is one storefront's offer for a Game. (GameID, Platform) is unique.
type GamePlatform struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	GameID     uint64 `gorm:"not null;uniqueIndex:uniq_game_platform,priority:1"`
	Platform   string `gorm:"type:varchar(16);not null;uniqueIndex:uniq_game_platform,priority:2;uniqueIndex:uniq_platform_external,priority:1"`
	PlatformID string `gorm:"type:varchar(100);not null;uniqueIndex:uniq_platform_external,priority:2"`

	Price           *decimal.Decimal `gorm:"type:numeric(10,2)"`
	OriginalPrice   *decimal.Decimal `gorm:"type:numeric(10,2)"`
	DiscountPercent int              `gorm:"not null;default:0"`
	Currency        string           `gorm:"type:varchar(3);not null;default:USD"`

	URL         *string  `gorm:"type:text"`
	ImageURL    *string  `gorm:"type:text"`
	IsAvailable TriState `gorm:"type:varchar(8);not null;default:unknown"`
	DRMFree     TriState `gorm:"type:varchar(8);not null;default:unknown"`
	Metadata    datatypes.JSON

	LastSyncedAt time.Time `gorm:"index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;index"`

	History []PriceHistory `gorm:"foreignKey:GamePlatformID;constraint:OnDelete:CASCADE"`
}

func (GamePlatform) TableName() string {
	return "game_platforms"
}
