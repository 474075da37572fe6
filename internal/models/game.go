package models

import (
	"time"

	"gorm.io/datatypes"
)

// Game is the canonical catalog entry. Name is the cross-platform
// deduplication key.
type Game struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement"`
	Name        string         `gorm:"type:varchar(500);not null;index:idx_games_name"`
	Description *string        `gorm:"type:text"`
	Genres      datatypes.JSON `gorm:"comment:类型标签集合"`
	Tags        datatypes.JSON `gorm:"comment:用户标签集合"`
	Developer   *string        `gorm:"type:varchar(255)"`
	Publisher   *string        `gorm:"type:varchar(255)"`
	ReleaseDate *time.Time     `gorm:"index"`
	CoverImage  *string        `gorm:"type:text"`

	// Derived from the offer set after every upsert.
	Platforms       datatypes.JSON
	IsMultiPlatform bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`

	Offers []GamePlatform `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}

func (Game) TableName() string {
	return "games"
}

func (g *Game) GenreList() []string {
	if g == nil {
		return nil
	}
	return DecodeStrings(g.Genres)
}

func (g *Game) TagList() []string {
	if g == nil {
		return nil
	}
	return DecodeStrings(g.Tags)
}

func (g *Game) PlatformList() []string {
	if g == nil {
		return nil
	}
	return DecodeStrings(g.Platforms)
}
