package models

import (
	"time"

	"gorm.io/datatypes"
)

type ComparisonCache struct {
	GameID      uint64         `gorm:"primaryKey;autoIncrement:false;comment:游戏ID"`
	Payload     datatypes.JSON `gorm:"not null;comment:比价结果JSON"`
	LastUpdated time.Time      `gorm:"not null;index;comment:计算时间"`
}

func (ComparisonCache) TableName() string {
	return "comparison_cache"
}
