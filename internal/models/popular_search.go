package models

import "time"

type PopularSearch struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Query        string    `gorm:"type:varchar(500);not null;uniqueIndex"`
	SearchCount  int64     `gorm:"not null;default:1;index"`
	LastSearched time.Time `gorm:"not null;index"`
}

func (PopularSearch) TableName() string {
	return "popular_searches"
}
