package db

import (
	"gamecompare/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Game{},
		&models.GamePlatform{},
		&models.PriceHistory{},
		&models.SyncLog{},
		&models.ComparisonCache{},
		&models.PopularSearch{},
		&models.LibraryEntry{},
		&models.TrackedGame{},
	)
}
