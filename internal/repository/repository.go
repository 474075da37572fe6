package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gamecompare/internal/models"
)

// CatalogRepository is what the sync engine needs. Tx methods must be used
// inside InTx callbacks; never mix them with non-tx calls there.
type CatalogRepository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	GetGameTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.Game, error)
	FindGameByNameTx(ctx context.Context, tx *gorm.DB, name string) (*models.Game, error)
	CreateGameTx(ctx context.Context, tx *gorm.DB, item *models.Game) error
	SaveGameTx(ctx context.Context, tx *gorm.DB, item *models.Game) error
	FindGamePlatformByExternalTx(ctx context.Context, tx *gorm.DB, platform, platformID string) (*models.GamePlatform, error)
	UpsertGamePlatformTx(ctx context.Context, tx *gorm.DB, item *models.GamePlatform) error
	ListGamePlatformsTx(ctx context.Context, tx *gorm.DB, gameID uint64) ([]models.GamePlatform, error)
	CountGames(ctx context.Context, params ListGamesParams) (int64, error)
	CountGamePlatforms(ctx context.Context) (int64, error)
}

type SyncLogRepository interface {
	CreateSyncLog(ctx context.Context, item *models.SyncLog) error
	SaveSyncLog(ctx context.Context, item *models.SyncLog) error
	LastSyncLog(ctx context.Context, platform, status string) (*models.SyncLog, error)
	ListSyncLogs(ctx context.Context, params ListSyncLogsParams) ([]models.SyncLog, error)
}

// GameReader is the read side shared by comparison, search and the catalog API.
type GameReader interface {
	GetGame(ctx context.Context, id uint64) (*models.Game, error)
	FindGameByName(ctx context.Context, name string) (*models.Game, error)
	ListGames(ctx context.Context, params ListGamesParams) ([]models.Game, error)
	ListGamesByIDs(ctx context.Context, ids []uint64) ([]models.Game, error)
	CountGames(ctx context.Context, params ListGamesParams) (int64, error)
	ListGamePlatforms(ctx context.Context, gameID uint64) ([]models.GamePlatform, error)
	ListGamePlatformsByGameIDs(ctx context.Context, gameIDs []uint64) ([]models.GamePlatform, error)
	ListPriceHistory(ctx context.Context, params ListPriceHistoryParams) ([]models.PriceHistory, error)
}

type ComparisonRepository interface {
	GetGame(ctx context.Context, id uint64) (*models.Game, error)
	FindGameByName(ctx context.Context, name string) (*models.Game, error)
	ListGamePlatforms(ctx context.Context, gameID uint64) ([]models.GamePlatform, error)
	InsertPriceHistory(ctx context.Context, items []models.PriceHistory) error
	GetComparisonCache(ctx context.Context, gameID uint64) (*models.ComparisonCache, error)
	UpsertComparisonCache(ctx context.Context, item *models.ComparisonCache) error
	DeleteComparisonCache(ctx context.Context, gameID uint64) error
}

type SearchRepository interface {
	SearchGames(ctx context.Context, params SearchParams) (SearchPage, error)
	FindGamesByName(ctx context.Context, substr string, platforms []string, limit int) ([]models.Game, error)
	ListGamesByGenre(ctx context.Context, genre string, limit int) ([]models.Game, error)
	ListGamesByIDs(ctx context.Context, ids []uint64) ([]models.Game, error)
	ListRecentOffers(ctx context.Context, platforms []string, limit int) ([]models.GamePlatform, error)
	IncrementPopularSearch(ctx context.Context, query string, at time.Time) error
	ListPopularSearches(ctx context.Context, params ListPopularSearchesParams) ([]models.PopularSearch, error)
}

type LibraryRepository interface {
	GetGame(ctx context.Context, id uint64) (*models.Game, error)
	UpsertLibraryEntry(ctx context.Context, item *models.LibraryEntry) error
	ListLibraryEntries(ctx context.Context, userID string) ([]models.LibraryEntry, error)
	DeleteLibraryEntry(ctx context.Context, userID string, gameID uint64, platform string) (int64, error)
	UpsertTrackedGame(ctx context.Context, item *models.TrackedGame) error
	ListTrackedGames(ctx context.Context, userID string) ([]models.TrackedGame, error)
	DeleteTrackedGame(ctx context.Context, userID string, gameID uint64) (int64, error)
	ListGamePlatformsByGameIDs(ctx context.Context, gameIDs []uint64) ([]models.GamePlatform, error)
	ListGamesByIDs(ctx context.Context, ids []uint64) ([]models.Game, error)
}

// Repository is the full store the api process wires into every service.
type Repository interface {
	CatalogRepository
	SyncLogRepository
	GameReader
	ComparisonRepository
	SearchRepository
	LibraryRepository
}

type ListGamesParams struct {
	Limit    int
	Offset   int
	Name     *string
	Platform *string
	OrderBy  string
	Asc      *bool
}

type ListPriceHistoryParams struct {
	GameID   uint64
	Platform *string
	Since    *time.Time
	Limit    int
}

type ListSyncLogsParams struct {
	Platform *string
	Status   *string
	Limit    int
	Offset   int
}

type ListPopularSearchesParams struct {
	Since    *time.Time
	Contains *string
	Limit    int
}

const (
	SortRelevance   = "relevance"
	SortPriceAsc    = "price_low_to_high"
	SortPriceDesc   = "price_high_to_low"
	SortReleaseDate = "release_date"
	SortDiscount    = "discount"
)

// SearchParams are conjunctive across fields; list fields match any element.
type SearchParams struct {
	Query          string
	Platforms      []string
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	Genres         []string
	Tags           []string
	ReleasedAfter  *time.Time
	ReleasedBefore *time.Time
	OnSale         bool
	Sort           string
	Limit          int
	Offset         int
}

// SearchPage holds one page of matching games. Each game's Offers are only
// the offer rows that matched.
type SearchPage struct {
	Games []models.Game
	Total int64
}
