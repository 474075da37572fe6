package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Cron       CronConfig       `mapstructure:"cron"`
	Storefront StorefrontConfig `mapstructure:"storefront"`
	Steam      PlatformConfig   `mapstructure:"steam"`
	Epic       PlatformConfig   `mapstructure:"epic"`
	GOG        PlatformConfig   `mapstructure:"gog"`
	Comparison ComparisonConfig `mapstructure:"comparison"`
	Search     SearchConfig     `mapstructure:"search"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

// CacheConfig selects the TTL cache backend. Redis is used when several
// api processes must share one cache.
type CacheConfig struct {
	Backend       string `mapstructure:"backend"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type CronConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	SteamSync string `mapstructure:"steam_sync"`
	EpicSync  string `mapstructure:"epic_sync"`
	GOGSync   string `mapstructure:"gog_sync"`
}

type StorefrontConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRetries       int           `mapstructure:"max_retries"`
	BaseDelay        time.Duration `mapstructure:"base_delay"`
	BreakerEnabled   bool          `mapstructure:"breaker_enabled"`
	BreakerFailures  uint32        `mapstructure:"breaker_failures"`
	BreakerOpenFor   time.Duration `mapstructure:"breaker_open_for"`
	BreakerHalfOpen  uint32        `mapstructure:"breaker_half_open"`
	BreakerResetEach time.Duration `mapstructure:"breaker_reset_each"`
}

type PlatformConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BaseURL        string        `mapstructure:"base_url"`
	StoreURL       string        `mapstructure:"store_url"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	SyncTTLHours   int           `mapstructure:"sync_ttl_hours"`
	RateLimitDelay time.Duration `mapstructure:"rate_limit_delay"`
	SyncBatchSize  int           `mapstructure:"sync_batch_size"`
	SyncPages      int           `mapstructure:"sync_pages"`
	Country        string        `mapstructure:"country"`
	Locale         string        `mapstructure:"locale"`
}

type ComparisonConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type SearchConfig struct {
	DefaultLimit    int  `mapstructure:"default_limit"`
	LiveFallback    bool `mapstructure:"live_fallback"`
	LiveFallbackMin int  `mapstructure:"live_fallback_min"`
	TrackPopular    bool `mapstructure:"track_popular"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.key_prefix", "gc:")
	v.SetDefault("cache.redis_addr", "127.0.0.1:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	// Scheduled syncs are not forced, so the per-platform throttle still applies.
	v.SetDefault("cron.enabled", false)
	v.SetDefault("cron.steam_sync", "@every 1h")
	v.SetDefault("cron.epic_sync", "@every 1h")
	v.SetDefault("cron.gog_sync", "@every 1h")

	v.SetDefault("storefront.timeout", "15s")
	v.SetDefault("storefront.max_retries", 3)
	v.SetDefault("storefront.base_delay", "1s")
	v.SetDefault("storefront.breaker_enabled", true)
	v.SetDefault("storefront.breaker_failures", 5)
	v.SetDefault("storefront.breaker_open_for", "30s")
	v.SetDefault("storefront.breaker_half_open", 1)
	v.SetDefault("storefront.breaker_reset_each", "60s")

	v.SetDefault("steam.enabled", true)
	v.SetDefault("steam.base_url", "https://api.steampowered.com")
	v.SetDefault("steam.store_url", "https://store.steampowered.com")
	v.SetDefault("steam.cache_ttl", "12h")
	v.SetDefault("steam.sync_ttl_hours", 12)
	v.SetDefault("steam.rate_limit_delay", "1s")
	v.SetDefault("steam.sync_batch_size", 50)
	v.SetDefault("steam.sync_pages", 1)
	v.SetDefault("steam.country", "us")
	v.SetDefault("steam.locale", "english")

	v.SetDefault("epic.enabled", true)
	v.SetDefault("epic.base_url", "https://store.epicgames.com")
	v.SetDefault("epic.store_url", "https://store.epicgames.com/en-US")
	v.SetDefault("epic.cache_ttl", "8h")
	v.SetDefault("epic.sync_ttl_hours", 8)
	v.SetDefault("epic.rate_limit_delay", "1s")
	v.SetDefault("epic.sync_batch_size", 50)
	v.SetDefault("epic.sync_pages", 1)
	v.SetDefault("epic.country", "US")
	v.SetDefault("epic.locale", "en-US")

	v.SetDefault("gog.enabled", true)
	v.SetDefault("gog.base_url", "https://api.gog.com")
	v.SetDefault("gog.store_url", "https://www.gog.com")
	v.SetDefault("gog.cache_ttl", "8h")
	v.SetDefault("gog.sync_ttl_hours", 8)
	v.SetDefault("gog.rate_limit_delay", "1s")
	v.SetDefault("gog.sync_batch_size", 50)
	v.SetDefault("gog.sync_pages", 1)
	v.SetDefault("gog.country", "US")
	v.SetDefault("gog.locale", "en-US")

	v.SetDefault("comparison.ttl", "6h")

	v.SetDefault("search.default_limit", 20)
	v.SetDefault("search.live_fallback", true)
	v.SetDefault("search.live_fallback_min", 5)
	v.SetDefault("search.track_popular", true)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
