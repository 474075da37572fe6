package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"gamecompare/internal/cache"
	"gamecompare/internal/client/epic"
	"gamecompare/internal/client/gog"
	"gamecompare/internal/client/steam"
	"gamecompare/internal/client/storefront"
	"gamecompare/internal/config"
	cronrunner "gamecompare/internal/cron"
	"gamecompare/internal/db"
	"gamecompare/internal/handler"
	"gamecompare/internal/logger"
	"gamecompare/internal/middleware"
	"gamecompare/internal/platform"
	gormrepository "gamecompare/internal/repository/gorm"
	"gamecompare/internal/service"

	_ "gamecompare/docs"
)

func main() {
	cfgPath := os.Getenv("GC_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("GC_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.Ping(dbConn); err != nil {
		logger.Fatal("db ping failed", zap.Error(err))
	}
	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}
	store := gormrepository.New(dbConn.Gorm)

	ttlCache := newCache(cfg.Cache, logger)

	comparisonSvc := &service.ComparisonService{
		Store:  store,
		TTL:    cfg.Comparison.TTL,
		Logger: logger,
	}
	syncSvc := &service.SyncService{
		Store: store,
		TTLHours: map[platform.Platform]int{
			platform.Steam: cfg.Steam.SyncTTLHours,
			platform.Epic:  cfg.Epic.SyncTTLHours,
			platform.GOG:   cfg.GOG.SyncTTLHours,
		},
		Logger: logger,
	}

	httpClient := &http.Client{Timeout: cfg.Storefront.Timeout}
	adapterOpts := func(pc config.PlatformConfig) platform.AdapterOptions {
		return platform.AdapterOptions{
			StoreURL:       pc.StoreURL,
			Cache:          ttlCache,
			CacheTTL:       pc.CacheTTL,
			RateLimitDelay: pc.RateLimitDelay,
			BatchSize:      pc.SyncBatchSize,
			Pages:          pc.SyncPages,
			Syncer:         syncSvc,
			Logger:         logger,
		}
	}
	var adapters []platform.Adapter
	if cfg.Steam.Enabled {
		client := steam.NewClient(newTransport(httpClient, cfg.Storefront, platform.Steam, logger), cfg.Steam.BaseURL, cfg.Steam.StoreURL, cfg.Steam.Country, cfg.Steam.Locale)
		adapters = append(adapters, platform.NewSteamAdapter(client, adapterOpts(cfg.Steam)))
	}
	if cfg.Epic.Enabled {
		client := epic.NewClient(newTransport(httpClient, cfg.Storefront, platform.Epic, logger), cfg.Epic.BaseURL, cfg.Epic.Country, cfg.Epic.Locale)
		adapters = append(adapters, platform.NewEpicAdapter(client, adapterOpts(cfg.Epic)))
	}
	if cfg.GOG.Enabled {
		client := gog.NewClient(newTransport(httpClient, cfg.Storefront, platform.GOG, logger), cfg.GOG.BaseURL)
		adapters = append(adapters, platform.NewGOGAdapter(client, adapterOpts(cfg.GOG)))
	}
	manager := platform.NewManager(logger, adapters...)

	searchSvc := &service.SearchService{
		Store:           store,
		DefaultLimit:    cfg.Search.DefaultLimit,
		LiveFallbackMin: cfg.Search.LiveFallbackMin,
		SkipPopular:     !cfg.Search.TrackPopular,
		Logger:          logger,
	}
	if cfg.Search.LiveFallback {
		searchSvc.Live = manager
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.AccessLog(logger))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.CORS())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	if rs, ok := ttlCache.(*cache.RedisStore); ok {
		healthHandler.Deps = map[string]handler.Pinger{"redis": rs}
	}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	platformHandler := &handler.PlatformHandler{Manager: manager, Logger: logger}
	platformHandler.Register(engine)
	syncHandler := &handler.SyncHandler{Manager: manager, Service: syncSvc, Logger: logger}
	syncHandler.Register(engine)
	gameHandler := &handler.GameHandler{
		Catalog:    &service.CatalogService{Store: store, Logger: logger},
		Comparison: comparisonSvc,
		Logger:     logger,
	}
	gameHandler.Register(engine)
	searchHandler := &handler.SearchHandler{Service: searchSvc, Logger: logger}
	searchHandler.Register(engine)
	libraryHandler := &handler.LibraryHandler{
		Service: &service.LibraryService{Store: store, Logger: logger},
		Logger:  logger,
	}
	libraryHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		specs := map[platform.Platform]string{
			platform.Steam: cfg.Cron.SteamSync,
			platform.Epic:  cfg.Cron.EpicSync,
			platform.GOG:   cfg.Cron.GOGSync,
		}
		for _, p := range manager.Platforms() {
			if err := cronRunner.AddSync(specs[p], p, manager); err != nil {
				logger.Warn("cron register sync failed", zap.String("platform", p.String()), zap.Error(err))
			}
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr), zap.Int("platforms", len(adapters)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func newTransport(httpClient *http.Client, cfg config.StorefrontConfig, p platform.Platform, logger *zap.Logger) *storefront.Client {
	opts := storefront.Options{
		Platform:   p.String(),
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.BaseDelay,
		Logger:     logger,
	}
	if cfg.BreakerEnabled {
		opts.Breaker = &storefront.BreakerSettings{
			FailureThreshold: cfg.BreakerFailures,
			OpenTimeout:      cfg.BreakerOpenFor,
			HalfOpenRequests: cfg.BreakerHalfOpen,
			Interval:         cfg.BreakerResetEach,
		}
	}
	return storefront.NewClient(httpClient, opts)
}

func newCache(cfg config.CacheConfig, logger *zap.Logger) cache.Store {
	if !strings.EqualFold(cfg.Backend, "redis") {
		return cache.NewMemoryStore()
	}
	rs := cache.NewRedisStore(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.KeyPrefix)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, using in-process cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = rs.Close()
		return cache.NewMemoryStore()
	}
	return rs
}
