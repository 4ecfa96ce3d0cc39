package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/ruangkopi/internal/auth"
	"github.com/MrSnakeDoc/ruangkopi/internal/config"
	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
	"github.com/MrSnakeDoc/ruangkopi/internal/favorites"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver"
	"github.com/MrSnakeDoc/ruangkopi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/ruangkopi/internal/index"
	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
	"github.com/MrSnakeDoc/ruangkopi/internal/metrics"
	"github.com/MrSnakeDoc/ruangkopi/internal/redis"
	"github.com/MrSnakeDoc/ruangkopi/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/ruangkopi/internal/store/redis"
	"github.com/MrSnakeDoc/ruangkopi/internal/utils"
	"github.com/MrSnakeDoc/ruangkopi/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	cafeIndex   *index.CafeIndex
	reloader    *scheduler.CafeReloader
	expirer     *scheduler.SubmissionExpirer
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Redis is optional. When configured it must be reachable - fail fast.
	var (
		redisClient *goredis.Client
		store       *redisstore.Store
	)
	if cfg.RedisAddr != "" {
		client, err := redis.Connect(context.Background(), redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		store = redisstore.NewStore(client)
		loggerClient.Info("Redis initialized successfully")
	} else {
		loggerClient.Warn("RUANGKOPI_REDIS_ADDR not set, favorites and submissions are kept in memory only")
	}

	cafeIndex := index.NewCafeIndex()

	// Restore approved submissions and the review queue
	if store != nil {
		syncer := scheduler.NewRedisSyncer(store, cafeIndex, loggerClient)
		if err := syncer.Sync(context.Background()); err != nil {
			loggerClient.Warn("failed to sync from redis on startup, will load from dataset",
				logger.Error(err))
		}
	}

	// Favorites slot: Redis when available, process memory otherwise
	var kv favorites.KV = favorites.NewMemoryKV()
	if store != nil {
		kv = store
	}

	m := metrics.New(cafeIndex)
	encoder := domain.NewHoursEncoder(cfg.MergeClosedDays)

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewCafeReloader(
		cfg.CafeFile,
		encoder,
		store,
		cafeIndex,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	expirer := scheduler.NewSubmissionExpirer(
		store,
		cafeIndex,
		loggerClient,
		cfg.ReloadInterval,
		cfg.SubmissionTTL,
	)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RateBurst:       cfg.RateBurst,
		RatePerMin:      cfg.RatePerMin,
		CafeFile:        cfg.CafeFile,
		RedisClient:     redisClient,
		Store:           store,
		CafeIndex:       cafeIndex,
		Favorites:       favorites.NewClients(kv, loggerClient, favorites.WithObserver(m)),
		Encoder:         encoder,
		DefaultRadiusKm: cfg.DefaultRadiusKm,
		Center:          domain.GeoPoint{Lat: cfg.CenterLat, Lon: cfg.CenterLon},
		Auth:            auth.NewAuthenticator(cfg.AdminUser, cfg.AdminPasswordHash, []byte(cfg.JWTSecret), cfg.TokenTTL),
		Metrics:         m,
		ReloadTrigger:   reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		cafeIndex:   cafeIndex,
		reloader:    reloader,
		expirer:     expirer,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting RuangKopi v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("RuangKopi %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start cafe reloader (loads the dataset and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start cafe reloader: %w", err)
	}
	a.logger.Info("cafe reloader started",
		logger.String("file", a.cfg.CafeFile),
		logger.Int("cafes", a.cafeIndex.Count()),
		logger.Duration("interval", a.cfg.ReloadInterval))

	a.expirer.Start(ctx)
	a.logger.Info("submission expirer started",
		logger.Duration("ttl", a.cfg.SubmissionTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	a.expirer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil && utils.CloseLogged(a.redisClient, "redis", a.logger) {
		a.logger.Info("✅ Redis closed cleanly")
	}

	a.logger.Info("✅ RuangKopi stopped cleanly")
	return nil
}
