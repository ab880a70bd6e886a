package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tabdeck/tabdeck/internal/bus"
	"github.com/tabdeck/tabdeck/internal/config"
	"github.com/tabdeck/tabdeck/internal/coordinator"
	"github.com/tabdeck/tabdeck/internal/httpserver"
	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/index"
	"github.com/tabdeck/tabdeck/internal/logger"
	"github.com/tabdeck/tabdeck/internal/notify"
	"github.com/tabdeck/tabdeck/internal/redis"
	"github.com/tabdeck/tabdeck/internal/scheduler"
	"github.com/tabdeck/tabdeck/internal/sources/seedfile"
	redisstore "github.com/tabdeck/tabdeck/internal/store/redis"
	"github.com/tabdeck/tabdeck/internal/timer"
	"github.com/tabdeck/tabdeck/internal/tracker"
	"github.com/tabdeck/tabdeck/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	events      *bus.Bus
	trk         *tracker.Tracker
	eng         *timer.Engine
	syncer      *scheduler.BlocklistSyncer
	pruner      *scheduler.RetentionPruner
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	events := bus.New(loggerClient)
	store := redisstore.NewStore(redisClient, events)
	blocklistIndex := index.NewBlocklistIndex()
	notifier := notify.NewBusNotifier(events, loggerClient)

	trk := tracker.New(store, loggerClient, cfg.Retention, cfg.MinSession, nil)
	eng := timer.New(store, events, notifier, loggerClient, cfg.TimerTick, nil)

	coord := coordinator.New(
		store,
		blocklistIndex,
		trk,
		eng,
		events,
		notifier,
		loggerClient,
		cfg.BlockedPagePath,
		nil,
	)

	// Optional one-shot seeding of an empty store from a YAML file
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, applying",
			logger.String("file", cfg.SeedFile))
		seeder := seedfile.NewSeeder(cfg.SeedFile, store, loggerClient)
		if err := seeder.Apply(context.Background()); err != nil {
			loggerClient.Warn("failed to apply seed file",
				logger.Error(err))
		}
	}

	syncer := scheduler.NewBlocklistSyncer(coord, events, loggerClient)

	pruneTrigger := make(chan struct{}, 1)
	pruner := scheduler.NewRetentionPruner(trk, loggerClient, cfg.PruneInterval, pruneTrigger)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		BlockedPagePath: cfg.BlockedPagePath,
		RedisClient:     redisClient,
		Store:           store,
		Coordinator:     coord,
		Timer:           eng,
		Tracker:         trk,
		Events:          events,
		BlocklistIndex:  blocklistIndex,
		PruneTrigger:    pruneTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		events:      events,
		trk:         trk,
		eng:         eng,
		syncer:      syncer,
		pruner:      pruner,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting tabdeck v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("tabdeck %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sync the blocklist snapshot and keep it fresh
	if err := a.syncer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start blocklist syncer: %w", err)
	}
	a.logger.Info("blocklist syncer started")

	// Resume any persisted countdown before ticking starts
	if err := a.eng.Restore(ctx); err != nil {
		a.logger.Warn("failed to restore persisted timer",
			logger.Error(err))
	}
	if err := a.eng.Start(ctx); err != nil {
		return fmt.Errorf("failed to start timer engine: %w", err)
	}
	a.logger.Info("timer engine started",
		logger.Duration("tick", a.cfg.TimerTick))

	if err := a.trk.Start(ctx); err != nil {
		return fmt.Errorf("failed to start tracker: %w", err)
	}
	a.logger.Info("time tracker started",
		logger.Duration("retention", a.cfg.Retention))

	if err := a.pruner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start retention pruner: %w", err)
	}
	a.logger.Info("retention pruner started",
		logger.Duration("interval", a.cfg.PruneInterval))

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

	a.pruner.Stop()
	a.syncer.Stop()
	a.eng.Stop()

	// Flushes the open dwell session and drains the write queue.
	a.trk.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ tabdeck stopped cleanly")
	return nil
}
