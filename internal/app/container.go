package app

import (
	"context"
	"fmt"

	"github.com/keiji/reeldaily/internal/config"
	"github.com/keiji/reeldaily/internal/constants"
	"github.com/keiji/reeldaily/internal/domain"
	"github.com/keiji/reeldaily/internal/server"
	"github.com/keiji/reeldaily/internal/service/cache"
	"github.com/keiji/reeldaily/internal/service/catalog"
	"github.com/keiji/reeldaily/internal/service/notify"
	"github.com/keiji/reeldaily/internal/service/publish"
	"github.com/keiji/reeldaily/internal/service/recommend"
	"github.com/keiji/reeldaily/internal/service/selection"
	"go.uber.org/zap"
)

// Container bundles the assembled services of the daemon process. All
// heavy-weight initialization (store/cache connections) happens in Build so
// Run stays focused on the session lifecycle.
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Cache     *cache.CacheService
	Store     catalog.Store
	Selection *selection.Service
	Engine    *recommend.Engine
	Scheduler *notify.Scheduler
	Server    *server.Server
	Hub       *server.Hub

	closers []func()
}

func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	var store catalog.Store
	switch cfg.Catalog.Backend {
	case config.CatalogBackendPostgres:
		pgStore, pgErr := catalog.NewPostgresStore(catalog.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
		if pgErr != nil {
			return nil, fmt.Errorf("failed to create postgres catalog store: %w", pgErr)
		}
		closers = append(closers, func() {
			_ = pgStore.Close()
		})
		store = pgStore
	default:
		store = catalog.NewHTTPStore(cfg.Catalog.BaseURL, logger)
	}

	selectionSvc := selection.NewService(store, cfg.User.ID, logger)
	publisher := publish.NewPublisher(cacheSvc, logger)
	engine := recommend.NewEngine(selectionSvc, publisher, cacheSvc, logger)

	deliverer := notify.NewChannelDeliverer(cacheSvc, logger)
	permission := func(ctx context.Context) (bool, error) {
		return cfg.Notification.Granted, nil
	}
	scheduler := notify.NewScheduler(permission, deliverer, func(ctx context.Context) *domain.Film {
		return engine.PickToday(ctx)
	}, logger)

	// Onboarding completion triggers today's pick, then the daily alert
	// registration.
	selectionSvc.OnComplete(func(ctx context.Context) {
		engine.PickToday(ctx)
	})
	selectionSvc.OnComplete(func(ctx context.Context) {
		if regErr := scheduler.Register(ctx); regErr != nil {
			logger.Warn("Daily alert registration failed", zap.Error(regErr))
		}
	})

	hub := server.NewHub(func(ctx context.Context) <-chan string {
		return cacheSvc.SubscribeChannel(ctx, constants.Channels.WidgetReload)
	}, logger)

	srv := server.NewServer(cfg.Server.Addr, selectionSvc, engine, hub, logger)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Cache:     cacheSvc,
		Store:     store,
		Selection: selectionSvc,
		Engine:    engine,
		Scheduler: scheduler,
		Server:    srv,
		Hub:       hub,
		closers:   closers,
	}, nil
}

// Run performs the session startup sequence and serves until the server
// stops: load the catalog, restore any persisted selection, and when a
// previous session already completed onboarding, re-register the daily
// trigger and ensure today's pick exists.
func (c *Container) Run(ctx context.Context) error {
	if err := c.Selection.LoadCatalog(ctx); err != nil {
		c.Logger.Warn("Starting with empty catalog", zap.Error(err))
	}

	c.Selection.RestoreSelection(ctx)

	if c.Selection.Completed() {
		if err := c.Scheduler.Register(ctx); err != nil {
			c.Logger.Warn("Daily alert registration failed", zap.Error(err))
		}
		c.Engine.PickToday(ctx)
	}

	go c.Hub.Run(ctx)

	return c.Server.Start()
}

func (c *Container) Shutdown(ctx context.Context) error {
	err := c.Server.Shutdown(ctx)

	c.Scheduler.Stop()
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}

	return err
}
