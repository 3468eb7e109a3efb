// The widget renderer runs as its own process with an independent daily
// wake cycle. It only ever reads the shared slot; nothing here talks to the
// daemon directly.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keiji/reeldaily/internal/config"
	"github.com/keiji/reeldaily/internal/service/cache"
	"github.com/keiji/reeldaily/internal/service/publish"
	"github.com/keiji/reeldaily/internal/service/widget"
	"github.com/keiji/reeldaily/internal/util"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		logger.Error("Failed to reach the shared slot", zap.Error(err))
		os.Exit(1)
	}
	defer cacheSvc.Close()

	renderer := widget.NewRenderer(publish.NewReader(cacheSvc, logger), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	logger.Info("Widget renderer started")

	for {
		entry, refresh := renderer.Timeline(ctx)
		fmt.Print(renderer.RenderCard(entry))

		timer := time.NewTimer(time.Until(refresh))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("Widget renderer stopped")
			return
		case <-timer.C:
		}
	}
}
