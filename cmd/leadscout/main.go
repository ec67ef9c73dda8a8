// cmd/leadscout/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"leadscout/internal/common/config"
	"leadscout/internal/common/database"
	"leadscout/internal/common/logger"
	"leadscout/internal/common/observability"
	"leadscout/internal/leads"
	"leadscout/internal/notify"
	"leadscout/internal/places"
	"leadscout/internal/scraper"
	"leadscout/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting leadscout",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if cfg.Places.APIKey == "" {
		// Not fatal: the endpoint answers every request with a structured
		// configuration error until a key is provided.
		zapLog.Warn("places API key is not configured; all searches will fail")
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	placesClient := places.NewClient(places.Config{
		APIKey:     cfg.Places.APIKey,
		BaseURL:    cfg.Places.BaseURL,
		RegionCode: cfg.Places.RegionCode,
		Language:   cfg.Places.Language,
		MaxResults: cfg.Places.MaxResults,
		Timeout:    config.GetDuration(cfg.Places.Timeout),
	}, log)

	extractor := scraper.NewEmailExtractor(
		config.GetDuration(cfg.Enrichment.ScrapeTimeout),
		cfg.Enrichment.UserAgent,
		log,
	)

	service := leads.NewService(
		placesClient,
		placesClient,
		extractor,
		config.GetDuration(cfg.Enrichment.Delay),
		log,
	)

	if cfg.Cache.Enabled() {
		rdb, err := database.NewRedis(cfg.Cache)
		if err == nil {
			err = rdb.Ping(ctx)
		}
		if err != nil {
			zapLog.Warn("redis unavailable, detail cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			service.WithCache(places.NewDetailCache(rdb, config.GetDuration(cfg.Cache.TTL), log))
			zapLog.Info("detail cache enabled", zap.String("address", cfg.Cache.Address))
		}
	}

	handler := server.NewHandler(cfg, service, log).WithObservability(obs)

	if cfg.Notifications.Enabled {
		notifier, err := notify.New(ctx, cfg.Notifications, log)
		if err != nil {
			zapLog.Warn("notifier init failed, lead digests disabled", zap.Error(err))
		} else {
			handler.WithNotifier(notifier)
			zapLog.Info("lead digest notifications enabled")
		}
	}

	srv := server.New(cfg, handler, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("leadscout stopped gracefully")
}
