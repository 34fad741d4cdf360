package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"indexapi/internal/api/v1/router"
	"indexapi/internal/cache"
	"indexapi/internal/collector"
	"indexapi/internal/config"
	"indexapi/internal/logger"
	"indexapi/internal/notifier"
	"indexapi/internal/repository"
	"indexapi/internal/scheduler"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	logger := logger.New()

	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// 2. Open DB connection pool
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB connection: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal().Msgf("Failed to ping DB: %v", err)
	}

	// 3. Snapshot cache, shared by the scheduler (writer) and handlers (readers)
	snap := cache.New()

	// 4. Build router
	r := router.New(cfg, pool, snap, logger)

	// 5. Refresh scheduler
	fetchTimeout := time.Duration(cfg.FetchTimeoutSec) * time.Second
	indexFetcher := collector.NewIndexDocumentFetcher(cfg.IndexSourceURL, fetchTimeout)
	quoteFetchers := []collector.QuoteFetcher{
		collector.NewCoinGeckoFetcher(fetchTimeout),
		collector.NewGoldAPIFetcher(fetchTimeout),
		collector.NewYahooFetcher(fetchTimeout),
	}
	var notif scheduler.Notifier
	if cfg.TelegramBotToken != "" {
		notif = notifier.NewTelegramNotifier(cfg.TelegramBotToken, logger)
	}

	schedCtx, cancelSched := context.WithCancel(context.Background())
	defer cancelSched()
	sched := scheduler.New(schedCtx, snap, indexFetcher, quoteFetchers,
		repository.NewSnapshotRepo(pool), repository.NewAlertRepo(pool), notif, logger)
	if err := sched.Register(cfg.BaseRefreshCron, cfg.MarketRefreshCron); err != nil {
		logger.Fatal().Msgf("Failed to register refresh tasks: %v", err)
	}
	// Warm the cache without waiting for the first tick.
	go sched.RunBaseNow()
	sched.Start()

	// 6. Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 7. Start server in a goroutine
	go func() {
		logger.Info().Msgf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s\n", err)
		}
	}()

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	sched.Stop()
	cancelSched()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Msgf("Server forced to shutdown: %v", err)
	}
	logger.Info().Msg("Server shut down gracefully")
}
