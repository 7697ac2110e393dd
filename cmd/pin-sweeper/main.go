package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/afriart/marketplace/internal/adapter"
	"github.com/afriart/marketplace/internal/config"
	"github.com/afriart/marketplace/internal/logger"
	"github.com/afriart/marketplace/internal/providers/pinata"
	"github.com/afriart/marketplace/internal/store"
	"github.com/afriart/marketplace/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSweeperConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "pin-sweeper",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Pin Sweeper")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store and adapters
	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	httpClient := adapter.NewHTTPClient(cfg.PinSweeper.HTTPTimeout)

	// The sweeper only resolves gateway URLs; no pinning credentials needed
	gateway := pinata.NewClient(httpClient, cfg.Pinning.APIURL, cfg.Pinning.JWT, cfg.Pinning.GatewayURL, jsonAdapter)

	// Initialize pin health sweeper
	pinSweeper := sweeper.NewPinHealthSweeper(&sweeper.PinHealthSweeperConfig{
		BatchSize:      cfg.PinSweeper.BatchSize,
		WorkerPoolSize: cfg.PinSweeper.Worker.PoolSize,
		RecheckAfter:   cfg.PinSweeper.RecheckAfter,
	}, dataStore, gateway, httpClient, clock)

	logger.InfoCtx(ctx, "Initialized pin health sweeper",
		zap.Int("batch_size", cfg.PinSweeper.BatchSize),
		zap.Int("worker_pool_size", cfg.PinSweeper.Worker.PoolSize),
		zap.Duration("recheck_after", cfg.PinSweeper.RecheckAfter),
	)

	// Start the sweeper in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := pinSweeper.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, "Sweeper error", zap.Error(err))
	}

	// Cancel context to stop the sweeper
	cancel()

	// Give the sweeper time to shut down gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := pinSweeper.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, "Sweeper stop failed", zap.Error(err))
	}

	logger.InfoCtx(shutdownCtx, "Pin sweeper stopped")
}
