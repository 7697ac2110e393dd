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
	"github.com/afriart/marketplace/internal/api/server"
	"github.com/afriart/marketplace/internal/auth"
	"github.com/afriart/marketplace/internal/config"
	"github.com/afriart/marketplace/internal/logger"
	"github.com/afriart/marketplace/internal/mint"
	"github.com/afriart/marketplace/internal/providers/hedera"
	"github.com/afriart/marketplace/internal/providers/jetstream"
	"github.com/afriart/marketplace/internal/providers/pinata"
	"github.com/afriart/marketplace/internal/purchase"
	"github.com/afriart/marketplace/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
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
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting AfriArt Marketplace API")

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
	httpClient := adapter.NewHTTPClient(cfg.Pinning.HTTPTimeout)

	// Connect to Hedera
	chain, err := hedera.NewClient(hedera.Config{
		Network:           cfg.Hedera.Network,
		OperatorAccountID: cfg.Hedera.OperatorAccountID,
		OperatorKey:       cfg.Hedera.OperatorKey,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create Hedera client", zap.Error(err))
	}
	defer func() {
		if err := chain.Close(); err != nil {
			logger.Warn("failed to close Hedera client", zap.Error(err))
		}
	}()
	logger.InfoCtx(ctx, "Connected to Hedera", zap.String("network", cfg.Hedera.Network))

	// Connect to NATS JetStream
	publisher, err := jetstream.NewPublisher(jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
	}, adapter.NewNatsJetStream(), jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()
	logger.InfoCtx(ctx, "Connected to NATS", zap.String("stream", cfg.NATS.StreamName))

	// Initialize pinning client
	pinner := pinata.NewClient(httpClient, cfg.Pinning.APIURL, cfg.Pinning.JWT, cfg.Pinning.GatewayURL, jsonAdapter)

	// Initialize services
	authService := auth.NewService(dataStore, clock, auth.Config{
		JWTSecret:       cfg.Auth.JWTSecret,
		SessionTTL:      cfg.Auth.SessionTTL,
		RegistrationTTL: cfg.Auth.RegistrationTTL,
		ChallengeTTL:    cfg.Auth.ChallengeTTL,
		ChallengeDomain: cfg.Auth.ChallengeDomain,
	})
	minter := mint.NewOrchestrator(dataStore, pinner, chain, publisher, clock, jsonAdapter, mint.Config{
		TokenID:         cfg.Hedera.NFTTokenID,
		MaxAssetBytes:   cfg.Pinning.MaxAssetBytes,
		MaxVideoSeconds: cfg.Pinning.MaxVideoSeconds,
	})
	purchaser := purchase.NewOrchestrator(dataStore, chain, publisher, clock, purchase.Config{
		PlatformAccountID: cfg.Hedera.PlatformAccountID,
		PlatformFeeBPS:    cfg.Hedera.PlatformFeeBPS,
	})

	// Create and start server
	srv := server.New(server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, dataStore, authService, minter, purchaser, chain, pinner, publisher, clock)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, "Server error", zap.Error(err))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
