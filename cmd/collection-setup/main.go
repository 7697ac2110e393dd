package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/afriart/marketplace/internal/config"
	"github.com/afriart/marketplace/internal/logger"
	"github.com/afriart/marketplace/internal/providers/hedera"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

// collection-setup is a one-shot tool that creates the marketplace's NFT
// collection on Hedera. Run it once per environment and put the printed token
// id into the API configuration.
func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadCollectionSetupConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "collection-setup",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

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

	logger.InfoCtx(ctx, "Creating NFT collection",
		zap.String("network", cfg.Hedera.Network),
		zap.String("name", cfg.CollectionName),
		zap.String("symbol", cfg.CollectionSym),
		zap.Int64("max_supply", cfg.MaxSupply),
	)

	result, err := chain.CreateNFTCollection(ctx, cfg.CollectionName, cfg.CollectionSym, cfg.MaxSupply)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create collection", zap.Error(err))
	}

	logger.InfoCtx(ctx, "Collection created",
		zap.String("token_id", result.TokenID),
		zap.String("tx_id", result.TxID),
	)

	// Print the token id for easy copy into config
	fmt.Printf("token_id=%s\n", result.TokenID)
	fmt.Printf("tx_id=%s\n", result.TxID)
}
