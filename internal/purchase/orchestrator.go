package purchase

import (
	"context"

	"go.uber.org/zap"

	"github.com/afriart/marketplace/internal/adapter"
	"github.com/afriart/marketplace/internal/domain"
	"github.com/afriart/marketplace/internal/logger"
	"github.com/afriart/marketplace/internal/messaging"
	"github.com/afriart/marketplace/internal/providers/hedera"
	"github.com/afriart/marketplace/internal/store"
	"github.com/afriart/marketplace/internal/store/schema"
)

// Store is the subset of database operations purchasing needs
type Store interface {
	PurchaseNFT(ctx context.Context, nftID int64, buyerID int64, expectedPriceTinybar int64, feeBPS int64, transfer store.TransferFunc) (*schema.Sale, error)
}

// Transferrer is the subset of chain operations purchasing needs
type Transferrer interface {
	TransferNFT(ctx context.Context, params hedera.TransferParams) (string, error)
}

// Config holds purchase orchestration settings
type Config struct {
	// PlatformAccountID receives the marketplace fee
	PlatformAccountID string
	// PlatformFeeBPS is the fee in basis points of the sale price
	PlatformFeeBPS int64
}

// Orchestrator coordinates a purchase: the store re-validates the listing
// under a row lock and calls back into the chain transfer, so the database
// records a sale only when the chain transfer settled, and the chain transfer
// only runs against a price the buyer actually saw.
type Orchestrator struct {
	store     Store
	chain     Transferrer
	publisher messaging.Publisher
	clock     adapter.Clock
	cfg       Config
}

// NewOrchestrator creates a purchase orchestrator
func NewOrchestrator(store Store, chain Transferrer, publisher messaging.Publisher, clock adapter.Clock, cfg Config) *Orchestrator {
	return &Orchestrator{
		store:     store,
		chain:     chain,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
	}
}

// Purchase buys an NFT at the price the buyer saw. A concurrent price change
// or sale surfaces as domain.ErrPriceChanged / domain.ErrNFTNotListed.
func (o *Orchestrator) Purchase(ctx context.Context, nftID int64, buyerID int64, expectedPriceTinybar int64) (*schema.Sale, error) {
	sale, err := o.store.PurchaseNFT(ctx, nftID, buyerID, expectedPriceTinybar, o.cfg.PlatformFeeBPS,
		func(ctx context.Context, nft *schema.NFT, seller *schema.User, buyer *schema.User, feeTinybar int64) (string, error) {
			if seller.HederaAccountID == nil || buyer.HederaAccountID == nil {
				return "", domain.ErrMissingHederaAccount
			}

			return o.chain.TransferNFT(ctx, hedera.TransferParams{
				TokenID:           nft.TokenID,
				SerialNumber:      nft.SerialNumber,
				SellerAccountID:   *seller.HederaAccountID,
				BuyerAccountID:    *buyer.HederaAccountID,
				PlatformAccountID: o.cfg.PlatformAccountID,
				PriceTinybar:      nft.PriceTinybar,
				FeeTinybar:        feeTinybar,
			})
		})
	if err != nil {
		return nil, err
	}

	event := &domain.MarketplaceEvent{
		EventType:    domain.EventTypeNFTSold,
		NFTID:        sale.NFTID,
		UserID:       sale.BuyerID,
		PriceTinybar: sale.PriceTinybar,
		TxID:         sale.TransferTxID,
		Timestamp:    o.clock.Now().UTC(),
	}
	if err := o.publisher.PublishEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "failed to publish sale event",
			zap.String("sale_id", sale.ID), zap.Error(err))
	}

	return sale, nil
}
