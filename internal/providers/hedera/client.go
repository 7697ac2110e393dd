package hedera

import (
	"context"
	"fmt"

	hiero "github.com/hashgraph/hedera-sdk-go/v2"
	"go.uber.org/zap"

	"github.com/afriart/marketplace/internal/logger"
)

// Config holds the Hedera network and operator configuration
type Config struct {
	// Network selects the Hedera network: mainnet, testnet, previewnet
	Network string
	// OperatorAccountID is the marketplace operator account (0.0.x)
	OperatorAccountID string
	// OperatorKey is the operator's private key
	OperatorKey string
}

// CollectionResult holds the outcome of creating an NFT collection
type CollectionResult struct {
	// TokenID is the new collection's token ID (0.0.x)
	TokenID string
	// TxID is the Hedera transaction ID of the creation
	TxID string
}

// MintResult holds the outcome of minting a single NFT serial
type MintResult struct {
	// SerialNumber is the serial assigned within the collection
	SerialNumber int64
	// TxID is the Hedera transaction ID of the mint
	TxID string
}

// TransferParams describes the atomic purchase transfer: the buyer pays the
// seller and the platform fee account, and the NFT moves seller to buyer.
type TransferParams struct {
	TokenID           string
	SerialNumber      int64
	SellerAccountID   string
	BuyerAccountID    string
	PlatformAccountID string
	PriceTinybar      int64
	FeeTinybar        int64
}

// Client defines the interface for Hedera operations to enable mocking
type Client interface {
	// GetBalance returns an account's HBAR balance in tinybar
	GetBalance(ctx context.Context, accountID string) (int64, error)
	// CreateNFTCollection creates a finite non-fungible token class with the
	// operator as treasury and supply key holder
	CreateNFTCollection(ctx context.Context, name, symbol string, maxSupply int64) (*CollectionResult, error)
	// MintNFT mints one serial into the collection with the given metadata bytes
	MintNFT(ctx context.Context, tokenID string, metadata []byte) (*MintResult, error)
	// TransferNFT executes the purchase transfer as a single atomic transaction
	TransferNFT(ctx context.Context, params TransferParams) (string, error)
	// Close releases the underlying network client
	Close() error
}

type hederaClient struct {
	client      *hiero.Client
	operatorID  hiero.AccountID
	operatorKey hiero.PrivateKey
}

// NewClient creates a Hedera client bound to the configured network and operator
func NewClient(cfg Config) (Client, error) {
	var client *hiero.Client
	switch cfg.Network {
	case "mainnet":
		client = hiero.ClientForMainnet()
	case "previewnet":
		client = hiero.ClientForPreviewnet()
	case "testnet", "":
		client = hiero.ClientForTestnet()
	default:
		return nil, fmt.Errorf("unknown hedera network: %s", cfg.Network)
	}

	operatorID, err := hiero.AccountIDFromString(cfg.OperatorAccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid operator account ID: %w", err)
	}
	operatorKey, err := hiero.PrivateKeyFromString(cfg.OperatorKey)
	if err != nil {
		return nil, fmt.Errorf("invalid operator key: %w", err)
	}

	client.SetOperator(operatorID, operatorKey)

	return &hederaClient{
		client:      client,
		operatorID:  operatorID,
		operatorKey: operatorKey,
	}, nil
}

// GetBalance returns an account's HBAR balance in tinybar
func (c *hederaClient) GetBalance(ctx context.Context, accountID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	accID, err := hiero.AccountIDFromString(accountID)
	if err != nil {
		return 0, fmt.Errorf("invalid account ID: %w", err)
	}

	balance, err := hiero.NewAccountBalanceQuery().
		SetAccountID(accID).
		Execute(c.client)
	if err != nil {
		return 0, fmt.Errorf("failed to query balance: %w", err)
	}

	return balance.Hbars.AsTinybar(), nil
}

// CreateNFTCollection creates a finite non-fungible token class
func (c *hederaClient) CreateNFTCollection(ctx context.Context, name, symbol string, maxSupply int64) (*CollectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx, err := hiero.NewTokenCreateTransaction().
		SetTokenName(name).
		SetTokenSymbol(symbol).
		SetTokenType(hiero.TokenTypeNonFungibleUnique).
		SetSupplyType(hiero.TokenSupplyTypeFinite).
		SetMaxSupply(maxSupply).
		SetTreasuryAccountID(c.operatorID).
		SetSupplyKey(c.operatorKey.PublicKey()).
		SetAdminKey(c.operatorKey.PublicKey()).
		FreezeWith(c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to freeze token create: %w", err)
	}

	resp, err := tx.Sign(c.operatorKey).Execute(c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute token create: %w", err)
	}

	receipt, err := resp.GetReceipt(c.client)
	if err != nil {
		return nil, fmt.Errorf("token create not accepted: %w", err)
	}
	if receipt.TokenID == nil {
		return nil, fmt.Errorf("token create receipt missing token ID")
	}

	logger.Info("created NFT collection",
		zap.String("token_id", receipt.TokenID.String()),
		zap.String("tx_id", resp.TransactionID.String()))

	return &CollectionResult{
		TokenID: receipt.TokenID.String(),
		TxID:    resp.TransactionID.String(),
	}, nil
}

// MintNFT mints one serial into the collection with the given metadata bytes.
// The metadata is conventionally an ipfs:// URI pointing at the token's
// metadata document; Hedera caps it at 100 bytes.
func (c *hederaClient) MintNFT(ctx context.Context, tokenID string, metadata []byte) (*MintResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tid, err := hiero.TokenIDFromString(tokenID)
	if err != nil {
		return nil, fmt.Errorf("invalid token ID: %w", err)
	}

	tx, err := hiero.NewTokenMintTransaction().
		SetTokenID(tid).
		SetMetadata(metadata).
		FreezeWith(c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to freeze mint: %w", err)
	}

	resp, err := tx.Sign(c.operatorKey).Execute(c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute mint: %w", err)
	}

	receipt, err := resp.GetReceipt(c.client)
	if err != nil {
		return nil, fmt.Errorf("mint not accepted: %w", err)
	}
	if len(receipt.SerialNumbers) == 0 {
		return nil, fmt.Errorf("mint receipt missing serial numbers")
	}

	return &MintResult{
		SerialNumber: receipt.SerialNumbers[0],
		TxID:         resp.TransactionID.String(),
	}, nil
}

// TransferNFT executes the purchase transfer as a single atomic transaction:
// the buyer is debited the full price, the seller is credited price minus fee,
// the platform account is credited the fee, and the NFT serial moves from
// seller to buyer. Either every leg settles or none does.
func (c *hederaClient) TransferNFT(ctx context.Context, params TransferParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tid, err := hiero.TokenIDFromString(params.TokenID)
	if err != nil {
		return "", fmt.Errorf("invalid token ID: %w", err)
	}
	seller, err := hiero.AccountIDFromString(params.SellerAccountID)
	if err != nil {
		return "", fmt.Errorf("invalid seller account ID: %w", err)
	}
	buyer, err := hiero.AccountIDFromString(params.BuyerAccountID)
	if err != nil {
		return "", fmt.Errorf("invalid buyer account ID: %w", err)
	}
	platform, err := hiero.AccountIDFromString(params.PlatformAccountID)
	if err != nil {
		return "", fmt.Errorf("invalid platform account ID: %w", err)
	}
	if params.FeeTinybar < 0 || params.FeeTinybar > params.PriceTinybar {
		return "", fmt.Errorf("fee %d out of range for price %d", params.FeeTinybar, params.PriceTinybar)
	}

	nftID := hiero.NftID{TokenID: tid, SerialNumber: params.SerialNumber}
	sellerProceeds := params.PriceTinybar - params.FeeTinybar

	tx, err := hiero.NewTransferTransaction().
		AddHbarTransfer(buyer, hiero.HbarFromTinybar(-params.PriceTinybar)).
		AddHbarTransfer(seller, hiero.HbarFromTinybar(sellerProceeds)).
		AddHbarTransfer(platform, hiero.HbarFromTinybar(params.FeeTinybar)).
		AddNftTransfer(nftID, seller, buyer).
		FreezeWith(c.client)
	if err != nil {
		return "", fmt.Errorf("failed to freeze transfer: %w", err)
	}

	resp, err := tx.Sign(c.operatorKey).Execute(c.client)
	if err != nil {
		return "", fmt.Errorf("failed to execute transfer: %w", err)
	}

	if _, err := resp.GetReceipt(c.client); err != nil {
		return "", fmt.Errorf("transfer not accepted: %w", err)
	}

	return resp.TransactionID.String(), nil
}

// Close releases the underlying network client
func (c *hederaClient) Close() error {
	return c.client.Close()
}
