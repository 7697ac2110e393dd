package mint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/afriart/marketplace/internal/adapter"
	"github.com/afriart/marketplace/internal/domain"
	"github.com/afriart/marketplace/internal/logger"
	"github.com/afriart/marketplace/internal/messaging"
	"github.com/afriart/marketplace/internal/providers/hedera"
	"github.com/afriart/marketplace/internal/providers/pinata"
	"github.com/afriart/marketplace/internal/store/schema"
)

// ErrValidation marks input rejections so handlers can map them to 400s
var ErrValidation = errors.New("invalid mint request")

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"video/mp4":  true,
	"video/webm": true,
}

// Request describes a mint submission after upload handling
type Request struct {
	ArtistID     int64
	Title        string
	Description  string
	Technique    domain.Technique
	Material     string
	PriceTinybar int64
	Listed       bool
	FileName     string
	Content      []byte
	// DurationSeconds is the client-declared runtime for video uploads
	DurationSeconds int
}

// Config holds mint orchestration settings
type Config struct {
	// TokenID is the marketplace collection every piece is minted into
	TokenID string
	// MaxAssetBytes caps the uploaded artwork size
	MaxAssetBytes int64
	// MaxVideoSeconds caps video runtime
	MaxVideoSeconds int
}

// Store is the subset of database operations minting needs
type Store interface {
	CreateNFT(ctx context.Context, nft *schema.NFT) error
}

// Minter is the subset of chain operations minting needs
type Minter interface {
	MintNFT(ctx context.Context, tokenID string, metadata []byte) (*hedera.MintResult, error)
}

// Orchestrator runs the mint pipeline: validate, pin the artwork, pin the
// metadata document, mint the serial on chain, persist, announce.
// Each step runs only after the previous one succeeded; a failure aborts the
// pipeline. Content already pinned when a later step fails stays pinned and
// is left to the pin sweeper's books (unreferenced CIDs are harmless).
type Orchestrator struct {
	store     Store
	pinner    pinata.Client
	chain     Minter
	publisher messaging.Publisher
	clock     adapter.Clock
	json      adapter.JSON
	cfg       Config
}

// NewOrchestrator creates a mint orchestrator
func NewOrchestrator(store Store, pinner pinata.Client, chain Minter, publisher messaging.Publisher, clock adapter.Clock, jsonAdapter adapter.JSON, cfg Config) *Orchestrator {
	return &Orchestrator{
		store:     store,
		pinner:    pinner,
		chain:     chain,
		publisher: publisher,
		clock:     clock,
		json:      jsonAdapter,
		cfg:       cfg,
	}
}

// Mint runs the full pipeline and returns the stored NFT
func (o *Orchestrator) Mint(ctx context.Context, req Request, artist *schema.User) (*schema.NFT, error) {
	// The trimmed title is what gets validated, pinned and stored
	req.Title = strings.TrimSpace(req.Title)

	mime, err := o.validate(req)
	if err != nil {
		return nil, err
	}

	// 1. Pin the artwork file
	assetPin, err := o.pinner.PinFile(ctx, req.FileName, bytes.NewReader(req.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to pin artwork: %w", err)
	}

	// 2. Pin the metadata document referencing the artwork
	metadata := domain.NFTMetadata{
		Name:        req.Title,
		Creator:     artist.DisplayName,
		Description: req.Description,
		Image:       "ipfs://" + assetPin.CID,
		Type:        mime,
		Format:      "HIP412@2.0.0",
		Properties: domain.NFTMetadataProperty{
			Technique: req.Technique,
			Material:  req.Material,
		},
	}
	metadataPin, err := o.pinner.PinJSON(ctx, req.Title+"-metadata", metadata)
	if err != nil {
		logger.WarnCtx(ctx, "metadata pin failed after artwork pin, artwork CID orphaned",
			zap.String("asset_cid", assetPin.CID), zap.Error(err))
		return nil, fmt.Errorf("failed to pin metadata: %w", err)
	}

	// 3. Mint the serial; the on-chain metadata is the ipfs URI of the document
	mintResult, err := o.chain.MintNFT(ctx, o.cfg.TokenID, []byte("ipfs://"+metadataPin.CID))
	if err != nil {
		logger.WarnCtx(ctx, "mint failed after pinning, CIDs orphaned",
			zap.String("asset_cid", assetPin.CID),
			zap.String("metadata_cid", metadataPin.CID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to mint: %w", err)
	}

	// 4. Persist
	metadataJSON, err := o.json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	nft := &schema.NFT{
		TokenID:         o.cfg.TokenID,
		SerialNumber:    mintResult.SerialNumber,
		Title:           req.Title,
		Description:     req.Description,
		Technique:       req.Technique,
		CreatorID:       artist.ID,
		OwnerID:         artist.ID,
		PriceTinybar:    req.PriceTinybar,
		Listed:          req.Listed,
		AssetCID:        assetPin.CID,
		AssetMimeType:   mime,
		MetadataCID:     metadataPin.CID,
		Metadata:        datatypes.JSON(metadataJSON),
		MintTxID:        mintResult.TxID,
		PinHealthStatus: schema.PinStatusUnknown,
	}
	if req.Material != "" {
		nft.Material = &req.Material
	}
	if err := o.store.CreateNFT(ctx, nft); err != nil {
		// The serial exists on chain but not in the database; surface loudly.
		logger.ErrorCtx(ctx, "minted serial could not be persisted",
			zap.String("token_id", o.cfg.TokenID),
			zap.Int64("serial_number", mintResult.SerialNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to persist nft: %w", err)
	}

	// 5. Announce. Delivery failures don't undo the mint.
	event := &domain.MarketplaceEvent{
		EventType:    domain.EventTypeNFTMinted,
		NFTID:        nft.ID,
		TokenID:      nft.TokenID,
		SerialNumber: nft.SerialNumber,
		UserID:       artist.ID,
		PriceTinybar: nft.PriceTinybar,
		TxID:         nft.MintTxID,
		Timestamp:    o.clock.Now().UTC(),
	}
	if err := o.publisher.PublishEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "failed to publish mint event", zap.Error(err))
	}

	return nft, nil
}

// validate enforces the submission rules and returns the sniffed MIME type
func (o *Orchestrator) validate(req Request) (string, error) {
	// Limits are in characters, not bytes; multibyte titles count per rune
	if n := utf8.RuneCountInString(req.Title); n < 3 || n > 100 {
		return "", fmt.Errorf("%w: title must be between 3 and 100 characters", ErrValidation)
	}
	if utf8.RuneCountInString(req.Description) > 2000 {
		return "", fmt.Errorf("%w: description must be at most 2000 characters", ErrValidation)
	}
	if !req.Technique.Valid() {
		return "", fmt.Errorf("%w: unknown technique %q", ErrValidation, req.Technique)
	}
	if req.PriceTinybar < 0 {
		return "", fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.Listed && req.PriceTinybar == 0 {
		return "", fmt.Errorf("%w: a listed piece needs a price", ErrValidation)
	}
	if len(req.Content) == 0 {
		return "", fmt.Errorf("%w: artwork file is empty", ErrValidation)
	}
	if int64(len(req.Content)) > o.cfg.MaxAssetBytes {
		return "", fmt.Errorf("%w: artwork exceeds %d bytes", ErrValidation, o.cfg.MaxAssetBytes)
	}

	// Sniff the content rather than trusting the upload's declared type
	mime := mimetype.Detect(req.Content).String()
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	if !allowedMimeTypes[mime] {
		return "", fmt.Errorf("%w: unsupported content type %s", ErrValidation, mime)
	}

	if strings.HasPrefix(mime, "video/") {
		if req.DurationSeconds <= 0 {
			return "", fmt.Errorf("%w: video uploads must declare a duration", ErrValidation)
		}
		if req.DurationSeconds > o.cfg.MaxVideoSeconds {
			return "", fmt.Errorf("%w: video exceeds %d seconds", ErrValidation, o.cfg.MaxVideoSeconds)
		}
	}

	return mime, nil
}
