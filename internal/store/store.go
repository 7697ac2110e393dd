package store

import (
	"context"
	"time"

	"github.com/afriart/marketplace/internal/domain"
	"github.com/afriart/marketplace/internal/store/schema"
)

// TransferFunc executes the on-chain leg of a purchase while the NFT row is
// locked. It returns the chain transaction ID of the completed transfer.
type TransferFunc func(ctx context.Context, nft *schema.NFT, seller *schema.User, buyer *schema.User, feeTinybar int64) (string, error)

// UpdateUserInput holds the mutable profile fields. Nil fields are left unchanged.
type UpdateUserInput struct {
	DisplayName     *string
	Bio             *string
	AvatarURL       *string
	Country         *string
	HederaAccountID *string
}

// ListingUpdate holds the listing state an owner wants to apply to an NFT
type ListingUpdate struct {
	Listed       bool
	PriceTinybar int64
}

// PlatformStats is the admin dashboard snapshot of marketplace activity
type PlatformStats struct {
	Users         int64
	NFTs          int64
	Sales         int64
	VolumeTinybar int64
}

// NFTFilter holds the gallery query parameters
type NFTFilter struct {
	Technique       *domain.Technique
	CreatorID       *int64
	OwnerID         *int64
	ListedOnly      bool
	MinPriceTinybar *int64
	MaxPriceTinybar *int64
	// Search matches against title and description, case-insensitively
	Search string
	// SortBy is one of: newest, oldest, price_asc, price_desc
	SortBy string
	Limit  int
	Offset int
}

// Store defines the interface for database operations
type Store interface {
	// Users

	// CreateUser inserts a new user, returning domain.ErrUserAlreadyExists
	// when the wallet address is already registered
	CreateUser(ctx context.Context, user *schema.User) error
	// GetUserByID retrieves a user by internal ID
	GetUserByID(ctx context.Context, id int64) (*schema.User, error)
	// GetUserByWalletAddress retrieves a user by lowercase wallet address
	GetUserByWalletAddress(ctx context.Context, walletAddress string) (*schema.User, error)
	// UpdateUserProfile applies the non-nil fields of input to the user
	UpdateUserProfile(ctx context.Context, id int64, input UpdateUserInput) (*schema.User, error)
	// SetUserRole updates the user's marketplace role
	SetUserRole(ctx context.Context, id int64, role domain.Role) error
	// DeactivateUser soft-deactivates an account; the row is kept so sales
	// history stays intact
	DeactivateUser(ctx context.Context, id int64, at time.Time) error

	// Auth challenges

	// CreateAuthChallenge stores a freshly issued sign-in challenge
	CreateAuthChallenge(ctx context.Context, challenge *schema.AuthChallenge) error
	// GetAuthChallengeByNonce retrieves a challenge by its nonce
	GetAuthChallengeByNonce(ctx context.Context, nonce string) (*schema.AuthChallenge, error)
	// ConsumeAuthChallenge marks a challenge as used. It returns
	// domain.ErrChallengeConsumed when the challenge was already used.
	ConsumeAuthChallenge(ctx context.Context, nonce string, at time.Time) error
	// DeleteExpiredAuthChallenges removes challenges that expired before the cutoff
	DeleteExpiredAuthChallenges(ctx context.Context, before time.Time) (int64, error)

	// NFTs

	// CreateNFT inserts a freshly minted NFT row
	CreateNFT(ctx context.Context, nft *schema.NFT) error
	// GetNFTByID retrieves an NFT with its creator and owner preloaded
	GetNFTByID(ctx context.Context, id int64) (*schema.NFT, error)
	// ListNFTs returns a filtered gallery page plus the total match count
	ListNFTs(ctx context.Context, filter NFTFilter) ([]*schema.NFT, int64, error)
	// UpdateNFTListing lets the current owner list, relist or delist a piece
	UpdateNFTListing(ctx context.Context, nftID int64, ownerID int64, update ListingUpdate) (*schema.NFT, error)
	// UpdateNFTPrice lets the current owner reprice a piece without touching
	// its listed state
	UpdateNFTPrice(ctx context.Context, nftID int64, ownerID int64, priceTinybar int64) (*schema.NFT, error)
	// PurchaseNFT atomically re-validates the listing under a row lock, runs
	// the chain transfer, records the sale and flips ownership.
	PurchaseNFT(ctx context.Context, nftID int64, buyerID int64, expectedPriceTinybar int64, feeBPS int64, transfer TransferFunc) (*schema.Sale, error)
	// UpdateNFTPinHealth records the outcome of a pin health check
	UpdateNFTPinHealth(ctx context.Context, nftID int64, status schema.PinStatus, checkedAt time.Time, checkErr *string) error
	// ListNFTsForPinCheck returns NFTs whose pin health is stale or unchecked
	ListNFTsForPinCheck(ctx context.Context, staleBefore time.Time, limit int) ([]*schema.NFT, error)

	// Sales

	// GetSaleByID retrieves a sale record by its ULID
	GetSaleByID(ctx context.Context, id string) (*schema.Sale, error)
	// ListSalesByUser returns sales where the user was buyer or seller, newest first
	ListSalesByUser(ctx context.Context, userID int64, limit, offset int) ([]*schema.Sale, error)

	// Favorites

	// AddFavorite bookmarks an NFT for a user (idempotent)
	AddFavorite(ctx context.Context, userID, nftID int64) error
	// RemoveFavorite removes a bookmark
	RemoveFavorite(ctx context.Context, userID, nftID int64) error
	// ListFavoriteNFTs returns the NFTs a user has bookmarked, newest bookmark first
	ListFavoriteNFTs(ctx context.Context, userID int64, limit, offset int) ([]*schema.NFT, error)

	// Artist verifications

	// CreateArtistVerification files a new request, returning
	// domain.ErrVerificationExists when the user already has a pending one
	CreateArtistVerification(ctx context.Context, verification *schema.ArtistVerification) error
	// GetArtistVerificationByID retrieves a verification request
	GetArtistVerificationByID(ctx context.Context, id int64) (*schema.ArtistVerification, error)
	// ListArtistVerifications returns requests filtered by status (nil for all)
	ListArtistVerifications(ctx context.Context, status *domain.VerificationStatus, limit, offset int) ([]*schema.ArtistVerification, error)
	// ReviewArtistVerification closes a pending request and, on approval,
	// promotes the applicant to the artist role in the same transaction
	ReviewArtistVerification(ctx context.Context, id int64, reviewerID int64, status domain.VerificationStatus, note *string) (*schema.ArtistVerification, error)

	// Admin

	// GetPlatformStats returns marketplace-wide counts and total sales volume
	GetPlatformStats(ctx context.Context) (*PlatformStats, error)
}
