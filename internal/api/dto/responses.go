package dto

import (
	"time"

	"github.com/afriart/marketplace/internal/domain"
	"github.com/afriart/marketplace/internal/store"
	"github.com/afriart/marketplace/internal/store/schema"
)

// GatewayURLFunc turns a CID into a fetchable gateway URL
type GatewayURLFunc func(cid string) string

// ChallengeResponse returns a challenge for the wallet to sign
type ChallengeResponse struct {
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ChallengeResponseFrom maps a stored challenge
func ChallengeResponseFrom(challenge *schema.AuthChallenge) ChallengeResponse {
	return ChallengeResponse{
		Nonce:     challenge.Nonce,
		Message:   challenge.Message,
		ExpiresAt: challenge.ExpiresAt,
	}
}

// TokenResponse returns a JWT after challenge verification or registration
type TokenResponse struct {
	Token                string        `json:"token"`
	ExpiresAt            time.Time     `json:"expires_at"`
	RegistrationRequired bool          `json:"registration_required"`
	User                 *UserResponse `json:"user,omitempty"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID              int64       `json:"id"`
	WalletAddress   string      `json:"wallet_address"`
	HederaAccountID *string     `json:"hedera_account_id,omitempty"`
	Role            domain.Role `json:"role"`
	DisplayName     string      `json:"display_name"`
	Bio             *string     `json:"bio,omitempty"`
	AvatarURL       *string     `json:"avatar_url,omitempty"`
	Country         *string     `json:"country,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// UserResponseFrom maps a stored user
func UserResponseFrom(user *schema.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:              user.ID,
		WalletAddress:   user.WalletAddress,
		HederaAccountID: user.HederaAccountID,
		Role:            user.Role,
		DisplayName:     user.DisplayName,
		Bio:             user.Bio,
		AvatarURL:       user.AvatarURL,
		Country:         user.Country,
		CreatedAt:       user.CreatedAt,
	}
}

// NFTResponse is the public view of an NFT
type NFTResponse struct {
	ID            int64            `json:"id"`
	TokenID       string           `json:"token_id"`
	SerialNumber  int64            `json:"serial_number"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Technique     domain.Technique `json:"technique"`
	Material      *string          `json:"material,omitempty"`
	PriceTinybar  int64            `json:"price_tinybar"`
	Listed        bool             `json:"listed"`
	AssetCID      string           `json:"asset_cid"`
	AssetURL      string           `json:"asset_url"`
	AssetMimeType string           `json:"asset_mime_type"`
	MetadataCID   string           `json:"metadata_cid"`
	MetadataURL   string           `json:"metadata_url"`
	MintTxID      string           `json:"mint_tx_id"`
	PinHealth     string           `json:"pin_health"`
	Creator       *UserResponse    `json:"creator,omitempty"`
	Owner         *UserResponse    `json:"owner,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NFTResponseFrom maps a stored NFT, resolving CIDs to gateway URLs
func NFTResponseFrom(nft *schema.NFT, gateway GatewayURLFunc) NFTResponse {
	return NFTResponse{
		ID:            nft.ID,
		TokenID:       nft.TokenID,
		SerialNumber:  nft.SerialNumber,
		Title:         nft.Title,
		Description:   nft.Description,
		Technique:     nft.Technique,
		Material:      nft.Material,
		PriceTinybar:  nft.PriceTinybar,
		Listed:        nft.Listed,
		AssetCID:      nft.AssetCID,
		AssetURL:      gateway(nft.AssetCID),
		AssetMimeType: nft.AssetMimeType,
		MetadataCID:   nft.MetadataCID,
		MetadataURL:   gateway(nft.MetadataCID),
		MintTxID:      nft.MintTxID,
		PinHealth:     nft.PinHealthStatus.String(),
		Creator:       UserResponseFrom(nft.Creator),
		Owner:         UserResponseFrom(nft.Owner),
		CreatedAt:     nft.CreatedAt,
	}
}

// NFTListResponse is a gallery page
type NFTListResponse struct {
	Items  []NFTResponse `json:"items"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// NFTListResponseFrom maps a gallery page
func NFTListResponseFrom(nfts []*schema.NFT, total int64, limit, offset int, gateway GatewayURLFunc) NFTListResponse {
	items := make([]NFTResponse, 0, len(nfts))
	for _, nft := range nfts {
		items = append(items, NFTResponseFrom(nft, gateway))
	}
	return NFTListResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}

// SaleResponse is the record of a completed purchase
type SaleResponse struct {
	ID                 string    `json:"id"`
	NFTID              int64     `json:"nft_id"`
	SellerID           int64     `json:"seller_id"`
	BuyerID            int64     `json:"buyer_id"`
	PriceTinybar       int64     `json:"price_tinybar"`
	PlatformFeeTinybar int64     `json:"platform_fee_tinybar"`
	TransferTxID       string    `json:"transfer_tx_id"`
	CreatedAt          time.Time `json:"created_at"`
}

// SaleResponseFrom maps a stored sale
func SaleResponseFrom(sale *schema.Sale) SaleResponse {
	return SaleResponse{
		ID:                 sale.ID,
		NFTID:              sale.NFTID,
		SellerID:           sale.SellerID,
		BuyerID:            sale.BuyerID,
		PriceTinybar:       sale.PriceTinybar,
		PlatformFeeTinybar: sale.PlatformFeeTinybar,
		TransferTxID:       sale.TransferTxID,
		CreatedAt:          sale.CreatedAt,
	}
}

// SaleListResponse is a page of sales
type SaleListResponse struct {
	Items  []SaleResponse `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// VerificationResponse is the state of an artist verification request
type VerificationResponse struct {
	ID           int64                     `json:"id"`
	UserID       int64                     `json:"user_id"`
	PortfolioURL string                    `json:"portfolio_url"`
	Statement    string                    `json:"statement"`
	Status       domain.VerificationStatus `json:"status"`
	ReviewedBy   *int64                    `json:"reviewed_by,omitempty"`
	ReviewNote   *string                   `json:"review_note,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// VerificationResponseFrom maps a stored verification
func VerificationResponseFrom(verification *schema.ArtistVerification) VerificationResponse {
	return VerificationResponse{
		ID:           verification.ID,
		UserID:       verification.UserID,
		PortfolioURL: verification.PortfolioURL,
		Statement:    verification.Statement,
		Status:       verification.Status,
		ReviewedBy:   verification.ReviewedBy,
		ReviewNote:   verification.ReviewNote,
		CreatedAt:    verification.CreatedAt,
		UpdatedAt:    verification.UpdatedAt,
	}
}

// BalanceResponse is the operator-queried balance of a Hedera account
type BalanceResponse struct {
	AccountID      string `json:"account_id"`
	BalanceTinybar int64  `json:"balance_tinybar"`
}

// StatsResponse is the admin dashboard snapshot of marketplace activity
type StatsResponse struct {
	Users         int64 `json:"users"`
	NFTs          int64 `json:"nfts"`
	Sales         int64 `json:"sales"`
	VolumeTinybar int64 `json:"volume_tinybar"`
}

// StatsResponseFrom maps the stored platform stats
func StatsResponseFrom(stats *store.PlatformStats) StatsResponse {
	return StatsResponse{
		Users:         stats.Users,
		NFTs:          stats.NFTs,
		Sales:         stats.Sales,
		VolumeTinybar: stats.VolumeTinybar,
	}
}
