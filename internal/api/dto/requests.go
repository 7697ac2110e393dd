package dto

import (
	"fmt"
	"strings"

	"github.com/afriart/marketplace/internal/types"
)

// ChallengeRequest asks for a sign-in challenge for a wallet
type ChallengeRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
}

// VerifyRequest presents a signed challenge
type VerifyRequest struct {
	Nonce     string `json:"nonce" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// RegisterUserRequest creates an account for the wallet proven by the
// registration token
type RegisterUserRequest struct {
	DisplayName     string  `json:"display_name" binding:"required"`
	Bio             *string `json:"bio"`
	AvatarURL       *string `json:"avatar_url"`
	Country         *string `json:"country"`
	HederaAccountID *string `json:"hedera_account_id"`
}

// Validate checks the registration payload beyond binding tags
func (r *RegisterUserRequest) Validate() error {
	name := strings.TrimSpace(r.DisplayName)
	if len(name) < 2 || len(name) > 50 {
		return fmt.Errorf("display_name must be between 2 and 50 characters")
	}
	if r.HederaAccountID != nil && !types.IsHederaAccountID(*r.HederaAccountID) {
		return fmt.Errorf("hedera_account_id must have the 0.0.N shape")
	}
	return nil
}

// UpdateProfileRequest carries the mutable profile fields; nil means unchanged
type UpdateProfileRequest struct {
	DisplayName     *string `json:"display_name"`
	Bio             *string `json:"bio"`
	AvatarURL       *string `json:"avatar_url"`
	Country         *string `json:"country"`
	HederaAccountID *string `json:"hedera_account_id"`
}

// Validate checks the profile payload
func (r *UpdateProfileRequest) Validate() error {
	if r.DisplayName != nil {
		name := strings.TrimSpace(*r.DisplayName)
		if len(name) < 2 || len(name) > 50 {
			return fmt.Errorf("display_name must be between 2 and 50 characters")
		}
	}
	if r.Bio != nil && len(*r.Bio) > 1000 {
		return fmt.Errorf("bio must be at most 1000 characters")
	}
	if r.HederaAccountID != nil && !types.IsHederaAccountID(*r.HederaAccountID) {
		return fmt.Errorf("hedera_account_id must have the 0.0.N shape")
	}
	return nil
}

// ListingUpdateRequest lists, reprices or delists an owned NFT
type ListingUpdateRequest struct {
	Listed       *bool `json:"listed" binding:"required"`
	PriceTinybar int64 `json:"price_tinybar"`
}

// Validate checks the listing payload
func (r *ListingUpdateRequest) Validate() error {
	if r.PriceTinybar < 0 {
		return fmt.Errorf("price_tinybar cannot be negative")
	}
	if r.Listed != nil && *r.Listed && r.PriceTinybar == 0 {
		return fmt.Errorf("a listed piece needs a price")
	}
	return nil
}

// PriceUpdateRequest reprices an owned NFT without changing its listed state
type PriceUpdateRequest struct {
	PriceTinybar int64 `json:"price_tinybar" binding:"required"`
}

// Validate checks the price payload
func (r *PriceUpdateRequest) Validate() error {
	if r.PriceTinybar <= 0 {
		return fmt.Errorf("price_tinybar must be positive")
	}
	return nil
}

// PurchaseRequest buys a listed NFT at the price the buyer saw
type PurchaseRequest struct {
	ExpectedPriceTinybar int64 `json:"expected_price_tinybar" binding:"required"`
}

// VerificationRequest files an artist verification application
type VerificationRequest struct {
	PortfolioURL string `json:"portfolio_url" binding:"required,url"`
	Statement    string `json:"statement" binding:"required"`
}

// Validate checks the verification payload
func (r *VerificationRequest) Validate() error {
	if len(strings.TrimSpace(r.Statement)) < 20 {
		return fmt.Errorf("statement must be at least 20 characters")
	}
	if len(r.Statement) > 2000 {
		return fmt.Errorf("statement must be at most 2000 characters")
	}
	return nil
}

// ReviewNoteRequest carries the optional note attached to a verification
// review; the decision itself comes from the approve/reject route
type ReviewNoteRequest struct {
	Note *string `json:"note"`
}
