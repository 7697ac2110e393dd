package domain

import "time"

// Role represents a user's role on the marketplace
type Role string

const (
	// RoleBuyer is the default role for a newly registered user
	RoleBuyer Role = "buyer"
	// RoleArtist is granted after an artist verification is approved
	RoleArtist Role = "artist"
	// RoleAdmin can review artist verifications and read platform stats
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleArtist, RoleAdmin:
		return true
	}
	return false
}

// VerificationStatus represents the state of an artist verification
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
)

// Valid reports whether the status is one of the known states
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationStatusPending, VerificationStatusApproved, VerificationStatusRejected:
		return true
	}
	return false
}

// Technique categorizes an artwork by how it was made
type Technique string

const (
	TechniquePainting    Technique = "painting"
	TechniqueSculpture   Technique = "sculpture"
	TechniqueBeadwork    Technique = "beadwork"
	TechniqueTextile     Technique = "textile"
	TechniquePhotography Technique = "photography"
	TechniqueDigital     Technique = "digital"
	TechniqueMixedMedia  Technique = "mixed_media"
)

// Techniques lists every supported technique value
var Techniques = []Technique{
	TechniquePainting,
	TechniqueSculpture,
	TechniqueBeadwork,
	TechniqueTextile,
	TechniquePhotography,
	TechniqueDigital,
	TechniqueMixedMedia,
}

// Valid reports whether the technique is one of the supported values
func (t Technique) Valid() bool {
	for _, known := range Techniques {
		if t == known {
			return true
		}
	}
	return false
}

// EventType identifies a marketplace event published to the message broker
type EventType string

const (
	EventTypeNFTMinted      EventType = "nft.minted"
	EventTypeNFTSold        EventType = "nft.sold"
	EventTypeArtistApproved EventType = "artist.approved"
)

// MarketplaceEvent is the payload published to NATS for downstream consumers
// (notification services, indexers). Fields are populated per event type.
type MarketplaceEvent struct {
	EventType    EventType `json:"event_type"`
	NFTID        int64     `json:"nft_id,omitempty"`
	TokenID      string    `json:"token_id,omitempty"`
	SerialNumber int64     `json:"serial_number,omitempty"`
	UserID       int64     `json:"user_id,omitempty"`
	PriceTinybar int64     `json:"price_tinybar,omitempty"`
	TxID         string    `json:"tx_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NFTMetadata is the metadata document pinned alongside each artwork.
// The shape follows HIP-412, the Hedera NFT metadata convention, so wallets
// and explorers can render the token.
type NFTMetadata struct {
	Name        string              `json:"name"`
	Creator     string              `json:"creator"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Type        string              `json:"type"`
	Format      string              `json:"format"`
	Properties  NFTMetadataProperty `json:"properties"`
}

// NFTMetadataProperty carries the marketplace-specific attributes
type NFTMetadataProperty struct {
	Technique Technique `json:"technique"`
	Material  string    `json:"material,omitempty"`
}
