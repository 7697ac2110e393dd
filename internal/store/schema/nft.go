package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/afriart/marketplace/internal/domain"
)

// PinStatus represents the pin health status of an NFT's IPFS content
type PinStatus string

const (
	// PinStatusUnknown indicates the pinned content has not been checked yet
	PinStatusUnknown PinStatus = "unknown"
	// PinStatusHealthy indicates the pinned content is reachable through the gateway
	PinStatusHealthy PinStatus = "healthy"
	// PinStatusBroken indicates the pinned content is not reachable
	PinStatusBroken PinStatus = "broken"
)

// String returns the string representation of the pin status
func (s PinStatus) String() string {
	return string(s)
}

// NFT represents the nfts table - one row per minted serial of the marketplace collection
type NFT struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID is the Hedera token ID of the collection (0.0.x)
	TokenID string `gorm:"column:token_id;not null;type:text;uniqueIndex:idx_nfts_token_serial,priority:1"`
	// SerialNumber is the serial within the collection assigned at mint
	SerialNumber int64 `gorm:"column:serial_number;not null;uniqueIndex:idx_nfts_token_serial,priority:2"`
	// Title is the artwork title
	Title string `gorm:"column:title;not null;type:text"`
	// Description is the artwork description
	Description string `gorm:"column:description;not null;type:text"`
	// Technique is the artwork technique (painting, sculpture, beadwork, ...)
	Technique domain.Technique `gorm:"column:technique;not null;type:text;index"`
	// Material is the optional free-form material description
	Material *string `gorm:"column:material;type:text"`
	// CreatorID is the artist who minted the piece
	CreatorID int64 `gorm:"column:creator_id;not null;index"`
	// OwnerID is the current owner, flipped on every sale
	OwnerID int64 `gorm:"column:owner_id;not null;index"`
	// PriceTinybar is the list price in tinybar (1 HBAR = 100,000,000 tinybar)
	PriceTinybar int64 `gorm:"column:price_tinybar;not null;default:0"`
	// Listed indicates whether the piece is currently purchasable
	Listed bool `gorm:"column:listed;not null;default:false;index"`
	// AssetCID is the IPFS CID of the pinned artwork file
	AssetCID string `gorm:"column:asset_cid;not null;type:text"`
	// AssetMimeType is the sniffed MIME type of the artwork file
	AssetMimeType string `gorm:"column:asset_mime_type;not null;type:text"`
	// MetadataCID is the IPFS CID of the pinned metadata JSON
	MetadataCID string `gorm:"column:metadata_cid;not null;type:text"`
	// Metadata is the metadata JSON as pinned, kept for gallery reads
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	// MintTxID is the Hedera transaction ID of the mint
	MintTxID string `gorm:"column:mint_tx_id;not null;type:text"`

	// PinHealthStatus is the health of the pinned content through the gateway
	PinHealthStatus PinStatus `gorm:"column:pin_health_status;not null;type:text;default:unknown"`
	// LastPinCheckAt is the timestamp of the last pin health check (NULL if never checked)
	LastPinCheckAt *time.Time `gorm:"column:last_pin_check_at;type:timestamptz"`
	// LastPinError stores the error from the last failed check (NULL if healthy)
	LastPinError *string `gorm:"column:last_pin_error;type:text"`

	// Timestamps
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Creator *User  `gorm:"foreignKey:CreatorID"`
	Owner   *User  `gorm:"foreignKey:OwnerID"`
	Sales   []Sale `gorm:"foreignKey:NFTID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the NFT model
func (NFT) TableName() string {
	return "nfts"
}
