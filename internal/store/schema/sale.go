package schema

import (
	"time"
)

// Sale represents the sales table - an immutable record of a completed purchase
type Sale struct {
	// ID is a ULID assigned when the sale is recorded
	ID string `gorm:"column:id;primaryKey;type:text"`
	// NFTID is the foreign key to nfts table
	NFTID int64 `gorm:"column:nft_id;not null;index"`
	// SellerID is the owner at the moment of sale
	SellerID int64 `gorm:"column:seller_id;not null;index"`
	// BuyerID is the purchasing user
	BuyerID int64 `gorm:"column:buyer_id;not null;index"`
	// PriceTinybar is the price paid in tinybar
	PriceTinybar int64 `gorm:"column:price_tinybar;not null"`
	// PlatformFeeTinybar is the fee retained by the platform, in tinybar
	PlatformFeeTinybar int64 `gorm:"column:platform_fee_tinybar;not null"`
	// TransferTxID is the Hedera transaction ID of the atomic transfer
	TransferTxID string `gorm:"column:transfer_tx_id;not null;type:text"`
	// CreatedAt is the timestamp the sale completed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}
