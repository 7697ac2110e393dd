package schema

import (
	"time"
)

// Favorite represents the favorites table - a user bookmarking an NFT
type Favorite struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// UserID is the foreign key to users table
	UserID int64 `gorm:"column:user_id;not null;uniqueIndex:idx_favorites_user_nft,priority:1"`
	// NFTID is the foreign key to nfts table
	NFTID int64 `gorm:"column:nft_id;not null;uniqueIndex:idx_favorites_user_nft,priority:2;index"`
	// CreatedAt is the timestamp the favorite was added
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Favorite model
func (Favorite) TableName() string {
	return "favorites"
}
