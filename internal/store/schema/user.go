package schema

import (
	"time"

	"github.com/afriart/marketplace/internal/domain"
)

// User represents the users table - a marketplace account keyed by wallet address
type User struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// WalletAddress is the EVM wallet address that signs in, stored lowercase
	WalletAddress string `gorm:"column:wallet_address;not null;uniqueIndex;type:text"`
	// HederaAccountID is the Hedera account (0.0.x) receiving transfers (nil until linked)
	HederaAccountID *string `gorm:"column:hedera_account_id;type:text"`
	// Role is the marketplace role: buyer, artist, admin
	Role domain.Role `gorm:"column:role;not null;type:text;default:buyer"`
	// DisplayName is the public profile name
	DisplayName string `gorm:"column:display_name;not null;type:text"`
	// Bio is the optional profile biography
	Bio *string `gorm:"column:bio;type:text"`
	// AvatarURL is the optional profile image URL
	AvatarURL *string `gorm:"column:avatar_url;type:text"`
	// Country is the optional self-reported country of the account
	Country *string `gorm:"column:country;type:text"`
	// DeactivatedAt marks a soft-deactivated account; the row is never deleted
	DeactivatedAt *time.Time `gorm:"column:deactivated_at;type:timestamptz"`

	// Timestamps
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Favorites     []Favorite           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Verifications []ArtistVerification `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
