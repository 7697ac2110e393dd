package schema

import (
	"time"
)

// AuthChallenge represents the auth_challenges table
// A single-use nonce message the wallet must sign to prove ownership
type AuthChallenge struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Nonce is the random nonce embedded in the message
	Nonce string `gorm:"column:nonce;not null;uniqueIndex;type:text"`
	// WalletAddress is the address the challenge was issued for, stored lowercase
	WalletAddress string `gorm:"column:wallet_address;not null;index;type:text"`
	// Message is the exact text the wallet is expected to sign
	Message string `gorm:"column:message;not null;type:text"`
	// ExpiresAt is when the challenge stops being acceptable
	ExpiresAt time.Time `gorm:"column:expires_at;not null;type:timestamptz"`
	// ConsumedAt is set the first time the challenge is verified (NULL while unused)
	ConsumedAt *time.Time `gorm:"column:consumed_at;type:timestamptz"`
	// CreatedAt is the timestamp the challenge was issued
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the AuthChallenge model
func (AuthChallenge) TableName() string {
	return "auth_challenges"
}
