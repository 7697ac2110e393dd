package schema

import (
	"time"

	"github.com/afriart/marketplace/internal/domain"
)

// ArtistVerification represents the artist_verifications table
// Tracks requests from buyers asking to be upgraded to the artist role
type ArtistVerification struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`

	// UserID is the foreign key to users table
	UserID int64 `gorm:"column:user_id;not null;index"`

	// PortfolioURL points at the applicant's existing body of work
	PortfolioURL string `gorm:"column:portfolio_url;not null;type:text"`

	// Statement is the applicant's free-form application text
	Statement string `gorm:"column:statement;not null;type:text"`

	// Status is the review status: pending, approved, rejected
	Status domain.VerificationStatus `gorm:"column:status;not null;type:text;default:pending;index"`

	// ReviewedBy is the admin user who closed the request (NULL while pending)
	ReviewedBy *int64 `gorm:"column:reviewed_by"`

	// ReviewNote is the optional note the reviewer left for the applicant
	ReviewNote *string `gorm:"column:review_note;type:text"`

	// Timestamps
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ArtistVerification model
func (ArtistVerification) TableName() string {
	return "artist_verifications"
}
