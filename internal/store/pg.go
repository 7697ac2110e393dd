package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/afriart/marketplace/internal/domain"
	"github.com/afriart/marketplace/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// CreateUser inserts a new user, returning domain.ErrUserAlreadyExists
// when the wallet address is already registered
func (s *pgStore) CreateUser(ctx context.Context, user *schema.User) error {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet_address"}},
		DoNothing: true,
	}).Create(user)
	if result.Error != nil {
		return fmt.Errorf("failed to create user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserAlreadyExists
	}
	return nil
}

// GetUserByID retrieves a user by internal ID
func (s *pgStore) GetUserByID(ctx context.Context, id int64) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByWalletAddress retrieves a user by lowercase wallet address
func (s *pgStore) GetUserByWalletAddress(ctx context.Context, walletAddress string) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).Where("wallet_address = ?", walletAddress).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !hasDBResolver(s.db) {
		return nil, domain.ErrUserNotFound
	}

	// Replica can lag behind primary; retry on primary before returning not found.
	err = s.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("wallet_address = ?", walletAddress).
		First(&user).Error
	if err == nil {
		return &user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	return nil, fmt.Errorf("failed to get user: %w", err)
}

// UpdateUserProfile applies the non-nil fields of input to the user
func (s *pgStore) UpdateUserProfile(ctx context.Context, id int64, input UpdateUserInput) (*schema.User, error) {
	updates := map[string]interface{}{}
	if input.DisplayName != nil {
		updates["display_name"] = *input.DisplayName
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = *input.AvatarURL
	}
	if input.Country != nil {
		updates["country"] = *input.Country
	}
	if input.HederaAccountID != nil {
		updates["hedera_account_id"] = *input.HederaAccountID
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		result := s.db.WithContext(ctx).
			Model(&schema.User{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, domain.ErrUserNotFound
		}
	}

	return s.GetUserByID(ctx, id)
}

// SetUserRole updates the user's marketplace role
func (s *pgStore) SetUserRole(ctx context.Context, id int64, role domain.Role) error {
	result := s.db.WithContext(ctx).
		Model(&schema.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"role": role, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to set user role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeactivateUser soft-deactivates an account; the row is kept so sales
// history stays intact
func (s *pgStore) DeactivateUser(ctx context.Context, id int64, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&schema.User{}).
		Where("id = ? AND deactivated_at IS NULL", id).
		Updates(map[string]interface{}{"deactivated_at": at, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var user schema.User
		err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to deactivate user: %w", err)
		}
		// Already deactivated; deactivation is idempotent
	}
	return nil
}

// CreateAuthChallenge stores a freshly issued sign-in challenge
func (s *pgStore) CreateAuthChallenge(ctx context.Context, challenge *schema.AuthChallenge) error {
	if err := s.db.WithContext(ctx).Create(challenge).Error; err != nil {
		return fmt.Errorf("failed to create auth challenge: %w", err)
	}
	return nil
}

// GetAuthChallengeByNonce retrieves a challenge by its nonce
func (s *pgStore) GetAuthChallengeByNonce(ctx context.Context, nonce string) (*schema.AuthChallenge, error) {
	var challenge schema.AuthChallenge
	err := s.db.WithContext(ctx).Where("nonce = ?", nonce).First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get auth challenge: %w", err)
	}
	return &challenge, nil
}

// ConsumeAuthChallenge marks a challenge as used. The WHERE consumed_at IS NULL
// guard makes the challenge single-use even under concurrent verification.
func (s *pgStore) ConsumeAuthChallenge(ctx context.Context, nonce string, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&schema.AuthChallenge{}).
		Where("nonce = ? AND consumed_at IS NULL", nonce).
		Update("consumed_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to consume auth challenge: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var challenge schema.AuthChallenge
		err := s.db.WithContext(ctx).Where("nonce = ?", nonce).First(&challenge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrChallengeNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to consume auth challenge: %w", err)
		}
		return domain.ErrChallengeConsumed
	}
	return nil
}

// DeleteExpiredAuthChallenges removes challenges that expired before the cutoff
func (s *pgStore) DeleteExpiredAuthChallenges(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&schema.AuthChallenge{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired auth challenges: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CreateNFT inserts a freshly minted NFT row
func (s *pgStore) CreateNFT(ctx context.Context, nft *schema.NFT) error {
	if err := s.db.WithContext(ctx).Create(nft).Error; err != nil {
		return fmt.Errorf("failed to create nft: %w", err)
	}
	return nil
}

// GetNFTByID retrieves an NFT with its creator and owner preloaded
func (s *pgStore) GetNFTByID(ctx context.Context, id int64) (*schema.NFT, error) {
	var nft schema.NFT
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Owner").
		Where("id = ?", id).
		First(&nft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNFTNotFound
		}
		return nil, fmt.Errorf("failed to get nft: %w", err)
	}
	return &nft, nil
}

func applyNFTFilter(db *gorm.DB, filter NFTFilter) *gorm.DB {
	query := db.Model(&schema.NFT{})
	if filter.Technique != nil {
		query = query.Where("technique = ?", *filter.Technique)
	}
	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.ListedOnly {
		query = query.Where("listed = ?", true)
	}
	if filter.MinPriceTinybar != nil {
		query = query.Where("price_tinybar >= ?", *filter.MinPriceTinybar)
	}
	if filter.MaxPriceTinybar != nil {
		query = query.Where("price_tinybar <= ?", *filter.MaxPriceTinybar)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	return query
}

// ListNFTs returns a filtered gallery page plus the total match count
func (s *pgStore) ListNFTs(ctx context.Context, filter NFTFilter) ([]*schema.NFT, int64, error) {
	var total int64
	if err := applyNFTFilter(s.db.WithContext(ctx), filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count nfts: %w", err)
	}

	var order string
	switch filter.SortBy {
	case "oldest":
		order = "created_at ASC"
	case "price_asc":
		order = "price_tinybar ASC"
	case "price_desc":
		order = "price_tinybar DESC"
	default:
		order = "created_at DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var nfts []*schema.NFT
	err := applyNFTFilter(s.db.WithContext(ctx), filter).
		Preload("Creator").
		Preload("Owner").
		Order(order).
		Limit(limit).
		Offset(filter.Offset).
		Find(&nfts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list nfts: %w", err)
	}

	return nfts, total, nil
}

// UpdateNFTListing lets the current owner list, relist or delist a piece
func (s *pgStore) UpdateNFTListing(ctx context.Context, nftID int64, ownerID int64, update ListingUpdate) (*schema.NFT, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nft schema.NFT
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", nftID).
			First(&nft).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNFTNotFound
			}
			return fmt.Errorf("failed to lock nft: %w", err)
		}
		if nft.OwnerID != ownerID {
			return domain.ErrNFTNotFound
		}

		return tx.Model(&schema.NFT{}).
			Where("id = ?", nftID).
			Updates(map[string]interface{}{
				"listed":        update.Listed,
				"price_tinybar": update.PriceTinybar,
				"updated_at":    time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetNFTByID(ctx, nftID)
}

// UpdateNFTPrice lets the current owner reprice a piece without touching its
// listed state
func (s *pgStore) UpdateNFTPrice(ctx context.Context, nftID int64, ownerID int64, priceTinybar int64) (*schema.NFT, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nft schema.NFT
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", nftID).
			First(&nft).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNFTNotFound
			}
			return fmt.Errorf("failed to lock nft: %w", err)
		}
		if nft.OwnerID != ownerID {
			return domain.ErrNFTNotFound
		}

		return tx.Model(&schema.NFT{}).
			Where("id = ?", nftID).
			Updates(map[string]interface{}{
				"price_tinybar": priceTinybar,
				"updated_at":    time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetNFTByID(ctx, nftID)
}

// PurchaseNFT atomically re-validates the listing under a row lock, runs the
// chain transfer, records the sale and flips ownership. The row lock holds for
// the duration of the chain call so no concurrent purchase or price change can
// interleave; if the chain transfer fails the whole transaction rolls back.
func (s *pgStore) PurchaseNFT(ctx context.Context, nftID int64, buyerID int64, expectedPriceTinybar int64, feeBPS int64, transfer TransferFunc) (*schema.Sale, error) {
	var sale *schema.Sale
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nft schema.NFT
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", nftID).
			First(&nft).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNFTNotFound
			}
			return fmt.Errorf("failed to lock nft: %w", err)
		}

		if !nft.Listed {
			return domain.ErrNFTNotListed
		}
		if nft.OwnerID == buyerID {
			return domain.ErrBuyerIsOwner
		}
		// The price the buyer saw must still be the price on record
		if nft.PriceTinybar != expectedPriceTinybar {
			return domain.ErrPriceChanged
		}

		var seller, buyer schema.User
		if err := tx.Where("id = ?", nft.OwnerID).First(&seller).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("failed to get seller: %w", err)
		}
		if err := tx.Where("id = ?", buyerID).First(&buyer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("failed to get buyer: %w", err)
		}

		feeTinybar := nft.PriceTinybar * feeBPS / 10_000

		txID, err := transfer(ctx, &nft, &seller, &buyer, feeTinybar)
		if err != nil {
			return fmt.Errorf("transfer failed: %w", err)
		}

		sale = &schema.Sale{
			ID:                 ulid.Make().String(),
			NFTID:              nft.ID,
			SellerID:           seller.ID,
			BuyerID:            buyer.ID,
			PriceTinybar:       nft.PriceTinybar,
			PlatformFeeTinybar: feeTinybar,
			TransferTxID:       txID,
		}
		if err := tx.Create(sale).Error; err != nil {
			return fmt.Errorf("failed to record sale: %w", err)
		}

		return tx.Model(&schema.NFT{}).
			Where("id = ?", nft.ID).
			Updates(map[string]interface{}{
				"owner_id":   buyer.ID,
				"listed":     false,
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// UpdateNFTPinHealth records the outcome of a pin health check
func (s *pgStore) UpdateNFTPinHealth(ctx context.Context, nftID int64, status schema.PinStatus, checkedAt time.Time, checkErr *string) error {
	result := s.db.WithContext(ctx).
		Model(&schema.NFT{}).
		Where("id = ?", nftID).
		Updates(map[string]interface{}{
			"pin_health_status": status,
			"last_pin_check_at": checkedAt,
			"last_pin_error":    checkErr,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update pin health: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNFTNotFound
	}
	return nil
}

// ListNFTsForPinCheck returns NFTs whose pin health is stale or unchecked
func (s *pgStore) ListNFTsForPinCheck(ctx context.Context, staleBefore time.Time, limit int) ([]*schema.NFT, error) {
	if limit <= 0 {
		limit = 100
	}
	var nfts []*schema.NFT
	err := s.db.WithContext(ctx).
		Where("last_pin_check_at IS NULL OR last_pin_check_at < ?", staleBefore).
		Order("last_pin_check_at ASC NULLS FIRST").
		Limit(limit).
		Find(&nfts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list nfts for pin check: %w", err)
	}
	return nfts, nil
}

// GetSaleByID retrieves a sale record by its ULID
func (s *pgStore) GetSaleByID(ctx context.Context, id string) (*schema.Sale, error) {
	var sale schema.Sale
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sale).Error
	if err == nil {
		return &sale, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if !hasDBResolver(s.db) {
		return nil, fmt.Errorf("sale not found: %s", id)
	}

	// Replica can lag behind primary; retry on primary before returning not found.
	err = s.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("id = ?", id).
		First(&sale).Error
	if err == nil {
		return &sale, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("sale not found: %s", id)
	}
	return nil, fmt.Errorf("failed to get sale: %w", err)
}

// ListSalesByUser returns sales where the user was buyer or seller, newest first
func (s *pgStore) ListSalesByUser(ctx context.Context, userID int64, limit, offset int) ([]*schema.Sale, error) {
	if limit <= 0 {
		limit = 20
	}
	var sales []*schema.Sale
	err := s.db.WithContext(ctx).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

// AddFavorite bookmarks an NFT for a user (idempotent)
func (s *pgStore) AddFavorite(ctx context.Context, userID, nftID int64) error {
	favorite := schema.Favorite{
		UserID: userID,
		NFTID:  nftID,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "nft_id"}},
		DoNothing: true,
	}).Create(&favorite).Error
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes a bookmark
func (s *pgStore) RemoveFavorite(ctx context.Context, userID, nftID int64) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND nft_id = ?", userID, nftID).
		Delete(&schema.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// ListFavoriteNFTs returns the NFTs a user has bookmarked, newest bookmark first
func (s *pgStore) ListFavoriteNFTs(ctx context.Context, userID int64, limit, offset int) ([]*schema.NFT, error) {
	if limit <= 0 {
		limit = 20
	}
	var nfts []*schema.NFT
	err := s.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.nft_id = nfts.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Limit(limit).
		Offset(offset).
		Preload("Creator").
		Preload("Owner").
		Find(&nfts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite nfts: %w", err)
	}
	return nfts, nil
}

// CreateArtistVerification files a new request, returning
// domain.ErrVerificationExists when the user already has a pending one
func (s *pgStore) CreateArtistVerification(ctx context.Context, verification *schema.ArtistVerification) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&schema.ArtistVerification{}).
			Where("user_id = ? AND status = ?", verification.UserID, domain.VerificationStatusPending).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check pending verifications: %w", err)
		}
		if count > 0 {
			return domain.ErrVerificationExists
		}

		if err := tx.Create(verification).Error; err != nil {
			return fmt.Errorf("failed to create verification: %w", err)
		}
		return nil
	})
}

// GetArtistVerificationByID retrieves a verification request
func (s *pgStore) GetArtistVerificationByID(ctx context.Context, id int64) (*schema.ArtistVerification, error) {
	var verification schema.ArtistVerification
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVerificationNotFound
		}
		return nil, fmt.Errorf("failed to get verification: %w", err)
	}
	return &verification, nil
}

// ListArtistVerifications returns requests filtered by status (nil for all)
func (s *pgStore) ListArtistVerifications(ctx context.Context, status *domain.VerificationStatus, limit, offset int) ([]*schema.ArtistVerification, error) {
	if limit <= 0 {
		limit = 20
	}
	query := s.db.WithContext(ctx).Model(&schema.ArtistVerification{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var verifications []*schema.ArtistVerification
	err := query.
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&verifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list verifications: %w", err)
	}
	return verifications, nil
}

// ReviewArtistVerification closes a pending request and, on approval, promotes
// the applicant to the artist role in the same transaction
func (s *pgStore) ReviewArtistVerification(ctx context.Context, id int64, reviewerID int64, status domain.VerificationStatus, note *string) (*schema.ArtistVerification, error) {
	if status != domain.VerificationStatusApproved && status != domain.VerificationStatusRejected {
		return nil, fmt.Errorf("invalid review status: %s", status)
	}

	var verification schema.ArtistVerification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&verification).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrVerificationNotFound
			}
			return fmt.Errorf("failed to lock verification: %w", err)
		}
		if verification.Status != domain.VerificationStatusPending {
			return domain.ErrVerificationClosed
		}

		updates := map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"review_note": note,
			"updated_at":  time.Now(),
		}
		if err := tx.Model(&schema.ArtistVerification{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update verification: %w", err)
		}

		if status == domain.VerificationStatusApproved {
			if err := tx.Model(&schema.User{}).
				Where("id = ?", verification.UserID).
				Updates(map[string]interface{}{
					"role":       domain.RoleArtist,
					"updated_at": time.Now(),
				}).Error; err != nil {
				return fmt.Errorf("failed to promote user: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetArtistVerificationByID(ctx, id)
}

// GetPlatformStats returns marketplace-wide counts and total sales volume
func (s *pgStore) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&schema.User{}).Count(&stats.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&schema.NFT{}).Count(&stats.NFTs).Error; err != nil {
		return nil, fmt.Errorf("failed to count nfts: %w", err)
	}
	if err := db.Model(&schema.Sale{}).Count(&stats.Sales).Error; err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}
	err := db.Model(&schema.Sale{}).
		Select("COALESCE(SUM(price_tinybar), 0)").
		Scan(&stats.VolumeTinybar).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum sales volume: %w", err)
	}

	return &stats, nil
}
