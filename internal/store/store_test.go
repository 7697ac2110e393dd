package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/afriart/marketplace/internal/domain"
	"github.com/afriart/marketplace/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

var testWalletSeq int

// buildTestUser creates a test user with a unique wallet address
func buildTestUser(role domain.Role) *schema.User {
	testWalletSeq++
	hederaID := fmt.Sprintf("0.0.%d", 1000+testWalletSeq)
	return &schema.User{
		WalletAddress:   fmt.Sprintf("0x%040d", testWalletSeq),
		HederaAccountID: &hederaID,
		Role:            role,
		DisplayName:     fmt.Sprintf("user-%d", testWalletSeq),
	}
}

// buildTestNFT creates a test NFT owned and created by the given users
func buildTestNFT(creatorID, ownerID int64, serial int64, priceTinybar int64, listed bool) *schema.NFT {
	return &schema.NFT{
		TokenID:         "0.0.5005",
		SerialNumber:    serial,
		Title:           fmt.Sprintf("Sunset Over Lagos #%d", serial),
		Description:     "Acrylic on canvas",
		Technique:       domain.TechniquePainting,
		CreatorID:       creatorID,
		OwnerID:         ownerID,
		PriceTinybar:    priceTinybar,
		Listed:          listed,
		AssetCID:        fmt.Sprintf("QmAsset%d", serial),
		AssetMimeType:   "image/jpeg",
		MetadataCID:     fmt.Sprintf("QmMeta%d", serial),
		Metadata:        datatypes.JSON([]byte(`{"name":"Sunset Over Lagos"}`)),
		MintTxID:        fmt.Sprintf("0.0.1234@1700000000.%d", serial),
		PinHealthStatus: schema.PinStatusUnknown,
	}
}

// buildTestChallenge creates a test auth challenge
func buildTestChallenge(nonce, wallet string, ttl time.Duration) *schema.AuthChallenge {
	return &schema.AuthChallenge{
		Nonce:         nonce,
		WalletAddress: wallet,
		Message:       fmt.Sprintf("afriart.io wants you to sign in\nNonce: %s", nonce),
		ExpiresAt:     time.Now().Add(ttl),
	}
}

// RunStoreTests runs the full store test suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, initDB(t)) })
	t.Run("AuthChallenges", func(t *testing.T) { testAuthChallenges(t, initDB(t)) })
	t.Run("NFTs", func(t *testing.T) { testNFTs(t, initDB(t)) })
	t.Run("Listing", func(t *testing.T) { testListing(t, initDB(t)) })
	t.Run("Purchase", func(t *testing.T) { testPurchase(t, initDB(t)) })
	t.Run("PinHealth", func(t *testing.T) { testPinHealth(t, initDB(t)) })
	t.Run("Favorites", func(t *testing.T) { testFavorites(t, initDB(t)) })
	t.Run("Verifications", func(t *testing.T) { testVerifications(t, initDB(t)) })
	t.Run("PlatformStats", func(t *testing.T) { testPlatformStats(t, initDB(t)) })
}

// =============================================================================
// Test: Users
// =============================================================================

func testUsers(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and fetch by wallet", func(t *testing.T) {
		user := buildTestUser(domain.RoleBuyer)
		require.NoError(t, store.CreateUser(ctx, user))
		require.NotZero(t, user.ID)

		got, err := store.GetUserByWalletAddress(ctx, user.WalletAddress)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, domain.RoleBuyer, got.Role)
	})

	t.Run("duplicate wallet is rejected", func(t *testing.T) {
		user := buildTestUser(domain.RoleBuyer)
		require.NoError(t, store.CreateUser(ctx, user))

		dup := &schema.User{
			WalletAddress: user.WalletAddress,
			Role:          domain.RoleBuyer,
			DisplayName:   "other",
		}
		err := store.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("unknown wallet returns not found", func(t *testing.T) {
		_, err := store.GetUserByWalletAddress(ctx, "0xdead")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("partial profile update", func(t *testing.T) {
		user := buildTestUser(domain.RoleBuyer)
		require.NoError(t, store.CreateUser(ctx, user))

		bio := "Painter from Accra"
		updated, err := store.UpdateUserProfile(ctx, user.ID, UpdateUserInput{Bio: &bio})
		require.NoError(t, err)
		require.NotNil(t, updated.Bio)
		assert.Equal(t, bio, *updated.Bio)
		// Untouched fields survive
		assert.Equal(t, user.DisplayName, updated.DisplayName)
		assert.Equal(t, user.WalletAddress, updated.WalletAddress)
	})

	t.Run("set role", func(t *testing.T) {
		user := buildTestUser(domain.RoleBuyer)
		require.NoError(t, store.CreateUser(ctx, user))

		require.NoError(t, store.SetUserRole(ctx, user.ID, domain.RoleArtist))

		got, err := store.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleArtist, got.Role)
	})

	t.Run("set role on missing user", func(t *testing.T) {
		err := store.SetUserRole(ctx, 999999, domain.RoleArtist)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("deactivation is a soft delete", func(t *testing.T) {
		user := buildTestUser(domain.RoleBuyer)
		require.NoError(t, store.CreateUser(ctx, user))

		require.NoError(t, store.DeactivateUser(ctx, user.ID, time.Now()))

		// The row survives, marked deactivated
		got, err := store.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got.DeactivatedAt)
		firstDeactivation := *got.DeactivatedAt

		// Repeat deactivation is a no-op
		require.NoError(t, store.DeactivateUser(ctx, user.ID, time.Now().Add(time.Hour)))
		got, err = store.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, firstDeactivation.Unix(), got.DeactivatedAt.Unix())
	})

	t.Run("deactivate missing user", func(t *testing.T) {
		err := store.DeactivateUser(ctx, 999999, time.Now())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

// =============================================================================
// Test: Auth challenges
// =============================================================================

func testAuthChallenges(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		challenge := buildTestChallenge("nonce-1", "0xabc", 5*time.Minute)
		require.NoError(t, store.CreateAuthChallenge(ctx, challenge))

		got, err := store.GetAuthChallengeByNonce(ctx, "nonce-1")
		require.NoError(t, err)
		assert.Equal(t, challenge.Message, got.Message)
		assert.Nil(t, got.ConsumedAt)
	})

	t.Run("unknown nonce", func(t *testing.T) {
		_, err := store.GetAuthChallengeByNonce(ctx, "no-such-nonce")
		assert.ErrorIs(t, err, domain.ErrChallengeNotFound)
	})

	t.Run("challenge is single-use", func(t *testing.T) {
		challenge := buildTestChallenge("nonce-2", "0xabc", 5*time.Minute)
		require.NoError(t, store.CreateAuthChallenge(ctx, challenge))

		require.NoError(t, store.ConsumeAuthChallenge(ctx, "nonce-2", time.Now()))

		err := store.ConsumeAuthChallenge(ctx, "nonce-2", time.Now())
		assert.ErrorIs(t, err, domain.ErrChallengeConsumed)
	})

	t.Run("consume unknown nonce", func(t *testing.T) {
		err := store.ConsumeAuthChallenge(ctx, "no-such-nonce", time.Now())
		assert.ErrorIs(t, err, domain.ErrChallengeNotFound)
	})

	t.Run("expired challenges are swept", func(t *testing.T) {
		expired := buildTestChallenge("nonce-3", "0xabc", -time.Minute)
		fresh := buildTestChallenge("nonce-4", "0xabc", 5*time.Minute)
		require.NoError(t, store.CreateAuthChallenge(ctx, expired))
		require.NoError(t, store.CreateAuthChallenge(ctx, fresh))

		deleted, err := store.DeleteExpiredAuthChallenges(ctx, time.Now())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, deleted, int64(1))

		_, err = store.GetAuthChallengeByNonce(ctx, "nonce-3")
		assert.ErrorIs(t, err, domain.ErrChallengeNotFound)

		_, err = store.GetAuthChallengeByNonce(ctx, "nonce-4")
		assert.NoError(t, err)
	})
}

// =============================================================================
// Test: NFTs and gallery filters
// =============================================================================

func testNFTs(t *testing.T, store Store) {
	ctx := context.Background()

	artist := buildTestUser(domain.RoleArtist)
	require.NoError(t, store.CreateUser(ctx, artist))
	other := buildTestUser(domain.RoleArtist)
	require.NoError(t, store.CreateUser(ctx, other))

	nft1 := buildTestNFT(artist.ID, artist.ID, 1, 100_000_000, true)
	nft2 := buildTestNFT(artist.ID, artist.ID, 2, 500_000_000, true)
	nft3 := buildTestNFT(other.ID, other.ID, 3, 200_000_000, false)
	nft3.Technique = domain.TechniqueBeadwork
	nft3.Title = "Maasai Collar"
	nft3.Description = "Recycled glass beads on leather cord"
	for _, n := range []*schema.NFT{nft1, nft2, nft3} {
		require.NoError(t, store.CreateNFT(ctx, n))
	}

	t.Run("get by id preloads creator and owner", func(t *testing.T) {
		got, err := store.GetNFTByID(ctx, nft1.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Creator)
		require.NotNil(t, got.Owner)
		assert.Equal(t, artist.ID, got.Creator.ID)
	})

	t.Run("missing nft", func(t *testing.T) {
		_, err := store.GetNFTByID(ctx, 999999)
		assert.ErrorIs(t, err, domain.ErrNFTNotFound)
	})

	t.Run("listed only", func(t *testing.T) {
		nfts, total, err := store.ListNFTs(ctx, NFTFilter{ListedOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, nfts, 2)
	})

	t.Run("filter by technique", func(t *testing.T) {
		technique := domain.TechniqueBeadwork
		nfts, total, err := store.ListNFTs(ctx, NFTFilter{Technique: &technique})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, nfts, 1)
		assert.Equal(t, "Maasai Collar", nfts[0].Title)
	})

	t.Run("filter by price range", func(t *testing.T) {
		minPrice := int64(150_000_000)
		maxPrice := int64(600_000_000)
		nfts, total, err := store.ListNFTs(ctx, NFTFilter{
			MinPriceTinybar: &minPrice,
			MaxPriceTinybar: &maxPrice,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, nfts, 2)
	})

	t.Run("search by title", func(t *testing.T) {
		nfts, total, err := store.ListNFTs(ctx, NFTFilter{Search: "maasai"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, nfts, 1)
		assert.Equal(t, nft3.ID, nfts[0].ID)
	})

	t.Run("search matches description too", func(t *testing.T) {
		// "leather" appears only in nft3's description, not in any title
		nfts, total, err := store.ListNFTs(ctx, NFTFilter{Search: "leather"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, nfts, 1)
		assert.Equal(t, nft3.ID, nfts[0].ID)
	})

	t.Run("sort by price ascending", func(t *testing.T) {
		nfts, _, err := store.ListNFTs(ctx, NFTFilter{SortBy: "price_asc"})
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(nfts), 3)
		assert.LessOrEqual(t, nfts[0].PriceTinybar, nfts[1].PriceTinybar)
	})

	t.Run("pagination", func(t *testing.T) {
		page1, total, err := store.ListNFTs(ctx, NFTFilter{Limit: 2, SortBy: "oldest"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, page1, 2)

		page2, _, err := store.ListNFTs(ctx, NFTFilter{Limit: 2, Offset: 2, SortBy: "oldest"})
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.NotEqual(t, page1[0].ID, page2[0].ID)
	})
}

// =============================================================================
// Test: Listing updates
// =============================================================================

func testListing(t *testing.T, store Store) {
	ctx := context.Background()

	artist := buildTestUser(domain.RoleArtist)
	require.NoError(t, store.CreateUser(ctx, artist))
	stranger := buildTestUser(domain.RoleBuyer)
	require.NoError(t, store.CreateUser(ctx, stranger))

	nft := buildTestNFT(artist.ID, artist.ID, 10, 0, false)
	require.NoError(t, store.CreateNFT(ctx, nft))

	t.Run("owner lists the piece", func(t *testing.T) {
		updated, err := store.UpdateNFTListing(ctx, nft.ID, artist.ID, ListingUpdate{
			Listed:       true,
			PriceTinybar: 300_000_000,
		})
		require.NoError(t, err)
		assert.True(t, updated.Listed)
		assert.Equal(t, int64(300_000_000), updated.PriceTinybar)
	})

	t.Run("non-owner cannot touch the listing", func(t *testing.T) {
		_, err := store.UpdateNFTListing(ctx, nft.ID, stranger.ID, ListingUpdate{Listed: false})
		assert.ErrorIs(t, err, domain.ErrNFTNotFound)
	})

	t.Run("owner delists", func(t *testing.T) {
		updated, err := store.UpdateNFTListing(ctx, nft.ID, artist.ID, ListingUpdate{
			Listed:       false,
			PriceTinybar: 300_000_000,
		})
		require.NoError(t, err)
		assert.False(t, updated.Listed)
	})

	t.Run("reprice keeps the listed state", func(t *testing.T) {
		listed, err := store.UpdateNFTListing(ctx, nft.ID, artist.ID, ListingUpdate{
			Listed:       true,
			PriceTinybar: 300_000_000,
		})
		require.NoError(t, err)
		require.True(t, listed.Listed)

		updated, err := store.UpdateNFTPrice(ctx, nft.ID, artist.ID, 450_000_000)
		require.NoError(t, err)
		assert.Equal(t, int64(450_000_000), updated.PriceTinybar)
		assert.True(t, updated.Listed)
	})

	t.Run("non-owner cannot reprice", func(t *testing.T) {
		_, err := store.UpdateNFTPrice(ctx, nft.ID, stranger.ID, 1)
		assert.ErrorIs(t, err, domain.ErrNFTNotFound)
	})
}

// =============================================================================
// Test: Purchase
// =============================================================================

func testPurchase(t *testing.T, store Store) {
	ctx := context.Background()

	seller := buildTestUser(domain.RoleArtist)
	require.NoError(t, store.CreateUser(ctx, seller))
	buyer := buildTestUser(domain.RoleBuyer)
	require.NoError(t, store.CreateUser(ctx, buyer))

	price := int64(1_000_000_000) // 10 HBAR

	newListedNFT := func(t *testing.T, serial int64) *schema.NFT {
		nft := buildTestNFT(seller.ID, seller.ID, serial, price, true)
		require.NoError(t, store.CreateNFT(ctx, nft))
		return nft
	}

	okTransfer := func(ctx context.Context, nft *schema.NFT, s *schema.User, b *schema.User, fee int64) (string, error) {
		return "0.0.1234@1700000001.0", nil
	}

	t.Run("successful purchase", func(t *testing.T) {
		nft := newListedNFT(t, 20)

		var gotFee int64
		sale, err := store.PurchaseNFT(ctx, nft.ID, buyer.ID, price, 250,
			func(ctx context.Context, nft *schema.NFT, s *schema.User, b *schema.User, fee int64) (string, error) {
				gotFee = fee
				return "0.0.1234@1700000001.0", nil
			})
		require.NoError(t, err)
		require.NotNil(t, sale)
		assert.NotEmpty(t, sale.ID)
		assert.Equal(t, price, sale.PriceTinybar)
		// 2.5% of 10 HBAR
		assert.Equal(t, int64(25_000_000), sale.PlatformFeeTinybar)
		assert.Equal(t, gotFee, sale.PlatformFeeTinybar)
		assert.Equal(t, seller.ID, sale.SellerID)
		assert.Equal(t, buyer.ID, sale.BuyerID)

		// Ownership flipped, listing cleared
		got, err := store.GetNFTByID(ctx, nft.ID)
		require.NoError(t, err)
		assert.Equal(t, buyer.ID, got.OwnerID)
		assert.False(t, got.Listed)

		// Sale is readable back
		fetched, err := store.GetSaleByID(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, sale.TransferTxID, fetched.TransferTxID)

		sales, err := store.ListSalesByUser(ctx, buyer.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, sales, 1)
	})

	t.Run("price change is rejected", func(t *testing.T) {
		nft := newListedNFT(t, 21)

		_, err := store.PurchaseNFT(ctx, nft.ID, buyer.ID, price-1, 250, okTransfer)
		assert.ErrorIs(t, err, domain.ErrPriceChanged)

		// Nothing changed
		got, err := store.GetNFTByID(ctx, nft.ID)
		require.NoError(t, err)
		assert.Equal(t, seller.ID, got.OwnerID)
		assert.True(t, got.Listed)
	})

	t.Run("unlisted piece cannot be bought", func(t *testing.T) {
		nft := buildTestNFT(seller.ID, seller.ID, 22, price, false)
		require.NoError(t, store.CreateNFT(ctx, nft))

		_, err := store.PurchaseNFT(ctx, nft.ID, buyer.ID, price, 250, okTransfer)
		assert.ErrorIs(t, err, domain.ErrNFTNotListed)
	})

	t.Run("owner cannot buy own piece", func(t *testing.T) {
		nft := newListedNFT(t, 23)

		_, err := store.PurchaseNFT(ctx, nft.ID, seller.ID, price, 250, okTransfer)
		assert.ErrorIs(t, err, domain.ErrBuyerIsOwner)
	})

	t.Run("failed transfer rolls everything back", func(t *testing.T) {
		nft := newListedNFT(t, 24)

		_, err := store.PurchaseNFT(ctx, nft.ID, buyer.ID, price, 250,
			func(ctx context.Context, nft *schema.NFT, s *schema.User, b *schema.User, fee int64) (string, error) {
				return "", errors.New("insufficient payer balance")
			})
		require.Error(t, err)

		got, err := store.GetNFTByID(ctx, nft.ID)
		require.NoError(t, err)
		assert.Equal(t, seller.ID, got.OwnerID)
		assert.True(t, got.Listed)

		sales, err := store.ListSalesByUser(ctx, seller.ID, 100, 0)
		require.NoError(t, err)
		for _, sale := range sales {
			assert.NotEqual(t, nft.ID, sale.NFTID)
		}
	})

	t.Run("missing nft", func(t *testing.T) {
		_, err := store.PurchaseNFT(ctx, 999999, buyer.ID, price, 250, okTransfer)
		assert.ErrorIs(t, err, domain.ErrNFTNotFound)
	})
}

// =============================================================================
// Test: Pin health
// =============================================================================

func testPinHealth(t *testing.T, store Store) {
	ctx := context.Background()

	artist := buildTestUser(domain.RoleArtist)
	require.NoError(t, store.CreateUser(ctx, artist))

	nft := buildTestNFT(artist.ID, artist.ID, 30, 0, false)
	require.NoError(t, store.CreateNFT(ctx, nft))

	t.Run("unchecked nfts are due", func(t *testing.T) {
		due, err := store.ListNFTsForPinCheck(ctx, time.Now().Add(-time.Hour), 10)
		require.NoError(t, err)
		require.NotEmpty(t, due)
		assert.Equal(t, nft.ID, due[0].ID)
	})

	t.Run("record broken check", func(t *testing.T) {
		checkErr := "gateway returned 504"
		now := time.Now()
		require.NoError(t, store.UpdateNFTPinHealth(ctx, nft.ID, schema.PinStatusBroken, now, &checkErr))

		got, err := store.GetNFTByID(ctx, nft.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.PinStatusBroken, got.PinHealthStatus)
		require.NotNil(t, got.LastPinError)
		assert.Equal(t, checkErr, *got.LastPinError)
		require.NotNil(t, got.LastPinCheckAt)
	})

	t.Run("healthy check clears the error", func(t *testing.T) {
		require.NoError(t, store.UpdateNFTPinHealth(ctx, nft.ID, schema.PinStatusHealthy, time.Now(), nil))

		got, err := store.GetNFTByID(ctx, nft.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.PinStatusHealthy, got.PinHealthStatus)
		assert.Nil(t, got.LastPinError)
	})

	t.Run("freshly checked nfts are not due", func(t *testing.T) {
		due, err := store.ListNFTsForPinCheck(ctx, time.Now().Add(-time.Hour), 10)
		require.NoError(t, err)
		for _, d := range due {
			assert.NotEqual(t, nft.ID, d.ID)
		}
	})
}

// =============================================================================
// Test: Favorites
// =============================================================================

func testFavorites(t *testing.T, store Store) {
	ctx := context.Background()

	artist := buildTestUser(domain.RoleArtist)
	require.NoError(t, store.CreateUser(ctx, artist))
	fan := buildTestUser(domain.RoleBuyer)
	require.NoError(t, store.CreateUser(ctx, fan))

	nft := buildTestNFT(artist.ID, artist.ID, 40, 0, false)
	require.NoError(t, store.CreateNFT(ctx, nft))

	t.Run("add is idempotent", func(t *testing.T) {
		require.NoError(t, store.AddFavorite(ctx, fan.ID, nft.ID))
		require.NoError(t, store.AddFavorite(ctx, fan.ID, nft.ID))

		nfts, err := store.ListFavoriteNFTs(ctx, fan.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, nfts, 1)
		assert.Equal(t, nft.ID, nfts[0].ID)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.RemoveFavorite(ctx, fan.ID, nft.ID))

		nfts, err := store.ListFavoriteNFTs(ctx, fan.ID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, nfts)
	})
}

// =============================================================================
// Test: Artist verifications
// =============================================================================

func testVerifications(t *testing.T, store Store) {
	ctx := context.Background()

	applicant := buildTestUser(domain.RoleBuyer)
	require.NoError(t, store.CreateUser(ctx, applicant))
	admin := buildTestUser(domain.RoleAdmin)
	require.NoError(t, store.CreateUser(ctx, admin))

	t.Run("file a request", func(t *testing.T) {
		verification := &schema.ArtistVerification{
			UserID:       applicant.ID,
			PortfolioURL: "https://example.com/portfolio",
			Statement:    "Beadwork artist for 12 years",
			Status:       domain.VerificationStatusPending,
		}
		require.NoError(t, store.CreateArtistVerification(ctx, verification))
		require.NotZero(t, verification.ID)
	})

	t.Run("second pending request is rejected", func(t *testing.T) {
		verification := &schema.ArtistVerification{
			UserID:       applicant.ID,
			PortfolioURL: "https://example.com/other",
			Statement:    "again",
			Status:       domain.VerificationStatusPending,
		}
		err := store.CreateArtistVerification(ctx, verification)
		assert.ErrorIs(t, err, domain.ErrVerificationExists)
	})

	t.Run("list pending", func(t *testing.T) {
		pending := domain.VerificationStatusPending
		verifications, err := store.ListArtistVerifications(ctx, &pending, 10, 0)
		require.NoError(t, err)
		require.Len(t, verifications, 1)
	})

	t.Run("approval promotes the applicant", func(t *testing.T) {
		pending := domain.VerificationStatusPending
		verifications, err := store.ListArtistVerifications(ctx, &pending, 10, 0)
		require.NoError(t, err)
		require.Len(t, verifications, 1)

		note := "portfolio checks out"
		reviewed, err := store.ReviewArtistVerification(ctx, verifications[0].ID, admin.ID, domain.VerificationStatusApproved, &note)
		require.NoError(t, err)
		assert.Equal(t, domain.VerificationStatusApproved, reviewed.Status)
		require.NotNil(t, reviewed.ReviewedBy)
		assert.Equal(t, admin.ID, *reviewed.ReviewedBy)

		user, err := store.GetUserByID(ctx, applicant.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleArtist, user.Role)
	})

	t.Run("closed request cannot be re-reviewed", func(t *testing.T) {
		verifications, err := store.ListArtistVerifications(ctx, nil, 10, 0)
		require.NoError(t, err)
		require.NotEmpty(t, verifications)

		_, err = store.ReviewArtistVerification(ctx, verifications[0].ID, admin.ID, domain.VerificationStatusRejected, nil)
		assert.ErrorIs(t, err, domain.ErrVerificationClosed)
	})

	t.Run("invalid review status", func(t *testing.T) {
		_, err := store.ReviewArtistVerification(ctx, 1, admin.ID, domain.VerificationStatusPending, nil)
		assert.Error(t, err)
	})
}

// =============================================================================
// Test: Platform stats
// =============================================================================

func testPlatformStats(t *testing.T, store Store) {
	ctx := context.Background()

	seller := buildTestUser(domain.RoleArtist)
	require.NoError(t, store.CreateUser(ctx, seller))
	buyer := buildTestUser(domain.RoleBuyer)
	require.NoError(t, store.CreateUser(ctx, buyer))

	nft := buildTestNFT(seller.ID, seller.ID, 50, 400_000_000, true)
	require.NoError(t, store.CreateNFT(ctx, nft))

	t.Run("empty sales volume is zero", func(t *testing.T) {
		stats, err := store.GetPlatformStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Users)
		assert.Equal(t, int64(1), stats.NFTs)
		assert.Equal(t, int64(0), stats.Sales)
		assert.Equal(t, int64(0), stats.VolumeTinybar)
	})

	t.Run("volume sums completed sales", func(t *testing.T) {
		_, err := store.PurchaseNFT(ctx, nft.ID, buyer.ID, 400_000_000, 250,
			func(ctx context.Context, nft *schema.NFT, s *schema.User, b *schema.User, fee int64) (string, error) {
				return "0.0.1234@1700000002.0", nil
			})
		require.NoError(t, err)

		stats, err := store.GetPlatformStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Sales)
		assert.Equal(t, int64(400_000_000), stats.VolumeTinybar)
	})
}
