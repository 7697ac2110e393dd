package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/afriart/marketplace/internal/adapter"
	"github.com/afriart/marketplace/internal/api/dto"
	"github.com/afriart/marketplace/internal/api/middleware"
	"github.com/afriart/marketplace/internal/auth"
	"github.com/afriart/marketplace/internal/domain"
	"github.com/afriart/marketplace/internal/logger"
	"github.com/afriart/marketplace/internal/messaging"
	"github.com/afriart/marketplace/internal/mint"
	"github.com/afriart/marketplace/internal/purchase"
	"github.com/afriart/marketplace/internal/store"
	"github.com/afriart/marketplace/internal/store/schema"
)

// Balancer is the subset of chain operations the API needs directly
type Balancer interface {
	GetBalance(ctx context.Context, accountID string) (int64, error)
}

// Handler defines the interface for REST API handlers
type Handler interface {
	// IssueChallenge issues a sign-in challenge for a wallet
	// POST /api/v1/auth/challenge
	IssueChallenge(c *gin.Context)

	// VerifyChallenge verifies a signed challenge and returns a JWT
	// POST /api/v1/auth/verify
	VerifyChallenge(c *gin.Context)

	// RegisterUser creates an account for the wallet proven by a registration token
	// POST /api/v1/users
	RegisterUser(c *gin.Context)

	// GetCurrentUser returns the signed-in user's profile
	// GET /api/v1/users/me
	GetCurrentUser(c *gin.Context)

	// UpdateCurrentUser updates the signed-in user's profile
	// PATCH /api/v1/users/me
	UpdateCurrentUser(c *gin.Context)

	// DeactivateCurrentUser soft-deactivates the signed-in user's account
	// DELETE /api/v1/users/me
	DeactivateCurrentUser(c *gin.Context)

	// ListMySales returns the signed-in user's sales, as buyer or seller
	// GET /api/v1/users/me/sales?limit=<limit>&offset=<offset>
	ListMySales(c *gin.Context)

	// ListMyFavorites returns the signed-in user's bookmarked NFTs
	// GET /api/v1/users/me/favorites?limit=<limit>&offset=<offset>
	ListMyFavorites(c *gin.Context)

	// GetWalletBalance returns the signed-in user's HBAR balance
	// GET /api/v1/wallet/balance
	GetWalletBalance(c *gin.Context)

	// ListNFTs returns a filtered gallery page
	// GET /api/v1/nfts?technique=<t>&creator_id=<id>&owner_id=<id>&listed_only=<bool>&min_price_tinybar=<n>&max_price_tinybar=<n>&search=<q>&sort=<newest|oldest|price_asc|price_desc>&limit=<limit>&offset=<offset>
	ListNFTs(c *gin.Context)

	// GetNFT returns a single NFT by id
	// GET /api/v1/nfts/:id
	GetNFT(c *gin.Context)

	// MintNFT runs the mint pipeline for an uploaded artwork (artists only)
	// POST /api/v1/nfts/mint (multipart/form-data)
	MintNFT(c *gin.Context)

	// UpdateListing lists, reprices or delists an owned NFT
	// PATCH /api/v1/nfts/:id/listing
	UpdateListing(c *gin.Context)

	// UpdatePrice reprices an owned NFT without changing its listed state
	// PATCH /api/v1/nfts/:id/price
	UpdatePrice(c *gin.Context)

	// PurchaseNFT buys a listed NFT at the price the buyer saw
	// POST /api/v1/nfts/:id/purchase
	PurchaseNFT(c *gin.Context)

	// AddFavorite bookmarks an NFT
	// PUT /api/v1/nfts/:id/favorite
	AddFavorite(c *gin.Context)

	// RemoveFavorite removes a bookmark
	// DELETE /api/v1/nfts/:id/favorite
	RemoveFavorite(c *gin.Context)

	// CreateVerification files an artist verification request
	// POST /api/v1/verifications
	CreateVerification(c *gin.Context)

	// ListVerifications lists verification requests (admins only)
	// GET /api/v1/admin/verifications?status=<status>&limit=<limit>&offset=<offset>
	ListVerifications(c *gin.Context)

	// ApproveVerification approves a pending request and promotes the
	// applicant to the artist role (admins only)
	// POST /api/v1/admin/verifications/:id/approve
	ApproveVerification(c *gin.Context)

	// RejectVerification rejects a pending request (admins only)
	// POST /api/v1/admin/verifications/:id/reject
	RejectVerification(c *gin.Context)

	// GetPlatformStats returns marketplace-wide counts and sales volume (admins only)
	// GET /api/v1/admin/stats
	GetPlatformStats(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store     store.Store
	auth      *auth.Service
	minter    *mint.Orchestrator
	purchaser *purchase.Orchestrator
	chain     Balancer
	publisher messaging.Publisher
	clock     adapter.Clock
	gateway   dto.GatewayURLFunc
}

// NewHandler creates a new REST API handler
func NewHandler(
	st store.Store,
	authSvc *auth.Service,
	minter *mint.Orchestrator,
	purchaser *purchase.Orchestrator,
	chain Balancer,
	publisher messaging.Publisher,
	clock adapter.Clock,
	gateway dto.GatewayURLFunc,
) Handler {
	return &handler{
		store:     st,
		auth:      authSvc,
		minter:    minter,
		purchaser: purchaser,
		chain:     chain,
		publisher: publisher,
		clock:     clock,
		gateway:   gateway,
	}
}

// IssueChallenge issues a sign-in challenge for a wallet
func (h *handler) IssueChallenge(c *gin.Context) {
	var req dto.ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	challenge, err := h.auth.IssueChallenge(c.Request.Context(), req.WalletAddress)
	if err != nil {
		respondBadRequest(c, "Failed to issue challenge", err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ChallengeResponseFrom(challenge))
}

// VerifyChallenge verifies a signed challenge and returns a JWT
func (h *handler) VerifyChallenge(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.auth.Verify(c.Request.Context(), req.Nonce, req.Signature)
	if err != nil {
		respondDomainError(c, err, "Failed to verify challenge")
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		Token:                result.Token,
		ExpiresAt:            result.ExpiresAt,
		RegistrationRequired: result.RegistrationRequired,
		User:                 dto.UserResponseFrom(result.User),
	})
}

// RegisterUser creates an account for the wallet proven by a registration token
func (h *handler) RegisterUser(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	user := &schema.User{
		WalletAddress:   claims.WalletAddress,
		HederaAccountID: req.HederaAccountID,
		Role:            domain.RoleBuyer,
		DisplayName:     req.DisplayName,
		Bio:             req.Bio,
		AvatarURL:       req.AvatarURL,
		Country:         req.Country,
	}
	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		respondDomainError(c, err, "Failed to register user")
		return
	}

	token, expiresAt, err := h.auth.IssueSessionToken(user)
	if err != nil {
		respondInternalError(c, err, "Failed to issue session token")
		return
	}

	c.JSON(http.StatusCreated, dto.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.UserResponseFrom(user),
	})
}

// GetCurrentUser returns the signed-in user's profile
func (h *handler) GetCurrentUser(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	user, err := h.store.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, err, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, dto.UserResponseFrom(user))
}

// UpdateCurrentUser updates the signed-in user's profile
func (h *handler) UpdateCurrentUser(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	user, err := h.store.UpdateUserProfile(c.Request.Context(), claims.UserID, store.UpdateUserInput{
		DisplayName:     req.DisplayName,
		Bio:             req.Bio,
		AvatarURL:       req.AvatarURL,
		Country:         req.Country,
		HederaAccountID: req.HederaAccountID,
	})
	if err != nil {
		respondDomainError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, dto.UserResponseFrom(user))
}

// DeactivateCurrentUser soft-deactivates the signed-in user's account.
// Session tokens already issued keep working until they expire; the wallet
// cannot sign in again afterwards.
func (h *handler) DeactivateCurrentUser(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	if err := h.store.DeactivateUser(c.Request.Context(), claims.UserID, h.clock.Now().UTC()); err != nil {
		respondDomainError(c, err, "Failed to deactivate account")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMySales returns the signed-in user's sales
func (h *handler) ListMySales(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	page, err := ParsePageQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	sales, err := h.store.ListSalesByUser(c.Request.Context(), claims.UserID, page.Limit, page.Offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list sales")
		return
	}

	items := make([]dto.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		items = append(items, dto.SaleResponseFrom(sale))
	}
	c.JSON(http.StatusOK, dto.SaleListResponse{Items: items, Limit: page.Limit, Offset: page.Offset})
}

// ListMyFavorites returns the signed-in user's bookmarked NFTs
func (h *handler) ListMyFavorites(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	page, err := ParsePageQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	nfts, err := h.store.ListFavoriteNFTs(c.Request.Context(), claims.UserID, page.Limit, page.Offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list favorites")
		return
	}

	c.JSON(http.StatusOK, dto.NFTListResponseFrom(nfts, int64(len(nfts)), page.Limit, page.Offset, h.gateway))
}

// GetWalletBalance returns the signed-in user's HBAR balance
func (h *handler) GetWalletBalance(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	user, err := h.store.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, err, "Failed to load user")
		return
	}
	if user.HederaAccountID == nil {
		respondDomainError(c, domain.ErrMissingHederaAccount, "")
		return
	}

	balance, err := h.chain.GetBalance(c.Request.Context(), *user.HederaAccountID)
	if err != nil {
		respondInternalError(c, err, "Failed to query balance")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID:      *user.HederaAccountID,
		BalanceTinybar: balance,
	})
}

// ListNFTs returns a filtered gallery page
func (h *handler) ListNFTs(c *gin.Context) {
	params, err := ParseListNFTsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	nfts, total, err := h.store.ListNFTs(c.Request.Context(), params.Filter())
	if err != nil {
		respondInternalError(c, err, "Failed to list nfts")
		return
	}

	c.JSON(http.StatusOK, dto.NFTListResponseFrom(nfts, total, params.Limit, params.Offset, h.gateway))
}

// GetNFT returns a single NFT by id
func (h *handler) GetNFT(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		respondBadRequest(c, "Invalid nft id")
		return
	}

	nft, err := h.store.GetNFTByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "Failed to load nft")
		return
	}

	c.JSON(http.StatusOK, dto.NFTResponseFrom(nft, h.gateway))
}

// MintNFT runs the mint pipeline for an uploaded artwork
func (h *handler) MintNFT(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	artist, err := h.store.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, err, "Failed to load user")
		return
	}

	req, err := parseMintForm(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	req.ArtistID = artist.ID

	nft, err := h.minter.Mint(c.Request.Context(), *req, artist)
	if err != nil {
		if errors.Is(err, mint.ErrValidation) {
			respondValidationError(c, err.Error())
			return
		}
		respondInternalError(c, err, "Failed to mint")
		return
	}

	c.JSON(http.StatusCreated, dto.NFTResponseFrom(nft, h.gateway))
}

// UpdateListing lists, reprices or delists an owned NFT
func (h *handler) UpdateListing(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	id, err := parseIDParam(c)
	if err != nil {
		respondBadRequest(c, "Invalid nft id")
		return
	}

	var req dto.ListingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	nft, err := h.store.UpdateNFTListing(c.Request.Context(), id, claims.UserID, store.ListingUpdate{
		Listed:       *req.Listed,
		PriceTinybar: req.PriceTinybar,
	})
	if err != nil {
		respondDomainError(c, err, "Failed to update listing")
		return
	}

	c.JSON(http.StatusOK, dto.NFTResponseFrom(nft, h.gateway))
}

// UpdatePrice reprices an owned NFT without changing its listed state
func (h *handler) UpdatePrice(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	id, err := parseIDParam(c)
	if err != nil {
		respondBadRequest(c, "Invalid nft id")
		return
	}

	var req dto.PriceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	nft, err := h.store.UpdateNFTPrice(c.Request.Context(), id, claims.UserID, req.PriceTinybar)
	if err != nil {
		respondDomainError(c, err, "Failed to update price")
		return
	}

	c.JSON(http.StatusOK, dto.NFTResponseFrom(nft, h.gateway))
}

// PurchaseNFT buys a listed NFT at the price the buyer saw
func (h *handler) PurchaseNFT(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	id, err := parseIDParam(c)
	if err != nil {
		respondBadRequest(c, "Invalid nft id")
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	sale, err := h.purchaser.Purchase(c.Request.Context(), id, claims.UserID, req.ExpectedPriceTinybar)
	if err != nil {
		respondDomainError(c, err, "Failed to purchase")
		return
	}

	c.JSON(http.StatusCreated, dto.SaleResponseFrom(sale))
}

// AddFavorite bookmarks an NFT
func (h *handler) AddFavorite(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	id, err := parseIDParam(c)
	if err != nil {
		respondBadRequest(c, "Invalid nft id")
		return
	}

	if err := h.store.AddFavorite(c.Request.Context(), claims.UserID, id); err != nil {
		respondDomainError(c, err, "Failed to add favorite")
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveFavorite removes a bookmark
func (h *handler) RemoveFavorite(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	id, err := parseIDParam(c)
	if err != nil {
		respondBadRequest(c, "Invalid nft id")
		return
	}

	if err := h.store.RemoveFavorite(c.Request.Context(), claims.UserID, id); err != nil {
		respondDomainError(c, err, "Failed to remove favorite")
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateVerification files an artist verification request
func (h *handler) CreateVerification(c *gin.Context) {
	claims := middleware.CurrentClaims(c)

	var req dto.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	verification := &schema.ArtistVerification{
		UserID:       claims.UserID,
		PortfolioURL: req.PortfolioURL,
		Statement:    req.Statement,
		Status:       domain.VerificationStatusPending,
	}
	if err := h.store.CreateArtistVerification(c.Request.Context(), verification); err != nil {
		respondDomainError(c, err, "Failed to create verification")
		return
	}

	c.JSON(http.StatusCreated, dto.VerificationResponseFrom(verification))
}

// ListVerifications lists verification requests
func (h *handler) ListVerifications(c *gin.Context) {
	page, err := ParsePageQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	var status *domain.VerificationStatus
	if raw := c.Query("status"); raw != "" {
		parsed := domain.VerificationStatus(raw)
		if !parsed.Valid() {
			respondValidationError(c, "unknown status: "+raw)
			return
		}
		status = &parsed
	}

	verifications, err := h.store.ListArtistVerifications(c.Request.Context(), status, page.Limit, page.Offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list verifications")
		return
	}

	items := make([]dto.VerificationResponse, 0, len(verifications))
	for _, verification := range verifications {
		items = append(items, dto.VerificationResponseFrom(verification))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": page.Limit, "offset": page.Offset})
}

// ApproveVerification approves a pending request and promotes the applicant
// to the artist role
func (h *handler) ApproveVerification(c *gin.Context) {
	h.reviewVerification(c, domain.VerificationStatusApproved)
}

// RejectVerification rejects a pending request
func (h *handler) RejectVerification(c *gin.Context) {
	h.reviewVerification(c, domain.VerificationStatusRejected)
}

func (h *handler) reviewVerification(c *gin.Context, status domain.VerificationStatus) {
	claims := middleware.CurrentClaims(c)

	id, err := parseIDParam(c)
	if err != nil {
		respondBadRequest(c, "Invalid verification id")
		return
	}

	// The body is optional; an empty review note is fine
	var req dto.ReviewNoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "Invalid request body", err.Error())
			return
		}
	}

	verification, err := h.store.ReviewArtistVerification(c.Request.Context(), id, claims.UserID, status, req.Note)
	if err != nil {
		respondDomainError(c, err, "Failed to review verification")
		return
	}

	if verification.Status == domain.VerificationStatusApproved {
		event := &domain.MarketplaceEvent{
			EventType: domain.EventTypeArtistApproved,
			UserID:    verification.UserID,
			Timestamp: h.clock.Now().UTC(),
		}
		if err := h.publisher.PublishEvent(c.Request.Context(), event); err != nil {
			logger.WarnCtx(c.Request.Context(), "failed to publish artist approval event",
				zap.Int64("user_id", verification.UserID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, dto.VerificationResponseFrom(verification))
}

// GetPlatformStats returns marketplace-wide counts and sales volume
func (h *handler) GetPlatformStats(c *gin.Context) {
	stats, err := h.store.GetPlatformStats(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to load platform stats")
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponseFrom(stats))
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseIDParam parses the :id path parameter
func parseIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// parseMintForm reads the multipart mint submission. File size enforcement
// happens in the mint pipeline, which knows the configured cap.
func parseMintForm(c *gin.Context) (*mint.Request, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("artwork file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Warn("failed to close uploaded file", zap.Error(err))
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	priceTinybar, err := parseFormInt64(c, "price_tinybar")
	if err != nil {
		return nil, errors.New("price_tinybar must be an integer")
	}
	durationSeconds, err := parseFormInt64(c, "duration_seconds")
	if err != nil {
		return nil, errors.New("duration_seconds must be an integer")
	}

	return &mint.Request{
		Title:           c.PostForm("title"),
		Description:     c.PostForm("description"),
		Technique:       domain.Technique(c.PostForm("technique")),
		Material:        c.PostForm("material"),
		PriceTinybar:    priceTinybar,
		Listed:          c.PostForm("listed") == "true",
		FileName:        fileHeader.Filename,
		Content:         content,
		DurationSeconds: int(durationSeconds),
	}, nil
}

// parseFormInt64 parses an optional integer form field, defaulting to zero
func parseFormInt64(c *gin.Context, field string) (int64, error) {
	raw := c.PostForm(field)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
