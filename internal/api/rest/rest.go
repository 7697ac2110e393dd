package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/afriart/marketplace/internal/api/middleware"
	"github.com/afriart/marketplace/internal/domain"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, parser middleware.TokenParser) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Wallet sign-in (public)
		v1.POST("/auth/challenge", handler.IssueChallenge)
		v1.POST("/auth/verify", handler.VerifyChallenge)

		// Registration completes with the registration-scoped token issued
		// by /auth/verify for unknown wallets
		v1.POST("/users", middleware.RegistrationAuth(parser), handler.RegisterUser)

		// Signed-in user endpoints. Accounts are never hard-deleted; DELETE
		// soft-deactivates so sales history stays intact.
		v1.GET("/users/me", middleware.Auth(parser), handler.GetCurrentUser)
		v1.PATCH("/users/me", middleware.Auth(parser), handler.UpdateCurrentUser)
		v1.DELETE("/users/me", middleware.Auth(parser), handler.DeactivateCurrentUser)
		v1.GET("/users/me/sales", middleware.Auth(parser), handler.ListMySales)
		v1.GET("/users/me/favorites", middleware.Auth(parser), handler.ListMyFavorites)
		v1.GET("/wallet/balance", middleware.Auth(parser), handler.GetWalletBalance)

		// Gallery (public read access)
		v1.GET("/nfts", handler.ListNFTs)
		v1.GET("/nfts/:id", handler.GetNFT)

		// Minting requires the artist role
		v1.POST("/nfts/mint", middleware.RequireRole(parser, domain.RoleArtist, domain.RoleAdmin), handler.MintNFT)

		// Listing, repricing and purchasing
		v1.PATCH("/nfts/:id/listing", middleware.Auth(parser), handler.UpdateListing)
		v1.PATCH("/nfts/:id/price", middleware.Auth(parser), handler.UpdatePrice)
		v1.POST("/nfts/:id/purchase", middleware.Auth(parser), handler.PurchaseNFT)

		// Favorites
		v1.PUT("/nfts/:id/favorite", middleware.Auth(parser), handler.AddFavorite)
		v1.DELETE("/nfts/:id/favorite", middleware.Auth(parser), handler.RemoveFavorite)

		// Artist verification
		v1.POST("/verifications", middleware.Auth(parser), handler.CreateVerification)

		// Admin endpoints
		admin := v1.Group("/admin", middleware.RequireRole(parser, domain.RoleAdmin))
		{
			admin.GET("/verifications", handler.ListVerifications)
			admin.POST("/verifications/:id/approve", handler.ApproveVerification)
			admin.POST("/verifications/:id/reject", handler.RejectVerification)
			admin.GET("/stats", handler.GetPlatformStats)
		}
	}
}
