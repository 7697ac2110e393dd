package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/afriart/marketplace/internal/adapter"
	"github.com/afriart/marketplace/internal/api/dto"
	"github.com/afriart/marketplace/internal/api/middleware"
	"github.com/afriart/marketplace/internal/api/rest"
	"github.com/afriart/marketplace/internal/auth"
	"github.com/afriart/marketplace/internal/logger"
	"github.com/afriart/marketplace/internal/messaging"
	"github.com/afriart/marketplace/internal/mint"
	"github.com/afriart/marketplace/internal/providers/hedera"
	"github.com/afriart/marketplace/internal/providers/pinata"
	"github.com/afriart/marketplace/internal/purchase"
	"github.com/afriart/marketplace/internal/store"
)

// Config holds the server configuration
type Config struct {
	Debug          bool
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	store      store.Store
	auth       *auth.Service
	minter     *mint.Orchestrator
	purchaser  *purchase.Orchestrator
	chain      hedera.Client
	pinner     pinata.Client
	publisher  messaging.Publisher
	clock      adapter.Clock
	httpServer *http.Server
}

// New creates a new API server
func New(
	cfg Config,
	st store.Store,
	authSvc *auth.Service,
	minter *mint.Orchestrator,
	purchaser *purchase.Orchestrator,
	chain hedera.Client,
	pinner pinata.Client,
	publisher messaging.Publisher,
	clock adapter.Clock,
) *Server {
	return &Server{
		config:    cfg,
		store:     st,
		auth:      authSvc,
		minter:    minter,
		purchaser: purchaser,
		chain:     chain,
		pinner:    pinner,
		publisher: publisher,
		clock:     clock,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(s.config.AllowedOrigins))

	// Create REST handler
	gateway := dto.GatewayURLFunc(s.pinner.GatewayURL)
	restHandler := rest.NewHandler(s.store, s.auth, s.minter, s.purchaser, s.chain, s.publisher, s.clock, gateway)

	// Setup REST routes
	rest.SetupRoutes(router, restHandler, s.auth)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
