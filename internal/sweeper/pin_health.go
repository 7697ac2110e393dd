package sweeper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/afriart/marketplace/internal/adapter"
	"github.com/afriart/marketplace/internal/logger"
	"github.com/afriart/marketplace/internal/store/schema"
)

// Store is the subset of database operations the pin health sweeper needs
type Store interface {
	ListNFTsForPinCheck(ctx context.Context, staleBefore time.Time, limit int) ([]*schema.NFT, error)
	UpdateNFTPinHealth(ctx context.Context, nftID int64, status schema.PinStatus, checkedAt time.Time, checkErr *string) error
	DeleteExpiredAuthChallenges(ctx context.Context, before time.Time) (int64, error)
}

const (
	// SWEEP_CYCLE_INTERVAL is the time to sleep between sweep cycles
	SWEEP_CYCLE_INTERVAL = 30 * time.Second
)

// PinHealthSweeperConfig holds configuration for the pin health sweeper
type PinHealthSweeperConfig struct {
	BatchSize      int           // NFTs to check per cycle
	WorkerPoolSize int           // Concurrent workers
	RecheckAfter   time.Duration // Only check NFTs not checked within this window
}

// GatewayResolver turns a CID into a fetchable gateway URL
type GatewayResolver interface {
	GatewayURL(cid string) string
}

// pinHealthSweeper verifies that the artwork and metadata documents behind
// each NFT are still retrievable from the IPFS gateway. Gateways answer HEAD
// requests for pinned content, so a HEAD is enough to tell a live pin from a
// lost one without pulling the asset bytes.
type pinHealthSweeper struct {
	config    *PinHealthSweeperConfig
	store     Store
	gateway   GatewayResolver
	http      adapter.HTTPClient
	pool      pond.Pool
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewPinHealthSweeper creates a new pin health sweeper
func NewPinHealthSweeper(
	config *PinHealthSweeperConfig,
	st Store,
	gateway GatewayResolver,
	httpClient adapter.HTTPClient,
	clock adapter.Clock,
) Sweeper {
	return &pinHealthSweeper{
		config:    config,
		store:     st,
		gateway:   gateway,
		http:      httpClient,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *pinHealthSweeper) Name() string {
	return "pin-health-sweeper"
}

// Start begins the sweeper's main loop
func (s *pinHealthSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting pin health sweeper",
		zap.Int("batch_size", s.config.BatchSize),
		zap.Int("worker_pool_size", s.config.WorkerPoolSize),
		zap.Duration("recheck_after", s.config.RecheckAfter),
	)

	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.BatchSize),
		pond.WithContext(ctx),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Pin health sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			s.cleanup()
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Pin health sweeper stop requested")
			s.cleanup()
			return nil
		default:
			if err := s.runSweepCycle(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, "sweep cycle failed", zap.Error(err))
				}
			}
		}
	}
}

// cleanup stops the worker pool and waits for tasks to complete
func (s *pinHealthSweeper) cleanup() {
	if s.pool != nil {
		s.pool.StopAndWait()
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *pinHealthSweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping pin health sweeper")
	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Pin health sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Pin health sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle runs a single sweep cycle
func (s *pinHealthSweeper) runSweepCycle(ctx context.Context) error {
	startTime := s.clock.Now()

	// Expired sign-in challenges pile up in the same database; clear them
	// while we're here rather than running a second daemon for it.
	if deleted, err := s.store.DeleteExpiredAuthChallenges(ctx, startTime); err != nil {
		logger.WarnCtx(ctx, "failed to delete expired auth challenges", zap.Error(err))
	} else if deleted > 0 {
		logger.InfoCtx(ctx, "Deleted expired auth challenges", zap.Int64("count", deleted))
	}

	staleBefore := startTime.Add(-s.config.RecheckAfter)
	nfts, err := s.store.ListNFTsForPinCheck(ctx, staleBefore, s.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list nfts for pin check: %w", err)
	}

	if len(nfts) == 0 {
		if !s.sleep(ctx, SWEEP_CYCLE_INTERVAL) {
			return ctx.Err()
		}
		return nil
	}

	logger.InfoCtx(ctx, "Found NFTs to check", zap.Int("count", len(nfts)))

	var healthyCount, brokenCount, transientErrorCount atomic.Int32

	for _, nft := range nfts {
		s.pool.Submit(func() {
			s.checkNFT(ctx, nft, &healthyCount, &brokenCount, &transientErrorCount)
		})
	}

	s.pool.StopAndWait()

	// Recreate pool for next cycle
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.BatchSize),
		pond.WithContext(ctx),
	)

	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", s.clock.Since(startTime)),
		zap.Int("total_checked", len(nfts)),
		zap.Int32("healthy", healthyCount.Load()),
		zap.Int32("broken", brokenCount.Load()),
		zap.Int32("transient_errors", transientErrorCount.Load()),
	)

	if !s.sleep(ctx, SWEEP_CYCLE_INTERVAL) {
		return ctx.Err()
	}
	return nil
}

// sleep sleeps for the given duration but can be interrupted by context
// cancellation or a stop request. Returns true if sleep completed normally.
func (s *pinHealthSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}

// checkNFT probes both CIDs behind an NFT and records the outcome
func (s *pinHealthSweeper) checkNFT(ctx context.Context, nft *schema.NFT, healthyCount, brokenCount, transientErrorCount *atomic.Int32) {
	checkedAt := s.clock.Now()

	status, checkErr := s.checkCID(ctx, nft.AssetCID)
	if status == schema.PinStatusHealthy && nft.MetadataCID != "" {
		status, checkErr = s.checkCID(ctx, nft.MetadataCID)
	}

	switch status {
	case schema.PinStatusHealthy:
		healthyCount.Add(1)
	case schema.PinStatusBroken:
		brokenCount.Add(1)
		logger.WarnCtx(ctx, "Pin is broken",
			zap.Int64("nft_id", nft.ID),
			zap.Stringp("error", checkErr),
		)
	case schema.PinStatusUnknown:
		// Transient failure. Record the attempt so the NFT rotates to the
		// back of the queue, but don't mark the pin broken.
		transientErrorCount.Add(1)
		logger.WarnCtx(ctx, "Transient error checking pin, will retry later",
			zap.Int64("nft_id", nft.ID),
			zap.Stringp("error", checkErr),
		)
	}

	if err := s.store.UpdateNFTPinHealth(ctx, nft.ID, status, checkedAt, checkErr); err != nil {
		logger.ErrorCtx(ctx, "failed to record pin health",
			zap.Int64("nft_id", nft.ID), zap.Error(err))
	}
}

// checkCID HEADs the gateway URL for a CID. A 2xx means the pin is healthy,
// a 4xx means the gateway no longer has the content, and anything else
// (network failure, 5xx, rate limiting) is treated as transient.
func (s *pinHealthSweeper) checkCID(ctx context.Context, cid string) (schema.PinStatus, *string) {
	url := s.gateway.GatewayURL(cid)

	resp, err := s.http.Head(ctx, url)
	if err != nil {
		msg := err.Error()
		return schema.PinStatusUnknown, &msg
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", zap.Error(err), zap.String("url", url))
		}
	}()

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return schema.PinStatusHealthy, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		msg := fmt.Sprintf("rate limited by gateway (status %d)", resp.StatusCode)
		return schema.PinStatusUnknown, &msg
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		msg := fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		return schema.PinStatusBroken, &msg
	default:
		msg := fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		return schema.PinStatusUnknown, &msg
	}
}
