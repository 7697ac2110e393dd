package messaging

import (
	"context"

	"github.com/afriart/marketplace/internal/domain"
)

// Publisher defines the interface for publishing marketplace events
type Publisher interface {
	// PublishEvent publishes a marketplace event for downstream consumers
	PublishEvent(ctx context.Context, event *domain.MarketplaceEvent) error
	// Close releases the underlying connection
	Close()
}
