package output

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/payfuse/payment-gateway/internal/core"
)

// WebhookRepository is an output port for merchant webhook endpoint storage.
type WebhookRepository interface {
	// Create registers a new endpoint
	Create(ctx context.Context, webhook *core.Webhook) error

	// GetByID retrieves an endpoint by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*core.Webhook, error)

	// List returns a user's endpoints, newest first
	List(ctx context.Context, userID string) ([]core.Webhook, error)

	// Update replaces the mutable endpoint fields
	Update(ctx context.Context, webhook *core.Webhook) error

	// Delete removes an endpoint
	Delete(ctx context.Context, id uuid.UUID) error

	// ListActiveByEvent returns the active endpoints subscribed to an event
	ListActiveByEvent(ctx context.Context, event string) ([]core.Webhook, error)

	// RecordDelivery bumps the delivery counters after an attempt
	RecordDelivery(ctx context.Context, id uuid.UUID, success bool, at time.Time) error
}
