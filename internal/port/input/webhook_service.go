package input

import (
	"context"

	"github.com/google/uuid"
	"github.com/payfuse/payment-gateway/internal/core"
)

// WebhookService is an input port for merchant webhook endpoint management.
type WebhookService interface {
	// CreateWebhook registers a merchant endpoint for event deliveries
	CreateWebhook(ctx context.Context, req CreateWebhookRequest) (*core.Webhook, error)

	// GetWebhook retrieves an endpoint by ID
	GetWebhook(ctx context.Context, id uuid.UUID) (*core.Webhook, error)

	// ListWebhooks returns a user's endpoints, newest first
	ListWebhooks(ctx context.Context, userID string) ([]core.Webhook, error)

	// UpdateWebhook replaces the mutable endpoint fields
	UpdateWebhook(ctx context.Context, id uuid.UUID, req UpdateWebhookRequest) (*core.Webhook, error)

	// DeleteWebhook removes an endpoint
	DeleteWebhook(ctx context.Context, id uuid.UUID) error
}

// WebhookProcessor is an input port for inbound provider notifications.
type WebhookProcessor interface {
	// ProcessWebhook verifies the signature, normalizes the payload through
	// the provider adapter and applies the resulting status transition.
	// Unverified payloads never mutate state.
	ProcessWebhook(ctx context.Context, providerName string, payload []byte, signature string) error
}

// CreateWebhookRequest represents the request to register an endpoint
type CreateWebhookRequest struct {
	UserID string
	URL    string
	Events []string
	Secret string
}

// UpdateWebhookRequest carries the mutable endpoint fields
type UpdateWebhookRequest struct {
	URL    string
	Events []string
	Secret string
	Status core.WebhookStatus
}
