package input

import (
	"context"

	"github.com/google/uuid"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/payfuse/payment-gateway/internal/provider"
)

// PaymentService is an input port (primary port) for payment operations.
// Primary adapters (HTTP handlers) depend on this, not on the service type.
type PaymentService interface {
	// CreatePayment validates the request, persists a pending record and
	// initiates the payment with the selected provider. The adapter is
	// called at most once per payment id; retries are a caller concern.
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*core.Payment, error)

	// GetPayment retrieves a payment by ID
	GetPayment(ctx context.Context, id uuid.UUID) (*core.Payment, error)

	// ListPayments returns a user's payments, newest first, bounded by limit
	ListPayments(ctx context.Context, userID string, limit int) ([]core.Payment, error)

	// CheckStatus polls the provider for the payment's current status.
	// Best-effort: provider failures yield an unknown status.
	CheckStatus(ctx context.Context, id uuid.UUID) (*provider.StatusResult, error)

	// SupportedProviders enumerates registered provider identifiers
	SupportedProviders() []string
}

// CreatePaymentRequest represents the request to create a payment
type CreatePaymentRequest struct {
	UserID      string
	Amount      int64
	Currency    core.Currency
	Provider    string
	Phone       string
	Description string
	WebhookURL  string
	Metadata    map[string]string
}
