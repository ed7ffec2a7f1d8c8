package provider

import (
	"context"

	"github.com/payfuse/payment-gateway/internal/core"
)

// PaymentProvider defines the contract every Mobile Money network adapter
// implements. Adapters never write to persisted records; they return results
// and normalized events, and the gateway owns all status transitions.
type PaymentProvider interface {
	// Name returns the human-readable provider name, e.g. "Orange Money"
	Name() string

	// Key returns the registry identifier, e.g. "orange_money"
	Key() string

	// RequiresPhone reports whether payments on this network are addressed
	// to a subscriber phone number. Ledger-style providers return false.
	RequiresPhone() bool

	// CreatePayment initiates the out-of-band payment on the provider
	// network. On failure it returns a *core.ProviderError and performs no
	// partial mutation.
	CreatePayment(ctx context.Context, payment *core.Payment) (*CreateResult, error)

	// CheckStatus polls the provider for the current status. Polling is
	// best-effort: failures yield StatusUnknown, not an error.
	CheckStatus(ctx context.Context, providerPaymentID string) (*StatusResult, error)

	// ProcessWebhook verifies the signature when one is supplied and maps
	// the provider-specific payload into the canonical event shape.
	ProcessWebhook(payload []byte, signature string) (*core.WebhookEvent, error)
}

// CreateResult holds the provider references returned by a successful
// initiation.
type CreateResult struct {
	ProviderPaymentID string
	PaymentURL        string
}

// StatusResult holds a polled status plus the raw provider response.
type StatusResult struct {
	Status  core.PaymentStatus
	Details map[string]any
}
