package core

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	// PaymentStatusUnknown is only returned by best-effort status polls,
	// never persisted.
	PaymentStatusUnknown PaymentStatus = "unknown"
)

// Currency represents supported currencies
type Currency string

// CurrencyXOF is the only currency the gateway accepts. XOF has no minor
// unit, so Amount is a whole number of francs.
const CurrencyXOF Currency = "XOF"

// Payment represents a payment domain entity
type Payment struct {
	ID                uuid.UUID
	UserID            string
	Amount            int64
	Currency          Currency
	Provider          string
	Phone             string
	Status            PaymentStatus
	Description       string
	ProviderPaymentID string
	PaymentURL        string
	WebhookURL        string
	Metadata          map[string]string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CompletedAt       *time.Time
}

// IsPending checks if payment is in pending status
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

// IsTerminal checks if payment is in a terminal state
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusCompleted ||
		p.Status == PaymentStatusFailed ||
		p.Status == PaymentStatusCancelled
}

// Canonical event types produced by provider adapters from inbound
// notifications.
const (
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
)

// WebhookEvent is the normalized shape every adapter produces from a
// provider-specific webhook payload. It decouples downstream processing from
// per-network payload formats.
type WebhookEvent struct {
	Event string           `json:"event"`
	Data  WebhookEventData `json:"data"`
}

// WebhookEventData carries the payment fields referenced by a webhook event.
type WebhookEventData struct {
	ID                string        `json:"id"`
	ProviderPaymentID string        `json:"provider_payment_id"`
	Status            PaymentStatus `json:"status"`
	Amount            int64         `json:"amount"`
	Currency          Currency      `json:"currency"`
}
