package core

import (
	"time"

	"github.com/google/uuid"
)

// WebhookStatus represents the status of a merchant webhook endpoint
type WebhookStatus string

const (
	WebhookStatusActive   WebhookStatus = "active"
	WebhookStatusInactive WebhookStatus = "inactive"
)

// Webhook represents a merchant-registered webhook endpoint. It is owned by
// the user, not by any single payment; deliveries for every matching event
// are fanned out to it.
type Webhook struct {
	ID            uuid.UUID
	UserID        string
	URL           string
	Events        []string
	Secret        string
	Status        WebhookStatus
	DeliveryCount int64
	FailureCount  int64
	LastDelivery  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive checks if the endpoint should receive deliveries
func (w *Webhook) IsActive() bool {
	return w.Status == WebhookStatusActive
}

// SubscribedTo checks if the endpoint subscribes to the given event name
func (w *Webhook) SubscribedTo(event string) bool {
	for _, e := range w.Events {
		if e == event {
			return true
		}
	}
	return false
}
