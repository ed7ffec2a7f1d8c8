package output

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/payfuse/payment-gateway/internal/core"
)

// DeliveryJob is the unit of work the webhook delivery queue carries: one
// terminal payment event to fan out to subscribed merchant endpoints.
type DeliveryJob struct {
	PaymentID uuid.UUID         `json:"payment_id"`
	Event     core.WebhookEvent `json:"event"`
	Timestamp time.Time         `json:"timestamp"`
}

// WebhookMessaging is an output port for the webhook delivery queue.
// Secondary adapters (RabbitMQ implementations) implement this.
type WebhookMessaging interface {
	// PublishDelivery enqueues a delivery job
	PublishDelivery(ctx context.Context, job DeliveryJob) error

	// Close closes the messaging connection
	Close() error
}
