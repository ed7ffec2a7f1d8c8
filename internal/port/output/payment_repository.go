package output

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/payfuse/payment-gateway/internal/core"
)

// PaymentRepository is an output port (secondary port) for payment data
// access. Secondary adapters (database implementations) implement this.
type PaymentRepository interface {
	// Create creates a new payment
	Create(ctx context.Context, payment *core.Payment) error

	// GetByID retrieves a payment by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*core.Payment, error)

	// List returns a user's payments, newest first, bounded by limit
	List(ctx context.Context, userID string, limit int) ([]core.Payment, error)

	// SetProviderDetails stores the references returned by a successful
	// provider initiation
	SetProviderDetails(ctx context.Context, id uuid.UUID, providerPaymentID, paymentURL string) error

	// TransitionStatus atomically moves a payment from an expected status to
	// a new one, locking the row so racing updates see exactly one winner.
	// Returns core.ErrAlreadyProcessed when the payment has left the
	// expected status, core.ErrPaymentNotFound when the id does not resolve.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to core.PaymentStatus, completedAt *time.Time) error
}
