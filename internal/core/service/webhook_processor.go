package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/payfuse/payment-gateway/internal/port/output"
	"github.com/payfuse/payment-gateway/internal/provider"
	"github.com/payfuse/payment-gateway/pkg/security"
	"go.uber.org/zap"
)

// WebhookProcessor applies inbound provider notifications to payment state.
// Signature verification happens before anything else touches the payload;
// an unverified webhook never mutates a record.
type WebhookProcessor struct {
	paymentRepo   output.PaymentRepository
	registry      *provider.Registry
	messaging     output.WebhookMessaging
	signingSecret string
	logger        *zap.Logger
}

// NewWebhookProcessor creates the inbound webhook processor
func NewWebhookProcessor(
	paymentRepo output.PaymentRepository,
	registry *provider.Registry,
	messaging output.WebhookMessaging,
	signingSecret string,
	logger *zap.Logger,
) *WebhookProcessor {
	return &WebhookProcessor{
		paymentRepo:   paymentRepo,
		registry:      registry,
		messaging:     messaging,
		signingSecret: signingSecret,
		logger:        logger,
	}
}

// ProcessWebhook verifies, normalizes and applies one provider notification.
// Reprocessing a delivery whose payment already reached the target state is
// a no-op; completed_at is never overwritten.
func (p *WebhookProcessor) ProcessWebhook(ctx context.Context, providerName string, payload []byte, signature string) error {
	adapter, err := p.registry.Get(providerName)
	if err != nil {
		return err
	}

	if signature != "" && !security.VerifyWebhookSignature(payload, signature, p.signingSecret) {
		// Logged apart from ordinary failures: a bad signature on a valid
		// endpoint is a possible attack signal.
		p.logger.Warn("webhook signature verification failed",
			zap.String("provider", providerName),
			zap.Int("payload_size", len(payload)))
		return core.ErrInvalidSignature
	}

	event, err := adapter.ProcessWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("failed to process %s webhook: %w", providerName, err)
	}

	var target core.PaymentStatus
	var completedAt *time.Time
	switch event.Event {
	case core.EventPaymentCompleted:
		target = core.PaymentStatusCompleted
		now := time.Now()
		completedAt = &now
	case core.EventPaymentFailed:
		target = core.PaymentStatusFailed
	default:
		p.logger.Info("ignoring unknown webhook event",
			zap.String("provider", providerName),
			zap.String("event", event.Event))
		return nil
	}

	paymentID, err := uuid.Parse(event.Data.ID)
	if err != nil {
		return core.NewValidationError("id", "not a valid payment id")
	}

	err = p.paymentRepo.TransitionStatus(ctx, paymentID, core.PaymentStatusPending, target, completedAt)
	if errors.Is(err, core.ErrAlreadyProcessed) {
		payment, gerr := p.paymentRepo.GetByID(ctx, paymentID)
		if gerr == nil && payment.Status == target {
			// Duplicate delivery of an already-applied event.
			p.logger.Info("webhook already applied",
				zap.String("payment_id", paymentID.String()),
				zap.String("event", event.Event))
			return nil
		}
		return fmt.Errorf("payment %s: %w", paymentID, err)
	}
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", paymentID, err)
	}

	p.logger.Info("payment status updated",
		zap.String("payment_id", paymentID.String()),
		zap.String("provider", providerName),
		zap.String("status", string(target)))

	job := output.DeliveryJob{
		PaymentID: paymentID,
		Event:     *event,
		Timestamp: time.Now(),
	}
	if err := p.messaging.PublishDelivery(ctx, job); err != nil {
		return fmt.Errorf("payment updated but failed to enqueue delivery: %w", err)
	}
	return nil
}
