package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/payfuse/payment-gateway/internal/port/output"
	"github.com/payfuse/payment-gateway/pkg/security"
	"go.uber.org/zap"
)

const deliveryUserAgent = "PayFuse-Webhook/1.0"

// WebhookDispatcher fans one terminal payment event out to every active
// merchant endpoint subscribed to it, signing each delivery. The worker
// binary drives it from the delivery queue.
type WebhookDispatcher struct {
	webhookRepo   output.WebhookRepository
	signingSecret string
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewWebhookDispatcher creates a delivery dispatcher
func NewWebhookDispatcher(
	webhookRepo output.WebhookRepository,
	signingSecret string,
	logger *zap.Logger,
) *WebhookDispatcher {
	return &WebhookDispatcher{
		webhookRepo:   webhookRepo,
		signingSecret: signingSecret,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		logger:        logger,
	}
}

// Dispatch delivers the job's event to all matching endpoints. Per-endpoint
// failures are recorded in the endpoint counters and do not fail the job.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, job output.DeliveryJob) error {
	endpoints, err := d.webhookRepo.ListActiveByEvent(ctx, job.Event.Event)
	if err != nil {
		return fmt.Errorf("failed to list webhook endpoints: %w", err)
	}
	if len(endpoints) == 0 {
		return nil
	}

	payload, err := json.Marshal(job.Event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	for i := range endpoints {
		endpoint := &endpoints[i]
		success := d.deliver(ctx, endpoint.URL, endpoint.Secret, payload)

		if err := d.webhookRepo.RecordDelivery(ctx, endpoint.ID, success, time.Now()); err != nil {
			d.logger.Error("failed to record delivery",
				zap.String("webhook_id", endpoint.ID.String()),
				zap.Error(err))
		}

		d.logger.Info("webhook delivery attempted",
			zap.String("webhook_id", endpoint.ID.String()),
			zap.String("payment_id", job.PaymentID.String()),
			zap.String("event", job.Event.Event),
			zap.Bool("success", success))
	}
	return nil
}

func (d *WebhookDispatcher) deliver(ctx context.Context, url, secret string, payload []byte) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return false
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", deliveryUserAgent)

	// Endpoints without their own secret get deliveries signed with the
	// gateway-wide one.
	signingKey := secret
	if signingKey == "" {
		signingKey = d.signingSecret
	}
	if signingKey != "" {
		req.Header.Set("X-PayFuse-Signature", security.GenerateWebhookSignature(payload, signingKey))
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
