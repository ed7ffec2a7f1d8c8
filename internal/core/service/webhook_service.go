package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/payfuse/payment-gateway/internal/port/input"
	"github.com/payfuse/payment-gateway/internal/port/output"
)

// WebhookService implements the WebhookService input port: CRUD over
// merchant webhook endpoints.
type WebhookService struct {
	webhookRepo output.WebhookRepository
}

// NewWebhookService creates a webhook endpoint service
func NewWebhookService(webhookRepo output.WebhookRepository) input.WebhookService {
	return &WebhookService{webhookRepo: webhookRepo}
}

// CreateWebhook registers a merchant endpoint
func (s *WebhookService) CreateWebhook(ctx context.Context, req input.CreateWebhookRequest) (*core.Webhook, error) {
	if err := validateEndpoint(req.URL, req.Events); err != nil {
		return nil, err
	}

	webhook := &core.Webhook{
		ID:        uuid.New(),
		UserID:    req.UserID,
		URL:       req.URL,
		Events:    req.Events,
		Secret:    req.Secret,
		Status:    core.WebhookStatusActive,
		CreatedAt: time.Now(),
	}

	if err := s.webhookRepo.Create(ctx, webhook); err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}
	return webhook, nil
}

// GetWebhook retrieves an endpoint by ID
func (s *WebhookService) GetWebhook(ctx context.Context, id uuid.UUID) (*core.Webhook, error) {
	return s.webhookRepo.GetByID(ctx, id)
}

// ListWebhooks returns a user's endpoints, newest first
func (s *WebhookService) ListWebhooks(ctx context.Context, userID string) ([]core.Webhook, error) {
	return s.webhookRepo.List(ctx, userID)
}

// UpdateWebhook replaces the mutable endpoint fields
func (s *WebhookService) UpdateWebhook(ctx context.Context, id uuid.UUID, req input.UpdateWebhookRequest) (*core.Webhook, error) {
	webhook, err := s.webhookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.URL != "" {
		webhook.URL = req.URL
	}
	if len(req.Events) > 0 {
		webhook.Events = req.Events
	}
	if req.Secret != "" {
		webhook.Secret = req.Secret
	}
	if req.Status != "" {
		if req.Status != core.WebhookStatusActive && req.Status != core.WebhookStatusInactive {
			return nil, core.NewValidationError("status", "must be active or inactive")
		}
		webhook.Status = req.Status
	}

	if err := validateEndpoint(webhook.URL, webhook.Events); err != nil {
		return nil, err
	}

	if err := s.webhookRepo.Update(ctx, webhook); err != nil {
		return nil, fmt.Errorf("failed to update webhook: %w", err)
	}
	return webhook, nil
}

// DeleteWebhook removes an endpoint
func (s *WebhookService) DeleteWebhook(ctx context.Context, id uuid.UUID) error {
	return s.webhookRepo.Delete(ctx, id)
}

func validateEndpoint(url string, events []string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return core.NewValidationError("url", "must be an http or https URL")
	}
	if len(events) == 0 {
		return core.NewValidationError("events", "at least one event is required")
	}
	return nil
}
