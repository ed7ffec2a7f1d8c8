package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/payfuse/payment-gateway/internal/constant/model/db"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/payfuse/payment-gateway/internal/port/output"
	"gorm.io/gorm"
)

// GormWebhookRepository is a secondary adapter that implements the
// WebhookRepository output port
type GormWebhookRepository struct {
	gormDB *gorm.DB
}

// NewGormWebhookRepository creates a new GORM webhook repository
func NewGormWebhookRepository(gormDB *gorm.DB) output.WebhookRepository {
	return &GormWebhookRepository{gormDB: gormDB}
}

func webhookToCore(w *db.Webhook) *core.Webhook {
	return &core.Webhook{
		ID:            w.ID,
		UserID:        w.UserID,
		URL:           w.URL,
		Events:        w.Events,
		Secret:        w.Secret,
		Status:        core.WebhookStatus(w.Status),
		DeliveryCount: w.DeliveryCount,
		FailureCount:  w.FailureCount,
		LastDelivery:  w.LastDelivery,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

func webhookFromCore(w *core.Webhook) *db.Webhook {
	return &db.Webhook{
		ID:            w.ID,
		UserID:        w.UserID,
		URL:           w.URL,
		Events:        w.Events,
		Secret:        w.Secret,
		Status:        string(w.Status),
		DeliveryCount: w.DeliveryCount,
		FailureCount:  w.FailureCount,
		LastDelivery:  w.LastDelivery,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

// Create registers a new endpoint
func (r *GormWebhookRepository) Create(ctx context.Context, webhook *core.Webhook) error {
	dbWebhook := webhookFromCore(webhook)
	if err := r.gormDB.WithContext(ctx).Create(dbWebhook).Error; err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}
	webhook.CreatedAt = dbWebhook.CreatedAt
	webhook.UpdatedAt = dbWebhook.UpdatedAt
	return nil
}

// GetByID retrieves an endpoint by its ID
func (r *GormWebhookRepository) GetByID(ctx context.Context, id uuid.UUID) (*core.Webhook, error) {
	var dbWebhook db.Webhook
	if err := r.gormDB.WithContext(ctx).Where("id = ?", id).First(&dbWebhook).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrWebhookNotFound
		}
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}
	return webhookToCore(&dbWebhook), nil
}

// List returns a user's endpoints, newest first
func (r *GormWebhookRepository) List(ctx context.Context, userID string) ([]core.Webhook, error) {
	var dbWebhooks []db.Webhook
	if err := r.gormDB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&dbWebhooks).Error; err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}

	webhooks := make([]core.Webhook, 0, len(dbWebhooks))
	for i := range dbWebhooks {
		webhooks = append(webhooks, *webhookToCore(&dbWebhooks[i]))
	}
	return webhooks, nil
}

// Update replaces the mutable endpoint fields
func (r *GormWebhookRepository) Update(ctx context.Context, webhook *core.Webhook) error {
	dbWebhook := webhookFromCore(webhook)
	result := r.gormDB.WithContext(ctx).
		Model(&db.Webhook{}).
		Where("id = ?", webhook.ID).
		Updates(map[string]any{
			"url":        dbWebhook.URL,
			"events":     dbWebhook.Events,
			"secret":     dbWebhook.Secret,
			"status":     dbWebhook.Status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update webhook: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return core.ErrWebhookNotFound
	}
	return nil
}

// Delete removes an endpoint
func (r *GormWebhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.gormDB.WithContext(ctx).Where("id = ?", id).Delete(&db.Webhook{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete webhook: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return core.ErrWebhookNotFound
	}
	return nil
}

// ListActiveByEvent returns the active endpoints subscribed to an event.
// Event subscriptions are a JSON column, so membership is filtered here
// rather than in SQL.
func (r *GormWebhookRepository) ListActiveByEvent(ctx context.Context, event string) ([]core.Webhook, error) {
	var dbWebhooks []db.Webhook
	if err := r.gormDB.WithContext(ctx).
		Where("status = ?", string(core.WebhookStatusActive)).
		Find(&dbWebhooks).Error; err != nil {
		return nil, fmt.Errorf("failed to list active webhooks: %w", err)
	}

	var webhooks []core.Webhook
	for i := range dbWebhooks {
		webhook := webhookToCore(&dbWebhooks[i])
		if webhook.SubscribedTo(event) {
			webhooks = append(webhooks, *webhook)
		}
	}
	return webhooks, nil
}

// RecordDelivery bumps the delivery counters after an attempt
func (r *GormWebhookRepository) RecordDelivery(ctx context.Context, id uuid.UUID, success bool, at time.Time) error {
	updates := map[string]any{
		"delivery_count": gorm.Expr("delivery_count + 1"),
		"last_delivery":  at,
		"updated_at":     time.Now(),
	}
	if !success {
		updates["failure_count"] = gorm.Expr("failure_count + 1")
	}

	result := r.gormDB.WithContext(ctx).
		Model(&db.Webhook{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to record delivery: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return core.ErrWebhookNotFound
	}
	return nil
}
