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
	"gorm.io/gorm/clause"
)

// GormPaymentRepository is a secondary adapter that implements the
// PaymentRepository output port
type GormPaymentRepository struct {
	gormDB *gorm.DB
}

// NewGormPaymentRepository creates a new GORM payment repository
func NewGormPaymentRepository(gormDB *gorm.DB) output.PaymentRepository {
	return &GormPaymentRepository{gormDB: gormDB}
}

func paymentToCore(p *db.Payment) *core.Payment {
	return &core.Payment{
		ID:                p.ID,
		UserID:            p.UserID,
		Amount:            p.Amount,
		Currency:          core.Currency(p.Currency),
		Provider:          p.Provider,
		Phone:             p.Phone,
		Status:            core.PaymentStatus(p.Status),
		Description:       p.Description,
		ProviderPaymentID: p.ProviderPaymentID,
		PaymentURL:        p.PaymentURL,
		WebhookURL:        p.WebhookURL,
		Metadata:          p.Metadata,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		CompletedAt:       p.CompletedAt,
	}
}

func paymentFromCore(p *core.Payment) *db.Payment {
	return &db.Payment{
		ID:                p.ID,
		UserID:            p.UserID,
		Amount:            p.Amount,
		Currency:          string(p.Currency),
		Provider:          p.Provider,
		Phone:             p.Phone,
		Status:            string(p.Status),
		Description:       p.Description,
		ProviderPaymentID: p.ProviderPaymentID,
		PaymentURL:        p.PaymentURL,
		WebhookURL:        p.WebhookURL,
		Metadata:          p.Metadata,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		CompletedAt:       p.CompletedAt,
	}
}

// Create creates a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *core.Payment) error {
	dbPayment := paymentFromCore(payment)
	if err := r.gormDB.WithContext(ctx).Create(dbPayment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	payment.CreatedAt = dbPayment.CreatedAt
	payment.UpdatedAt = dbPayment.UpdatedAt
	return nil
}

// GetByID retrieves a payment by its ID
func (r *GormPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*core.Payment, error) {
	var dbPayment db.Payment
	if err := r.gormDB.WithContext(ctx).Where("id = ?", id).First(&dbPayment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return paymentToCore(&dbPayment), nil
}

// List returns a user's payments, newest first, bounded by limit
func (r *GormPaymentRepository) List(ctx context.Context, userID string, limit int) ([]core.Payment, error) {
	var dbPayments []db.Payment
	if err := r.gormDB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&dbPayments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]core.Payment, 0, len(dbPayments))
	for i := range dbPayments {
		payments = append(payments, *paymentToCore(&dbPayments[i]))
	}
	return payments, nil
}

// SetProviderDetails stores the references returned by a provider initiation
func (r *GormPaymentRepository) SetProviderDetails(ctx context.Context, id uuid.UUID, providerPaymentID, paymentURL string) error {
	result := r.gormDB.WithContext(ctx).
		Model(&db.Payment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"provider_payment_id": providerPaymentID,
			"payment_url":         paymentURL,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set provider details: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return core.ErrPaymentNotFound
	}
	return nil
}

// TransitionStatus atomically moves a payment from an expected status to a
// new one. The row is locked with SELECT FOR UPDATE so a racing status poll
// and webhook see exactly one winner.
func (r *GormPaymentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to core.PaymentStatus, completedAt *time.Time) error {
	return r.gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dbPayment db.Payment

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&dbPayment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return core.ErrPaymentNotFound
			}
			return fmt.Errorf("failed to lock payment: %w", err)
		}

		if dbPayment.Status != string(from) {
			return fmt.Errorf("expected status %s, found %s: %w", from, dbPayment.Status, core.ErrAlreadyProcessed)
		}

		dbPayment.Status = string(to)
		dbPayment.UpdatedAt = time.Now()
		if completedAt != nil && dbPayment.CompletedAt == nil {
			dbPayment.CompletedAt = completedAt
		}

		if err := tx.Save(&dbPayment).Error; err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}
		return nil
	})
}
