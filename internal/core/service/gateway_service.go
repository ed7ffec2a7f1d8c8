package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/payfuse/payment-gateway/internal/port/input"
	"github.com/payfuse/payment-gateway/internal/port/output"
	"github.com/payfuse/payment-gateway/internal/provider"
	"github.com/payfuse/payment-gateway/pkg/security"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100

	// providerTimeout bounds the initiation call so a hung provider cannot
	// leave the payment pending forever.
	providerTimeout = 30 * time.Second
)

// GatewayService implements the PaymentService input port. It owns every
// Payment status transition; adapters only propose statuses.
type GatewayService struct {
	paymentRepo output.PaymentRepository
	registry    *provider.Registry
	logger      *zap.Logger
}

// NewGatewayService creates the payment gateway facade
func NewGatewayService(
	paymentRepo output.PaymentRepository,
	registry *provider.Registry,
	logger *zap.Logger,
) input.PaymentService {
	return &GatewayService{
		paymentRepo: paymentRepo,
		registry:    registry,
		logger:      logger,
	}
}

// CreatePayment validates the request, persists a pending record and invokes
// the provider adapter exactly once. An adapter failure leaves the record
// failed, never dangling in pending.
func (s *GatewayService) CreatePayment(ctx context.Context, req input.CreatePaymentRequest) (*core.Payment, error) {
	if !security.ValidateAmount(req.Amount) {
		return nil, core.NewValidationError("amount",
			fmt.Sprintf("must be a positive integer not exceeding %d", security.MaxAmount))
	}
	if req.Currency != core.CurrencyXOF {
		return nil, core.NewValidationError("currency", "only XOF is supported")
	}

	adapter, err := s.registry.Get(req.Provider)
	if err != nil {
		return nil, err
	}

	if adapter.RequiresPhone() && !security.ValidatePhoneNumber(req.Phone) {
		return nil, core.NewValidationError("phone",
			"must match the regional numbering plan, e.g. +221771234567")
	}

	payment := &core.Payment{
		ID:          uuid.New(),
		UserID:      req.UserID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Provider:    adapter.Key(),
		Phone:       req.Phone,
		Status:      core.PaymentStatusPending,
		Description: security.SanitizeString(req.Description),
		WebhookURL:  req.WebhookURL,
		Metadata:    req.Metadata,
		CreatedAt:   time.Now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.logger.Info("payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("provider", payment.Provider),
		zap.Int64("amount", payment.Amount),
		zap.String("phone", security.MaskPhone(payment.Phone)))

	initCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	result, err := adapter.CreatePayment(initCtx, payment)

	// The record must reach a resolution even when the caller's context is
	// already gone, so the follow-up write uses a detached context.
	persistCtx, persistCancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer persistCancel()

	if err != nil {
		if ferr := s.paymentRepo.TransitionStatus(persistCtx, payment.ID,
			core.PaymentStatusPending, core.PaymentStatusFailed, nil); ferr != nil {
			s.logger.Error("failed to mark payment failed",
				zap.String("payment_id", payment.ID.String()),
				zap.Error(ferr))
		}
		s.logger.Warn("provider initiation failed",
			zap.String("payment_id", payment.ID.String()),
			zap.String("provider", payment.Provider),
			zap.Error(err))
		return nil, fmt.Errorf("payment %s: %w", payment.ID, err)
	}

	if err := s.paymentRepo.SetProviderDetails(persistCtx, payment.ID,
		result.ProviderPaymentID, result.PaymentURL); err != nil {
		return nil, fmt.Errorf("failed to store provider details for payment %s: %w", payment.ID, err)
	}

	payment.ProviderPaymentID = result.ProviderPaymentID
	payment.PaymentURL = result.PaymentURL
	return payment, nil
}

// GetPayment retrieves a payment by ID
func (s *GatewayService) GetPayment(ctx context.Context, id uuid.UUID) (*core.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

// ListPayments returns a user's payments, newest first
func (s *GatewayService) ListPayments(ctx context.Context, userID string, limit int) ([]core.Payment, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.paymentRepo.List(ctx, userID, limit)
}

// CheckStatus polls the provider for a payment's current status. Provider
// failures surface as an unknown status, not an error.
func (s *GatewayService) CheckStatus(ctx context.Context, id uuid.UUID) (*provider.StatusResult, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.ProviderPaymentID == "" {
		return &provider.StatusResult{Status: core.PaymentStatusUnknown}, nil
	}

	adapter, err := s.registry.Get(payment.Provider)
	if err != nil {
		return nil, err
	}
	return adapter.CheckStatus(ctx, payment.ProviderPaymentID)
}

// SupportedProviders enumerates registered provider identifiers
func (s *GatewayService) SupportedProviders() []string {
	return s.registry.SupportedProviders()
}
