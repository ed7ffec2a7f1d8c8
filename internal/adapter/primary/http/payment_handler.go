package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/payfuse/payment-gateway/internal/port/input"
	"go.uber.org/zap"
)

// PaymentHandler is a primary adapter (HTTP handler)
type PaymentHandler struct {
	paymentService input.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService input.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreatePaymentRequest represents the HTTP request to create a payment
type CreatePaymentRequest struct {
	UserID      string            `json:"user_id"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Provider    string            `json:"provider"`
	Phone       string            `json:"phone"`
	Description string            `json:"description"`
	WebhookURL  string            `json:"webhook_url"`
	Metadata    map[string]string `json:"metadata"`
}

// PaymentResponse represents the HTTP response for a payment
type PaymentResponse struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	Amount            int64             `json:"amount"`
	Currency          string            `json:"currency"`
	Provider          string            `json:"provider"`
	Phone             string            `json:"phone,omitempty"`
	Status            string            `json:"status"`
	Description       string            `json:"description,omitempty"`
	ProviderPaymentID string            `json:"provider_payment_id,omitempty"`
	PaymentURL        string            `json:"payment_url,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	CreatedAt         string            `json:"created_at"`
	CompletedAt       string            `json:"completed_at,omitempty"`
}

func toPaymentResponse(p *core.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:                p.ID.String(),
		UserID:            p.UserID,
		Amount:            p.Amount,
		Currency:          string(p.Currency),
		Provider:          p.Provider,
		Phone:             p.Phone,
		Status:            string(p.Status),
		Description:       p.Description,
		ProviderPaymentID: p.ProviderPaymentID,
		PaymentURL:        p.PaymentURL,
		Metadata:          p.Metadata,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
	if p.CompletedAt != nil {
		resp.CompletedAt = p.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

// CreatePayment handles payment creation
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	payment, err := h.paymentService.CreatePayment(c.Request().Context(), input.CreatePaymentRequest{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Currency:    core.Currency(req.Currency),
		Provider:    req.Provider,
		Phone:       req.Phone,
		Description: req.Description,
		WebhookURL:  req.WebhookURL,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toPaymentResponse(payment))
}

// GetPayment handles payment retrieval by ID
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid payment ID",
		})
	}

	payment, err := h.paymentService.GetPayment(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// ListPayments handles payment listing for a user
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "user_id is required",
		})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	payments, err := h.paymentService.ListPayments(c.Request().Context(), userID, limit)
	if err != nil {
		return writeError(c, err)
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, toPaymentResponse(&payments[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{"payments": responses})
}

// CheckStatus handles a best-effort provider status poll
func (h *PaymentHandler) CheckStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid payment ID",
		})
	}

	result, err := h.paymentService.CheckStatus(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":  string(result.Status),
		"details": result.Details,
	})
}

// ListProviders enumerates supported provider identifiers
func (h *PaymentHandler) ListProviders(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"providers": h.paymentService.SupportedProviders(),
	})
}
