package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/payfuse/payment-gateway/internal/port/input"
)

// WebhookHandler manages merchant webhook endpoints
type WebhookHandler struct {
	webhookService input.WebhookService
}

// NewWebhookHandler creates a new webhook endpoint handler
func NewWebhookHandler(webhookService input.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// CreateWebhookRequest represents the HTTP request to register an endpoint
type CreateWebhookRequest struct {
	UserID string   `json:"user_id"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret"`
}

// UpdateWebhookRequest represents the HTTP request to update an endpoint
type UpdateWebhookRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret"`
	Status string   `json:"status"`
}

// WebhookResponse represents the HTTP response for an endpoint. The secret
// is never echoed back.
type WebhookResponse struct {
	ID            string   `json:"id"`
	UserID        string   `json:"user_id"`
	URL           string   `json:"url"`
	Events        []string `json:"events"`
	Status        string   `json:"status"`
	DeliveryCount int64    `json:"delivery_count"`
	FailureCount  int64    `json:"failure_count"`
	LastDelivery  string   `json:"last_delivery,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

func toWebhookResponse(w *core.Webhook) WebhookResponse {
	resp := WebhookResponse{
		ID:            w.ID.String(),
		UserID:        w.UserID,
		URL:           w.URL,
		Events:        w.Events,
		Status:        string(w.Status),
		DeliveryCount: w.DeliveryCount,
		FailureCount:  w.FailureCount,
		CreatedAt:     w.CreatedAt.Format(time.RFC3339),
	}
	if w.LastDelivery != nil {
		resp.LastDelivery = w.LastDelivery.Format(time.RFC3339)
	}
	return resp
}

// CreateWebhook handles endpoint registration
func (h *WebhookHandler) CreateWebhook(c echo.Context) error {
	var req CreateWebhookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	webhook, err := h.webhookService.CreateWebhook(c.Request().Context(), input.CreateWebhookRequest{
		UserID: req.UserID,
		URL:    req.URL,
		Events: req.Events,
		Secret: req.Secret,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toWebhookResponse(webhook))
}

// GetWebhook handles endpoint retrieval by ID
func (h *WebhookHandler) GetWebhook(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid webhook ID",
		})
	}

	webhook, err := h.webhookService.GetWebhook(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toWebhookResponse(webhook))
}

// ListWebhooks handles endpoint listing for a user
func (h *WebhookHandler) ListWebhooks(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "user_id is required",
		})
	}

	webhooks, err := h.webhookService.ListWebhooks(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	responses := make([]WebhookResponse, 0, len(webhooks))
	for i := range webhooks {
		responses = append(responses, toWebhookResponse(&webhooks[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{"webhooks": responses})
}

// UpdateWebhook handles endpoint updates
func (h *WebhookHandler) UpdateWebhook(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid webhook ID",
		})
	}

	var req UpdateWebhookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	webhook, err := h.webhookService.UpdateWebhook(c.Request().Context(), id, input.UpdateWebhookRequest{
		URL:    req.URL,
		Events: req.Events,
		Secret: req.Secret,
		Status: core.WebhookStatus(req.Status),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toWebhookResponse(webhook))
}

// DeleteWebhook handles endpoint removal
func (h *WebhookHandler) DeleteWebhook(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid webhook ID",
		})
	}

	if err := h.webhookService.DeleteWebhook(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
