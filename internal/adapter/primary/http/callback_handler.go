package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/payfuse/payment-gateway/internal/port/input"
	"go.uber.org/zap"
)

// SignatureHeader carries the inbound notification signature in the form
// "sha256=<hex>".
const SignatureHeader = "X-PayFuse-Signature"

// CallbackHandler receives provider payment notifications. The raw body is
// handed to the processor untouched; signatures are computed over exact
// bytes.
type CallbackHandler struct {
	processor input.WebhookProcessor
	logger    *zap.Logger
}

// NewCallbackHandler creates a new provider callback handler
func NewCallbackHandler(processor input.WebhookProcessor, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		processor: processor,
		logger:    logger,
	}
}

// HandleCallback handles an inbound provider notification
func (h *CallbackHandler) HandleCallback(c echo.Context) error {
	providerName := c.Param("provider")

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("failed to read callback body",
			zap.String("provider", providerName),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "failed to read request body",
		})
	}

	signature := c.Request().Header.Get(SignatureHeader)

	h.logger.Info("received provider callback",
		zap.String("provider", providerName),
		zap.String("remote_addr", c.RealIP()),
		zap.Int("payload_size", len(payload)),
		zap.Bool("signed", signature != ""))

	if err := h.processor.ProcessWebhook(c.Request().Context(), providerName, payload, signature); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
