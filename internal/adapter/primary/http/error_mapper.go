package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/payfuse/payment-gateway/internal/core"
)

// writeError maps domain errors onto HTTP status codes. Provider failures
// surface as 502 because the upstream network, not the caller, misbehaved.
func writeError(c echo.Context, err error) error {
	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	}

	var unsupportedErr *core.UnsupportedProviderError
	if errors.As(err, &unsupportedErr) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": unsupportedErr.Error(),
		})
	}

	if errors.Is(err, core.ErrInvalidSignature) {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "invalid signature",
		})
	}

	if errors.Is(err, core.ErrPaymentNotFound) || errors.Is(err, core.ErrWebhookNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": err.Error(),
		})
	}

	var providerErr *core.ProviderError
	if errors.As(err, &providerErr) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error":    "payment provider error",
			"provider": providerErr.Provider,
			"kind":     string(providerErr.Kind),
		})
	}

	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": "internal error",
	})
}
