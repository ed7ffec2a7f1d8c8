package core

import (
	"errors"
	"fmt"
)

var (
	// ErrPaymentNotFound is returned when a payment id does not resolve.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrWebhookNotFound is returned when a webhook endpoint id does not resolve.
	ErrWebhookNotFound = errors.New("webhook not found")

	// ErrInvalidSignature is returned when an inbound webhook signature does
	// not verify. Callers must never mutate state after seeing it.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrAlreadyProcessed is returned by conditional status transitions when
	// the payment already left the expected state.
	ErrAlreadyProcessed = errors.New("payment already processed")
)

// ValidationError reports a caller-correctable problem with a single request
// field. It is raised before any side effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a field-level validation error
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// UnsupportedProviderError is returned when a provider name is not registered.
type UnsupportedProviderError struct {
	Name string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("provider %s not supported", e.Name)
}

// ProviderErrorKind classifies adapter failures.
type ProviderErrorKind string

const (
	ProviderErrAuthenticationFailed ProviderErrorKind = "authentication_failed"
	ProviderErrNetwork              ProviderErrorKind = "network_error"
	ProviderErrInvalidRequest       ProviderErrorKind = "invalid_request"
)

// ProviderError is raised by provider adapters. On the creation path it
// transitions the payment to failed; on the polling path it is downgraded to
// an unknown status.
type ProviderError struct {
	Provider string
	Kind     ProviderErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a classified provider failure
func NewProviderError(provider string, kind ProviderErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}
