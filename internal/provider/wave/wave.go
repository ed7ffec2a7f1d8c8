// Wave checkout adapter. A checkout session is created per payment and the
// customer approves it in the Wave app via the returned launch URL.
package wave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/payfuse/payment-gateway/internal/config"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/payfuse/payment-gateway/internal/provider"
)

const providerKey = "wave"

type Provider struct {
	cfg        config.WaveConfig
	httpClient *http.Client
}

func New(cfg config.WaveConfig) *Provider {
	return &Provider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *Provider) Name() string        { return "Wave" }
func (p *Provider) Key() string         { return providerKey }
func (p *Provider) RequiresPhone() bool { return true }

type checkoutSessionRequest struct {
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	ErrorURL        string `json:"error_url"`
	SuccessURL      string `json:"success_url"`
	WebhookURL      string `json:"webhook_url"`
	ClientReference string `json:"client_reference"`
}

type checkoutSession struct {
	ID              string `json:"id"`
	WaveLaunchURL   string `json:"wave_launch_url"`
	Status          string `json:"status"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	ClientReference string `json:"client_reference"`
}

// CreatePayment opens a Wave checkout session.
func (p *Provider) CreatePayment(ctx context.Context, payment *core.Payment) (*provider.CreateResult, error) {
	reqBody := checkoutSessionRequest{
		Amount:          payment.Amount,
		Currency:        string(payment.Currency),
		ErrorURL:        p.cfg.ErrorURL,
		SuccessURL:      p.cfg.SuccessURL,
		WebhookURL:      payment.WebhookURL,
		ClientReference: payment.ID.String(),
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, core.NewProviderError(providerKey, core.ProviderErrAuthenticationFailed,
			fmt.Errorf("checkout session rejected with status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest,
			fmt.Errorf("checkout session failed with status %d: %s", resp.StatusCode, raw))
	}

	var session checkoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrNetwork,
			fmt.Errorf("failed to parse checkout session: %w", err))
	}

	return &provider.CreateResult{
		ProviderPaymentID: session.ID,
		PaymentURL:        session.WaveLaunchURL,
	}, nil
}

// CheckStatus fetches the checkout session. Failures degrade to unknown.
func (p *Provider) CheckStatus(ctx context.Context, providerPaymentID string) (*provider.StatusResult, error) {
	url := fmt.Sprintf("%s/checkout/sessions/%s", p.cfg.BaseURL, providerPaymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &provider.StatusResult{Status: core.PaymentStatusUnknown}, nil
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return &provider.StatusResult{Status: core.PaymentStatusUnknown}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &provider.StatusResult{Status: core.PaymentStatusUnknown}, nil
	}

	var details map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return &provider.StatusResult{Status: core.PaymentStatusUnknown}, nil
	}

	status, _ := details["status"].(string)
	return &provider.StatusResult{Status: mapStatus(status), Details: details}, nil
}

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		ID              string `json:"id"`
		ClientReference string `json:"client_reference"`
		Status          string `json:"status"`
		Amount          int64  `json:"amount"`
		Currency        string `json:"currency"`
	} `json:"data"`
}

// ProcessWebhook maps a Wave event into the canonical shape. Wave signs at
// the gateway level, so the adapter receives an already-verified payload.
func (p *Provider) ProcessWebhook(payload []byte, _ string) (*core.WebhookEvent, error) {
	var body webhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest,
			fmt.Errorf("failed to parse webhook payload: %w", err))
	}

	event := core.EventPaymentFailed
	if body.Type == "checkout.session.completed" {
		event = core.EventPaymentCompleted
	}

	return &core.WebhookEvent{
		Event: event,
		Data: core.WebhookEventData{
			ID:                body.Data.ClientReference,
			ProviderPaymentID: body.Data.ID,
			Status:            mapStatus(body.Data.Status),
			Amount:            body.Data.Amount,
			Currency:          core.Currency(body.Data.Currency),
		},
	}, nil
}

// Wave already uses the canonical vocabulary; unmapped values stay pending.
func mapStatus(status string) core.PaymentStatus {
	switch status {
	case "completed":
		return core.PaymentStatusCompleted
	case "pending":
		return core.PaymentStatusPending
	case "failed":
		return core.PaymentStatusFailed
	case "cancelled":
		return core.PaymentStatusCancelled
	default:
		return core.PaymentStatusPending
	}
}
