// MTN MoMo collections adapter. Payments are request-to-pay calls addressed
// to the subscriber's MSISDN; the X-Reference-Id header carries the
// caller-generated transaction reference.
package mtn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/payfuse/payment-gateway/internal/config"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/payfuse/payment-gateway/internal/provider"
	"github.com/payfuse/payment-gateway/pkg/security"
)

const providerKey = "mtn_momo"

type Provider struct {
	cfg        config.MTNMoMoConfig
	httpClient *http.Client
}

func New(cfg config.MTNMoMoConfig) *Provider {
	return &Provider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *Provider) Name() string        { return "MTN MoMo" }
func (p *Provider) Key() string         { return providerKey }
func (p *Provider) RequiresPhone() bool { return true }

type requestToPayParty struct {
	PartyIDType string `json:"partyIdType"`
	PartyID     string `json:"partyId"`
}

type requestToPayBody struct {
	Amount       string            `json:"amount"`
	Currency     string            `json:"currency"`
	ExternalID   string            `json:"externalId"`
	Payer        requestToPayParty `json:"payer"`
	PayerMessage string            `json:"payerMessage"`
	PayeeNote    string            `json:"payeeNote"`
}

// CreatePayment issues a request-to-pay against the payer's wallet.
func (p *Provider) CreatePayment(ctx context.Context, payment *core.Payment) (*provider.CreateResult, error) {
	referenceID := security.GenerateTransactionID("mtn")

	reqBody := requestToPayBody{
		Amount:     strconv.FormatInt(payment.Amount, 10),
		Currency:   string(payment.Currency),
		ExternalID: payment.ID.String(),
		Payer: requestToPayParty{
			PartyIDType: "MSISDN",
			PartyID:     strings.TrimPrefix(payment.Phone, "+"),
		},
		PayerMessage: payment.Description,
		PayeeNote:    fmt.Sprintf("PayFuse payment %s", payment.ID),
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/collection/v1_0/requesttopay", bytes.NewReader(body))
	if err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Reference-Id", referenceID)
	req.Header.Set("X-Target-Environment", p.targetEnvironment())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, core.NewProviderError(providerKey, core.ProviderErrAuthenticationFailed,
			fmt.Errorf("requesttopay rejected with status %d", resp.StatusCode))
	}
	// MoMo acknowledges an accepted request-to-pay with 202 and no body.
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest,
			fmt.Errorf("requesttopay failed with status %d: %s", resp.StatusCode, raw))
	}

	return &provider.CreateResult{
		ProviderPaymentID: referenceID,
		PaymentURL:        fmt.Sprintf("mtn://pay?ref=%s", referenceID),
	}, nil
}

// CheckStatus polls the request-to-pay resource. Failures degrade to unknown.
func (p *Provider) CheckStatus(ctx context.Context, providerPaymentID string) (*provider.StatusResult, error) {
	url := fmt.Sprintf("%s/collection/v1_0/requesttopay/%s", p.cfg.BaseURL, providerPaymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &provider.StatusResult{Status: core.PaymentStatusUnknown}, nil
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("X-Target-Environment", p.targetEnvironment())

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
	Status                 string `json:"status"`
	ExternalID             string `json:"externalId"`
	FinancialTransactionID string `json:"financialTransactionId"`
	Amount                 string `json:"amount"`
	Currency               string `json:"currency"`
}

// ProcessWebhook maps a MoMo notification into the canonical shape. MoMo
// does not sign notifications; verification happens at the gateway level.
func (p *Provider) ProcessWebhook(payload []byte, _ string) (*core.WebhookEvent, error) {
	var body webhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest,
			fmt.Errorf("failed to parse webhook payload: %w", err))
	}

	event := core.EventPaymentFailed
	if body.Status == "SUCCESSFUL" {
		event = core.EventPaymentCompleted
	}

	amount, _ := strconv.ParseInt(body.Amount, 10, 64)

	return &core.WebhookEvent{
		Event: event,
		Data: core.WebhookEventData{
			ID:                body.ExternalID,
			ProviderPaymentID: body.FinancialTransactionID,
			Status:            mapStatus(body.Status),
			Amount:            amount,
			Currency:          core.Currency(body.Currency),
		},
	}, nil
}

// mapStatus translates the MoMo status vocabulary. REJECTED collapses into
// failed; unmapped values stay pending.
func mapStatus(status string) core.PaymentStatus {
	switch status {
	case "SUCCESSFUL":
		return core.PaymentStatusCompleted
	case "PENDING":
		return core.PaymentStatusPending
	case "FAILED", "REJECTED":
		return core.PaymentStatusFailed
	default:
		return core.PaymentStatusPending
	}
}

func (p *Provider) targetEnvironment() string {
	if p.cfg.Environment == "production" {
		return "live"
	}
	return "sandbox"
}
