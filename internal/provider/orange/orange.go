// Orange Money Web Payment adapter. Initiation is a two-step flow: a
// client-credentials token fetch followed by a webpayment session create that
// yields a pay token and a hosted payment page URL.
package orange

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
	"github.com/payfuse/payment-gateway/pkg/security"
)

const providerKey = "orange_money"

type Provider struct {
	cfg           config.OrangeMoneyConfig
	webhookSecret string
	httpClient    *http.Client
}

func New(cfg config.OrangeMoneyConfig, webhookSecret string) *Provider {
	return &Provider{
		cfg:           cfg,
		webhookSecret: webhookSecret,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *Provider) Name() string        { return "Orange Money" }
func (p *Provider) Key() string         { return providerKey }
func (p *Provider) RequiresPhone() bool { return true }

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type webPaymentRequest struct {
	MerchantKey string `json:"merchant_key"`
	Currency    string `json:"currency"`
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	ReturnURL   string `json:"return_url"`
	CancelURL   string `json:"cancel_url"`
	NotifURL    string `json:"notif_url"`
	Lang        string `json:"lang"`
	Reference   string `json:"reference"`
}

type webPaymentResponse struct {
	PayToken   string `json:"pay_token"`
	PaymentURL string `json:"payment_url"`
}

// CreatePayment initiates an Orange Money web payment session.
func (p *Provider) CreatePayment(ctx context.Context, payment *core.Payment) (*provider.CreateResult, error) {
	token, err := p.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	reqBody := webPaymentRequest{
		MerchantKey: p.cfg.ClientID,
		Currency:    string(payment.Currency),
		OrderID:     payment.ID.String(),
		Amount:      payment.Amount,
		ReturnURL:   p.cfg.ReturnURL,
		CancelURL:   p.cfg.CancelURL,
		NotifURL:    payment.WebhookURL,
		Lang:        "fr",
		Reference:   payment.Description,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/webpayment", bytes.NewReader(body))
	if err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, core.NewProviderError(providerKey, core.ProviderErrAuthenticationFailed,
			fmt.Errorf("webpayment rejected with status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest,
			fmt.Errorf("webpayment failed with status %d: %s", resp.StatusCode, raw))
	}

	var payResp webPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payResp); err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrNetwork,
			fmt.Errorf("failed to parse webpayment response: %w", err))
	}

	return &provider.CreateResult{
		ProviderPaymentID: payResp.PayToken,
		PaymentURL:        payResp.PaymentURL,
	}, nil
}

// CheckStatus polls the payment status endpoint. Poll failures degrade to an
// unknown status; polling is best-effort.
func (p *Provider) CheckStatus(ctx context.Context, providerPaymentID string) (*provider.StatusResult, error) {
	url := fmt.Sprintf("%s/payment/%s/status", p.cfg.BaseURL, providerPaymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &provider.StatusResult{Status: core.PaymentStatusUnknown}, nil
	}

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
	Status   string `json:"status"`
	OrderID  string `json:"order_id"`
	PayToken string `json:"pay_token"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// ProcessWebhook verifies the notification signature when present and maps
// the payload into the canonical event shape.
func (p *Provider) ProcessWebhook(payload []byte, signature string) (*core.WebhookEvent, error) {
	if signature != "" && !security.VerifyWebhookSignature(payload, signature, p.webhookSecret) {
		return nil, core.ErrInvalidSignature
	}

	var body webhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest,
			fmt.Errorf("failed to parse webhook payload: %w", err))
	}

	event := core.EventPaymentFailed
	if body.Status == "SUCCESS" {
		event = core.EventPaymentCompleted
	}

	return &core.WebhookEvent{
		Event: event,
		Data: core.WebhookEventData{
			ID:                body.OrderID,
			ProviderPaymentID: body.PayToken,
			Status:            mapStatus(body.Status),
			Amount:            body.Amount,
			Currency:          core.Currency(body.Currency),
		},
	}, nil
}

// mapStatus translates the Orange status vocabulary into the canonical enum.
// Unmapped values stay pending, the conservative default.
func mapStatus(status string) core.PaymentStatus {
	switch status {
	case "SUCCESS":
		return core.PaymentStatusCompleted
	case "PENDING":
		return core.PaymentStatusPending
	case "FAILED":
		return core.PaymentStatusFailed
	case "CANCELLED":
		return core.PaymentStatusCancelled
	default:
		return core.PaymentStatusPending
	}
}

// getAccessToken exchanges client credentials for a bearer token.
func (p *Provider) getAccessToken(ctx context.Context) (string, error) {
	body := bytes.NewReader([]byte(`{"grant_type":"client_credentials"}`))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/oauth/token", body)
	if err != nil {
		return "", core.NewProviderError(providerKey, core.ProviderErrInvalidRequest, err)
	}
	req.SetBasicAuth(p.cfg.ClientID, p.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", core.NewProviderError(providerKey, core.ProviderErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", core.NewProviderError(providerKey, core.ProviderErrAuthenticationFailed,
			fmt.Errorf("token request rejected with status %d", resp.StatusCode))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", core.NewProviderError(providerKey, core.ProviderErrNetwork,
			fmt.Errorf("failed to parse token response: %w", err))
	}
	if tokenResp.AccessToken == "" {
		return "", core.NewProviderError(providerKey, core.ProviderErrAuthenticationFailed,
			fmt.Errorf("empty access token"))
	}
	return tokenResp.AccessToken, nil
}
