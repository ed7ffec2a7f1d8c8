// Algorand ledger transfer adapter, the one phone-less provider. Transfers
// settle against the aggregator's on-chain account rather than a subscriber
// wallet, so no MSISDN is involved.
package algorand

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/payfuse/payment-gateway/internal/config"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/payfuse/payment-gateway/internal/provider"
	"github.com/payfuse/payment-gateway/pkg/security"
)

const providerKey = "algorand"

type Provider struct {
	cfg config.AlgorandConfig
}

func New(cfg config.AlgorandConfig) *Provider {
	return &Provider{cfg: cfg}
}

func (p *Provider) Name() string        { return "Algorand" }
func (p *Provider) Key() string         { return providerKey }
func (p *Provider) RequiresPhone() bool { return false }

// CreatePayment prepares an unsigned transfer reference. Settlement happens
// out of band once the customer's wallet signs and submits; the explorer URL
// doubles as the payment page.
func (p *Provider) CreatePayment(_ context.Context, payment *core.Payment) (*provider.CreateResult, error) {
	if p.cfg.Account == "" {
		return nil, core.NewProviderError(providerKey, core.ProviderErrAuthenticationFailed,
			fmt.Errorf("no receiving account configured"))
	}

	txID := security.GenerateTransactionID("algo")
	return &provider.CreateResult{
		ProviderPaymentID: txID,
		PaymentURL:        fmt.Sprintf("%s/tx/%s", p.cfg.ExplorerURL, txID),
	}, nil
}

// CheckStatus reports pending until a confirmation notification arrives;
// there is no poll endpoint for unsubmitted transfers.
func (p *Provider) CheckStatus(_ context.Context, providerPaymentID string) (*provider.StatusResult, error) {
	return &provider.StatusResult{
		Status:  core.PaymentStatusPending,
		Details: map[string]any{"tx_id": providerPaymentID},
	}, nil
}

type webhookPayload struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	TxID      string `json:"tx_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// ProcessWebhook maps a confirmation notification into the canonical shape.
func (p *Provider) ProcessWebhook(payload []byte, _ string) (*core.WebhookEvent, error) {
	var body webhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, core.NewProviderError(providerKey, core.ProviderErrInvalidRequest,
			fmt.Errorf("failed to parse webhook payload: %w", err))
	}

	event := core.EventPaymentFailed
	if body.Status == "confirmed" {
		event = core.EventPaymentCompleted
	}

	return &core.WebhookEvent{
		Event: event,
		Data: core.WebhookEventData{
			ID:                body.Reference,
			ProviderPaymentID: body.TxID,
			Status:            mapStatus(body.Status),
			Amount:            body.Amount,
			Currency:          core.Currency(body.Currency),
		},
	}, nil
}

func mapStatus(status string) core.PaymentStatus {
	switch status {
	case "confirmed":
		return core.PaymentStatusCompleted
	case "failed":
		return core.PaymentStatusFailed
	default:
		return core.PaymentStatusPending
	}
}
