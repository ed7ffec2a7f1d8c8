package mtn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/payfuse/payment-gateway/internal/config"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(baseURL, env string) *Provider {
	return New(config.MTNMoMoConfig{
		APIKey:      "momo-key",
		BaseURL:     baseURL,
		Environment: env,
		Timeout:     5 * time.Second,
	})
}

func TestCreatePayment(t *testing.T) {
	var (
		referenceHeader string
		targetEnv       string
		reqBody         map[string]any
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collection/v1_0/requesttopay", r.URL.Path)
		assert.Equal(t, "Bearer momo-key", r.Header.Get("Authorization"))
		referenceHeader = r.Header.Get("X-Reference-Id")
		targetEnv = r.Header.Get("X-Target-Environment")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	payment := &core.Payment{
		ID:       uuid.New(),
		Amount:   2_500,
		Currency: core.CurrencyXOF,
		Phone:    "+221771234567",
	}

	result, err := newTestProvider(srv.URL, "sandbox").CreatePayment(context.Background(), payment)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(referenceHeader, "mtn_"))
	assert.Equal(t, referenceHeader, result.ProviderPaymentID)
	assert.Equal(t, "mtn://pay?ref="+referenceHeader, result.PaymentURL)
	assert.Equal(t, "sandbox", targetEnv)

	assert.Equal(t, "2500", reqBody["amount"], "MoMo amounts go over the wire as strings")
	assert.Equal(t, payment.ID.String(), reqBody["externalId"])
	payer := reqBody["payer"].(map[string]any)
	assert.Equal(t, "MSISDN", payer["partyIdType"])
	assert.Equal(t, "221771234567", payer["partyId"], "MSISDN is sent without the plus prefix")
}

func TestCreatePaymentProductionTargetsLive(t *testing.T) {
	var targetEnv string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		targetEnv = r.Header.Get("X-Target-Environment")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL, "production").CreatePayment(context.Background(), &core.Payment{ID: uuid.New(), Phone: "+221771234567"})
	require.NoError(t, err)
	assert.Equal(t, "live", targetEnv)
}

func TestCreatePaymentAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL, "sandbox").CreatePayment(context.Background(), &core.Payment{ID: uuid.New()})

	var providerErr *core.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, core.ProviderErrAuthenticationFailed, providerErr.Kind)
	assert.Equal(t, "mtn_momo", providerErr.Provider)
}

func TestCreatePaymentRejectedRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL, "sandbox").CreatePayment(context.Background(), &core.Payment{ID: uuid.New()})

	var providerErr *core.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, core.ProviderErrInvalidRequest, providerErr.Kind)
}

func TestCheckStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collection/v1_0/requesttopay/mtn_ref", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "SUCCESSFUL"})
	}))
	defer srv.Close()

	result, err := newTestProvider(srv.URL, "sandbox").CheckStatus(context.Background(), "mtn_ref")
	require.NoError(t, err)
	assert.Equal(t, core.PaymentStatusCompleted, result.Status)
}

func TestCheckStatusDegradesToUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	result, err := newTestProvider(srv.URL, "sandbox").CheckStatus(context.Background(), "mtn_ref")
	require.NoError(t, err)
	assert.Equal(t, core.PaymentStatusUnknown, result.Status)
}

func TestProcessWebhook(t *testing.T) {
	payload := []byte(`{
		"status": "SUCCESSFUL",
		"externalId": "pay-1",
		"financialTransactionId": "ft-42",
		"amount": "2500",
		"currency": "XOF"
	}`)

	event, err := newTestProvider("http://unused", "sandbox").ProcessWebhook(payload, "")
	require.NoError(t, err)

	assert.Equal(t, core.EventPaymentCompleted, event.Event)
	assert.Equal(t, "pay-1", event.Data.ID)
	assert.Equal(t, "ft-42", event.Data.ProviderPaymentID)
	assert.Equal(t, core.PaymentStatusCompleted, event.Data.Status)
	assert.Equal(t, int64(2_500), event.Data.Amount)
}

func TestProcessWebhookStatusMapping(t *testing.T) {
	tests := []struct {
		providerStatus string
		event          string
		status         core.PaymentStatus
	}{
		{"SUCCESSFUL", core.EventPaymentCompleted, core.PaymentStatusCompleted},
		{"PENDING", core.EventPaymentFailed, core.PaymentStatusPending},
		{"FAILED", core.EventPaymentFailed, core.PaymentStatusFailed},
		{"REJECTED", core.EventPaymentFailed, core.PaymentStatusFailed},
		{"TIMEOUT", core.EventPaymentFailed, core.PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.providerStatus, func(t *testing.T) {
			payload, _ := json.Marshal(map[string]any{"status": tt.providerStatus, "externalId": "pay-1", "amount": "0"})
			event, err := newTestProvider("http://unused", "sandbox").ProcessWebhook(payload, "")
			require.NoError(t, err)
			assert.Equal(t, tt.event, event.Event)
			assert.Equal(t, tt.status, event.Data.Status)
		})
	}
}
