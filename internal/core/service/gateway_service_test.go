package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/payfuse/payment-gateway/internal/port/input"
	"github.com/payfuse/payment-gateway/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validRequest() input.CreatePaymentRequest {
	return input.CreatePaymentRequest{
		UserID:      "user-1",
		Amount:      10_000,
		Currency:    core.CurrencyXOF,
		Provider:    "orange_money",
		Phone:       "+221771234567",
		Description: "order 42",
	}
}

func newGateway(repo *fakePaymentRepo, providers ...provider.PaymentProvider) input.PaymentService {
	return NewGatewayService(repo, provider.NewRegistry(providers...), zap.NewNop())
}

func TestCreatePaymentSuccess(t *testing.T) {
	repo := newFakePaymentRepo()
	adapter := &fakeProvider{
		key:           "orange_money",
		requiresPhone: true,
		createResult:  &provider.CreateResult{ProviderPaymentID: "OM-789", PaymentURL: "https://pay.example/OM-789"},
	}

	payment, err := newGateway(repo, adapter).CreatePayment(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, core.PaymentStatusPending, payment.Status)
	assert.Equal(t, "OM-789", payment.ProviderPaymentID)
	assert.Equal(t, "https://pay.example/OM-789", payment.PaymentURL)
	assert.Equal(t, 1, adapter.createCalls)

	stored := repo.get(payment.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "OM-789", stored.ProviderPaymentID)
	assert.Equal(t, core.PaymentStatusPending, stored.Status)
}

func TestCreatePaymentValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*input.CreatePaymentRequest)
		field  string
	}{
		{"zero amount", func(r *input.CreatePaymentRequest) { r.Amount = 0 }, "amount"},
		{"negative amount", func(r *input.CreatePaymentRequest) { r.Amount = -100 }, "amount"},
		{"amount over cap", func(r *input.CreatePaymentRequest) { r.Amount = 10_000_001 }, "amount"},
		{"wrong currency", func(r *input.CreatePaymentRequest) { r.Currency = "EUR" }, "currency"},
		{"bad phone", func(r *input.CreatePaymentRequest) { r.Phone = "0771234567" }, "phone"},
		{"missing phone", func(r *input.CreatePaymentRequest) { r.Phone = "" }, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakePaymentRepo()
			adapter := &fakeProvider{key: "orange_money", requiresPhone: true}

			req := validRequest()
			tt.mutate(&req)

			_, err := newGateway(repo, adapter).CreatePayment(context.Background(), req)

			var vErr *core.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Zero(t, repo.count(), "validation failure must not write anything")
			assert.Zero(t, adapter.createCalls, "validation failure must not reach the provider")
		})
	}
}

func TestCreatePaymentUnsupportedProvider(t *testing.T) {
	repo := newFakePaymentRepo()
	req := validRequest()
	req.Provider = "discarded_money"

	_, err := newGateway(repo, &fakeProvider{key: "orange_money"}).CreatePayment(context.Background(), req)

	var uErr *core.UnsupportedProviderError
	require.ErrorAs(t, err, &uErr)
	assert.Equal(t, "discarded_money", uErr.Name)
	assert.Zero(t, repo.count())
}

func TestCreatePaymentProviderFailureMarksFailed(t *testing.T) {
	repo := newFakePaymentRepo()
	adapter := &fakeProvider{
		key:           "orange_money",
		requiresPhone: true,
		createErr:     core.NewProviderError("orange_money", core.ProviderErrNetwork, errors.New("connection reset")),
	}

	_, err := newGateway(repo, adapter).CreatePayment(context.Background(), validRequest())

	var providerErr *core.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, core.ProviderErrNetwork, providerErr.Kind)

	require.Equal(t, 1, repo.count(), "the pending record must survive the failure")
	for _, payment := range repo.payments {
		assert.Equal(t, core.PaymentStatusFailed, payment.Status)
		assert.Empty(t, payment.PaymentURL)
		assert.Empty(t, payment.ProviderPaymentID)
	}
}

func TestCreatePaymentPhonelessProvider(t *testing.T) {
	repo := newFakePaymentRepo()
	adapter := &fakeProvider{
		key:          "algorand",
		createResult: &provider.CreateResult{ProviderPaymentID: "algo_1", PaymentURL: "https://explorer.example/tx/algo_1"},
	}

	req := validRequest()
	req.Provider = "algorand"
	req.Phone = ""

	payment, err := newGateway(repo, adapter).CreatePayment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "algo_1", payment.ProviderPaymentID)
}

func TestCreatePaymentSanitizesDescription(t *testing.T) {
	repo := newFakePaymentRepo()
	adapter := &fakeProvider{
		key:           "orange_money",
		requiresPhone: true,
		createResult:  &provider.CreateResult{ProviderPaymentID: "OM-1"},
	}

	req := validRequest()
	req.Description = `  <script>alert("x")</script> order  `

	payment, err := newGateway(repo, adapter).CreatePayment(context.Background(), req)
	require.NoError(t, err)
	assert.NotContains(t, payment.Description, "<")
	assert.NotContains(t, payment.Description, `"`)
}

func TestListPaymentsLimitBounds(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newGateway(repo, &fakeProvider{key: "orange_money"})

	_, err := svc.ListPayments(context.Background(), "user-1", -5)
	require.NoError(t, err)
	_, err = svc.ListPayments(context.Background(), "user-1", 10_000)
	require.NoError(t, err)
}

func TestCheckStatusBeforeInitiation(t *testing.T) {
	repo := newFakePaymentRepo()
	payment := &core.Payment{ID: uuid.New(), UserID: "user-1", Status: core.PaymentStatusPending}
	require.NoError(t, repo.Create(context.Background(), payment))

	result, err := newGateway(repo, &fakeProvider{key: "orange_money"}).CheckStatus(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, core.PaymentStatusUnknown, result.Status, "no provider reference yet means unknown")
}

func TestCheckStatusUnknownPayment(t *testing.T) {
	repo := newFakePaymentRepo()
	_, err := newGateway(repo, &fakeProvider{key: "orange_money"}).CheckStatus(context.Background(), uuid.New())
	assert.ErrorIs(t, err, core.ErrPaymentNotFound)
}

func TestCheckStatusDelegatesToProvider(t *testing.T) {
	repo := newFakePaymentRepo()
	adapter := &fakeProvider{
		key:          "orange_money",
		statusResult: &provider.StatusResult{Status: core.PaymentStatusCompleted},
	}

	payment := &core.Payment{
		ID:                uuid.New(),
		Provider:          "orange_money",
		Status:            core.PaymentStatusPending,
		ProviderPaymentID: "OM-789",
	}
	require.NoError(t, repo.Create(context.Background(), payment))

	result, err := newGateway(repo, adapter).CheckStatus(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, core.PaymentStatusCompleted, result.Status)
}

func TestSupportedProviders(t *testing.T) {
	svc := newGateway(newFakePaymentRepo(),
		&fakeProvider{key: "orange_money"}, &fakeProvider{key: "wave"})
	assert.Equal(t, []string{"orange_money", "wave"}, svc.SupportedProviders())
}
