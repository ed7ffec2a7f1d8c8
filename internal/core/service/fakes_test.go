package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/payfuse/payment-gateway/internal/core"
	"github.com/payfuse/payment-gateway/internal/port/output"
	"github.com/payfuse/payment-gateway/internal/provider"
)

// fakePaymentRepo is an in-memory PaymentRepository mirroring the database
// adapter's transition semantics, including the conditional completed_at.
type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*core.Payment

	createErr     error
	transitionErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*core.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *core.Payment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*core.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, core.ErrPaymentNotFound
	}
	cp := *payment
	return &cp, nil
}

func (r *fakePaymentRepo) List(_ context.Context, userID string, limit int) ([]core.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Payment
	for _, payment := range r.payments {
		if payment.UserID == userID {
			out = append(out, *payment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePaymentRepo) SetProviderDetails(_ context.Context, id uuid.UUID, providerPaymentID, paymentURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return core.ErrPaymentNotFound
	}
	payment.ProviderPaymentID = providerPaymentID
	payment.PaymentURL = paymentURL
	return nil
}

func (r *fakePaymentRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to core.PaymentStatus, completedAt *time.Time) error {
	if r.transitionErr != nil {
		return r.transitionErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return core.ErrPaymentNotFound
	}
	if payment.Status != from {
		return fmt.Errorf("expected status %s, found %s: %w", from, payment.Status, core.ErrAlreadyProcessed)
	}
	payment.Status = to
	if completedAt != nil && payment.CompletedAt == nil {
		payment.CompletedAt = completedAt
	}
	return nil
}

// get returns the stored record without the copy GetByID makes.
func (r *fakePaymentRepo) get(id uuid.UUID) *core.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payments[id]
}

func (r *fakePaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}

// fakeWebhookRepo is an in-memory WebhookRepository.
type fakeWebhookRepo struct {
	mu       sync.Mutex
	webhooks map[uuid.UUID]*core.Webhook
}

func newFakeWebhookRepo() *fakeWebhookRepo {
	return &fakeWebhookRepo{webhooks: make(map[uuid.UUID]*core.Webhook)}
}

func (r *fakeWebhookRepo) Create(_ context.Context, webhook *core.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *webhook
	r.webhooks[webhook.ID] = &cp
	return nil
}

func (r *fakeWebhookRepo) GetByID(_ context.Context, id uuid.UUID) (*core.Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	webhook, ok := r.webhooks[id]
	if !ok {
		return nil, core.ErrWebhookNotFound
	}
	cp := *webhook
	return &cp, nil
}

func (r *fakeWebhookRepo) List(_ context.Context, userID string) ([]core.Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Webhook
	for _, webhook := range r.webhooks {
		if webhook.UserID == userID {
			out = append(out, *webhook)
		}
	}
	return out, nil
}

func (r *fakeWebhookRepo) Update(_ context.Context, webhook *core.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.webhooks[webhook.ID]; !ok {
		return core.ErrWebhookNotFound
	}
	cp := *webhook
	r.webhooks[webhook.ID] = &cp
	return nil
}

func (r *fakeWebhookRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.webhooks[id]; !ok {
		return core.ErrWebhookNotFound
	}
	delete(r.webhooks, id)
	return nil
}

func (r *fakeWebhookRepo) ListActiveByEvent(_ context.Context, event string) ([]core.Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Webhook
	for _, webhook := range r.webhooks {
		if webhook.IsActive() && webhook.SubscribedTo(event) {
			out = append(out, *webhook)
		}
	}
	return out, nil
}

func (r *fakeWebhookRepo) RecordDelivery(_ context.Context, id uuid.UUID, success bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	webhook, ok := r.webhooks[id]
	if !ok {
		return core.ErrWebhookNotFound
	}
	webhook.DeliveryCount++
	if !success {
		webhook.FailureCount++
	}
	webhook.LastDelivery = &at
	return nil
}

// fakeMessaging records published delivery jobs.
type fakeMessaging struct {
	mu         sync.Mutex
	jobs       []output.DeliveryJob
	publishErr error
}

func (m *fakeMessaging) PublishDelivery(_ context.Context, job output.DeliveryJob) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *fakeMessaging) Close() error { return nil }

func (m *fakeMessaging) published() []output.DeliveryJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]output.DeliveryJob(nil), m.jobs...)
}

// fakeProvider is a scriptable PaymentProvider.
type fakeProvider struct {
	key           string
	requiresPhone bool

	createResult *provider.CreateResult
	createErr    error
	createCalls  int

	statusResult *provider.StatusResult
	statusErr    error

	webhookEvent *core.WebhookEvent
	webhookErr   error
}

func (p *fakeProvider) Name() string        { return p.key }
func (p *fakeProvider) Key() string         { return p.key }
func (p *fakeProvider) RequiresPhone() bool { return p.requiresPhone }

func (p *fakeProvider) CreatePayment(_ context.Context, _ *core.Payment) (*provider.CreateResult, error) {
	p.createCalls++
	if p.createErr != nil {
		return nil, p.createErr
	}
	return p.createResult, nil
}

func (p *fakeProvider) CheckStatus(_ context.Context, _ string) (*provider.StatusResult, error) {
	if p.statusErr != nil {
		return nil, p.statusErr
	}
	return p.statusResult, nil
}

func (p *fakeProvider) ProcessWebhook(_ []byte, _ string) (*core.WebhookEvent, error) {
	if p.webhookErr != nil {
		return nil, p.webhookErr
	}
	return p.webhookEvent, nil
}
