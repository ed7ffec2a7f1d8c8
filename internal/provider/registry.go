package provider

import (
	"strings"

	"github.com/payfuse/payment-gateway/internal/core"
)

// Registry maps provider identifiers to adapter instances. It is built once
// at startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	providers map[string]PaymentProvider
	keys      []string
}

// NewRegistry builds a registry from the given adapters, preserving
// registration order for SupportedProviders.
func NewRegistry(providers ...PaymentProvider) *Registry {
	r := &Registry{providers: make(map[string]PaymentProvider, len(providers))}
	for _, p := range providers {
		key := strings.ToLower(p.Key())
		if _, exists := r.providers[key]; exists {
			continue
		}
		r.providers[key] = p
		r.keys = append(r.keys, key)
	}
	return r
}

// Get resolves a provider by identifier, case-insensitively.
func (r *Registry) Get(name string) (PaymentProvider, error) {
	p, ok := r.providers[strings.ToLower(name)]
	if !ok {
		return nil, &core.UnsupportedProviderError{Name: name}
	}
	return p, nil
}

// SupportedProviders enumerates registered identifiers in registration order.
func (r *Registry) SupportedProviders() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}
