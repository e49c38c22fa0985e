// Package providertest provides test helpers for the provider package.
package providertest

import (
	"context"
	"sync"

	"github.com/tripflow/tripflow/internal/provider"
)

// Mock is a configurable test double for provider.Provider. Set the Func
// fields to control behavior. Unset funcs panic on call. All methods are
// safe for concurrent use.
type Mock struct {
	GenerateFunc    func(ctx context.Context, req provider.Request) (provider.Response, error)
	HealthCheckFunc func(ctx context.Context) error

	mu            sync.Mutex
	generateCalls int
	healthCalls   int
	requests      []provider.Request
}

// Generate delegates to GenerateFunc and records the request.
func (m *Mock) Generate(ctx context.Context, req provider.Request) (provider.Response, error) {
	m.mu.Lock()
	m.generateCalls++
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.GenerateFunc(ctx, req)
}

// HealthCheck delegates to HealthCheckFunc and tracks the call count.
func (m *Mock) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	m.healthCalls++
	m.mu.Unlock()
	return m.HealthCheckFunc(ctx)
}

// GenerateCalls returns how many times Generate has been invoked.
func (m *Mock) GenerateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generateCalls
}

// Requests returns a copy of every request Generate has seen.
func (m *Mock) Requests() []provider.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]provider.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Interface guards.
var (
	_ provider.Provider      = (*Mock)(nil)
	_ provider.HealthChecker = (*Mock)(nil)
)
