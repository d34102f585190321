package mock

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ineyio/askimage"
)

// Provider is a mock chat provider for testing.
type Provider struct {
	name         string
	latency      time.Duration
	failAfter    int
	callCount    atomic.Int64
	staticErr    error
	usage        askimage.Usage
	responseFunc func(askimage.ProviderRequest) (askimage.ProviderResponse, error)
}

var _ askimage.Provider = (*Provider)(nil)

// Option configures a mock Provider.
type Option func(*Provider)

// New creates a mock provider with the given options.
func New(opts ...Option) *Provider {
	p := &Provider{
		name: "mock",
		usage: askimage.Usage{
			PromptTokens:     10,
			CompletionTokens: 20,
			TotalTokens:      30,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithName sets the provider name.
func WithName(name string) Option {
	return func(p *Provider) { p.name = name }
}

// WithLatency adds simulated latency to each call.
func WithLatency(d time.Duration) Option {
	return func(p *Provider) { p.latency = d }
}

// WithFailAfter makes the provider fail after N successful calls.
func WithFailAfter(n int) Option {
	return func(p *Provider) { p.failAfter = n }
}

// WithError makes the provider always return this error.
func WithError(err error) Option {
	return func(p *Provider) { p.staticErr = err }
}

// WithUsage sets the usage returned by the mock.
func WithUsage(u askimage.Usage) Option {
	return func(p *Provider) { p.usage = u }
}

// WithResponseFunc sets a custom response function.
func WithResponseFunc(fn func(askimage.ProviderRequest) (askimage.ProviderResponse, error)) Option {
	return func(p *Provider) { p.responseFunc = fn }
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) ChatCompletion(ctx context.Context, req askimage.ProviderRequest) (askimage.ProviderResponse, error) {
	if p.latency > 0 {
		select {
		case <-time.After(p.latency):
		case <-ctx.Done():
			return askimage.ProviderResponse{}, ctx.Err()
		}
	}

	count := p.callCount.Add(1)

	if p.staticErr != nil {
		return askimage.ProviderResponse{}, p.staticErr
	}

	if p.failAfter > 0 && int(count) > p.failAfter {
		return askimage.ProviderResponse{}, askimage.ErrProviderUnavailable
	}

	if p.responseFunc != nil {
		return p.responseFunc(req)
	}

	return askimage.ProviderResponse{
		ID:           "mock-response-id",
		Content:      "Hello from mock provider",
		FinishReason: "stop",
		Usage:        p.usage,
		Model:        req.Model,
	}, nil
}

// CallCount returns the number of calls made to the provider.
func (p *Provider) CallCount() int64 { return p.callCount.Load() }
