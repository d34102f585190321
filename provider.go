package askimage

import "context"

// Provider is the interface that chat API adapters must implement.
type Provider interface {
	// Name returns the provider identifier (e.g. "groq", "openai").
	Name() string

	// ChatCompletion performs a synchronous chat completion.
	ChatCompletion(ctx context.Context, req ProviderRequest) (ProviderResponse, error)
}

// Auth holds authentication credentials for a provider account.
type Auth struct {
	APIKey string `yaml:"api_key" json:"api_key"`
}

// ProviderRequest is the request sent to a provider adapter.
type ProviderRequest struct {
	Auth     Auth
	Model    string
	Messages []Message

	Temperature *float64
	MaxTokens   *int
}

// ProviderResponse is the response from a provider adapter. Usage may be
// zero when the provider does not report token consumption; the caller
// falls back to estimates.
type ProviderResponse struct {
	ID           string
	Model        string
	Content      string
	FinishReason string
	Usage        Usage
}
