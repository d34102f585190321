// Package openaicompat provides a universal OpenAI-compatible chat adapter.
//
// It works with any endpoint speaking the OpenAI chat completions format,
// including Groq, OpenAI, Together, and Ollama, and supports multimodal
// user messages carrying image_url content parts.
package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ineyio/askimage"
)

// Provider is an OpenAI-compatible API adapter.
type Provider struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

var _ askimage.Provider = (*Provider)(nil)

// Option configures the provider.
type Option func(*Provider)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// New creates a new OpenAI-compatible provider.
func New(name, baseURL string, opts ...Option) *Provider {
	p := &Provider{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewGroq creates a provider for Groq.
func NewGroq(opts ...Option) *Provider {
	return New("groq", askimage.DefaultBaseURL, opts...)
}

// NewOpenAI creates a provider for OpenAI.
func NewOpenAI(opts ...Option) *Provider {
	return New("openai", "https://api.openai.com/v1", opts...)
}

func (p *Provider) Name() string { return p.name }

// apiRequest is the OpenAI chat completion request format.
type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Temperature *float64     `json:"temperature,omitempty"`
	MaxTokens   *int         `json:"max_tokens,omitempty"`
}

// apiMessage carries content as a part list so image_url parts can ride
// alongside text.
type apiMessage struct {
	Role    string    `json:"role"`
	Content []apiPart `json:"content"`
}

type apiPart struct {
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *apiImageURL `json:"image_url,omitempty"`
}

type apiImageURL struct {
	URL string `json:"url"`
}

// apiResponse is the OpenAI chat completion response format.
type apiResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int    `json:"index"`
		Message      struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

func (p *Provider) ChatCompletion(ctx context.Context, req askimage.ProviderRequest) (askimage.ProviderResponse, error) {
	body := p.buildRequest(req)

	httpResp, err := p.doRequest(ctx, req.Auth, body)
	if err != nil {
		return askimage.ProviderResponse{}, err
	}
	defer httpResp.Body.Close()

	if err := mapHTTPError(httpResp); err != nil {
		return askimage.ProviderResponse{}, err
	}

	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return askimage.ProviderResponse{}, fmt.Errorf("askimage: decode response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return askimage.ProviderResponse{}, fmt.Errorf("askimage: empty choices in response")
	}

	return askimage.ProviderResponse{
		ID:           resp.ID,
		Content:      resp.Choices[0].Message.Content,
		FinishReason: resp.Choices[0].FinishReason,
		Model:        resp.Model,
		Usage: askimage.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (p *Provider) buildRequest(req askimage.ProviderRequest) apiRequest {
	msgs := make([]apiMessage, len(req.Messages))
	for i, m := range req.Messages {
		parts := make([]apiPart, 0, len(m.Parts))
		for _, part := range m.Parts {
			ap := apiPart{Type: part.Type, Text: part.Text}
			if part.ImageURL != nil {
				ap.ImageURL = &apiImageURL{URL: part.ImageURL.URL}
			}
			parts = append(parts, ap)
		}
		msgs[i] = apiMessage{Role: m.Role, Content: parts}
	}
	return apiRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
}

func (p *Provider) doRequest(ctx context.Context, auth askimage.Auth, body apiRequest) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("askimage: marshal request: %w", err)
	}

	url := p.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("askimage: create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+auth.APIKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, askimage.ErrProviderUnavailable
	}

	return resp, nil
}

func mapHTTPError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Read body for error context, but don't fail if we can't.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return askimage.ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return askimage.ErrAuthFailed
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", askimage.ErrInvalidRequest, string(body))
	default:
		return askimage.ErrProviderUnavailable
	}
}
