// Package openaiclient adapts the go-openai client to the Provider
// interface. Use it when the official client's retry/transport behavior is
// preferred over the zero-dependency adapter in provider/openaicompat.
package openaiclient

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ineyio/askimage"
)

// Provider wraps a go-openai client.
type Provider struct {
	name    string
	baseURL string
}

var _ askimage.Provider = (*Provider)(nil)

// New creates a provider for an OpenAI-compatible endpoint.
func New(name, baseURL string) *Provider {
	return &Provider{name: name, baseURL: baseURL}
}

// NewGroq creates a provider for Groq.
func NewGroq() *Provider {
	return New("groq", askimage.DefaultBaseURL)
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) ChatCompletion(ctx context.Context, req askimage.ProviderRequest) (askimage.ProviderResponse, error) {
	clientCfg := openai.DefaultConfig(req.Auth.APIKey)
	clientCfg.BaseURL = p.baseURL
	client := openai.NewClientWithConfig(clientCfg)

	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = toClientMessage(m)
	}

	ccReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: msgs,
	}
	if req.Temperature != nil {
		ccReq.Temperature = float32(*req.Temperature)
	}
	if req.MaxTokens != nil {
		ccReq.MaxTokens = *req.MaxTokens
	}

	resp, err := client.CreateChatCompletion(ctx, ccReq)
	if err != nil {
		return askimage.ProviderResponse{}, mapClientError(err)
	}

	if len(resp.Choices) == 0 {
		return askimage.ProviderResponse{}, fmt.Errorf("askimage: empty choices in response")
	}

	return askimage.ProviderResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage: askimage.Usage{
			PromptTokens:     int64(resp.Usage.PromptTokens),
			CompletionTokens: int64(resp.Usage.CompletionTokens),
			TotalTokens:      int64(resp.Usage.TotalTokens),
		},
	}, nil
}

func toClientMessage(m askimage.Message) openai.ChatCompletionMessage {
	parts := make([]openai.ChatMessagePart, 0, len(m.Parts))
	for _, p := range m.Parts {
		switch p.Type {
		case askimage.PartText:
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: p.Text,
			})
		case askimage.PartImage:
			if p.ImageURL == nil {
				continue
			}
			parts = append(parts, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: p.ImageURL.URL},
			})
		}
	}
	return openai.ChatCompletionMessage{Role: m.Role, MultiContent: parts}
}

func mapClientError(err error) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return askimage.ErrProviderUnavailable
	}

	switch apiErr.HTTPStatusCode {
	case 429:
		return askimage.ErrRateLimited
	case 401, 403:
		return askimage.ErrAuthFailed
	case 400:
		return fmt.Errorf("%w: %s", askimage.ErrInvalidRequest, apiErr.Message)
	default:
		return askimage.ErrProviderUnavailable
	}
}
