package llm

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/amishk599/crucible/internal/model"
)

const geminiDefaultHost = "generativelanguage.googleapis.com"

// GeminiProvider calls Google Gemini with a JSON response MIME type.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiProvider dials the Gemini API. baseURL may point at a non-default
// host; an empty baseURL or the public host keeps the SDK default endpoint.
func NewGeminiProvider(ctx context.Context, baseURL, apiKey, modelName string, timeout time.Duration) (*GeminiProvider, error) {
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	endpoint, err := geminiEndpoint(baseURL)
	if err != nil {
		return nil, err
	}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: modelName, timeout: timeout}, nil
}

// geminiEndpoint turns a base URL into the host:port form the SDK expects.
func geminiEndpoint(baseURL string) (string, error) {
	if baseURL == "" {
		return "", nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: GEMINI_BASE_URL %q: %v", model.ErrConfig, baseURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: GEMINI_BASE_URL %q has no host (expected e.g. https://host:port)", model.ErrConfig, baseURL)
	}
	if u.Hostname() == geminiDefaultHost {
		return "", nil
	}
	port := u.Port()
	if port == "" {
		port = "443"
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// Complete sends prompt and returns the first text part of the first candidate.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	m := p.client.GenerativeModel(p.model)
	m.SetMaxOutputTokens(maxTokens)
	m.ResponseMIMEType = "application/json"

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	return firstText(resp)
}

// firstText returns the first text part of the first candidate.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: empty gemini response", model.ErrProviderData)
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty gemini response", model.ErrProviderData)
	}

	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			return string(t), nil
		}
	}
	return "", fmt.Errorf("%w: gemini response has no text part", model.ErrProviderData)
}

// Close releases the underlying gRPC connection.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}
