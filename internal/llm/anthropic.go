package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/amishk599/crucible/internal/model"
)

const anthropicVersion = "2023-06-01"

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicProvider creates a provider targeting baseURL (e.g. https://api.anthropic.com).
func NewAnthropicProvider(baseURL, apiKey, modelName string, httpClient *http.Client) *AnthropicProvider {
	return &AnthropicProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      modelName,
		httpClient: httpClient,
	}
}

// messagesRequest mirrors the /v1/messages request body.
type messagesRequest struct {
	Model     string         `json:"model"`
	MaxTokens int            `json:"max_tokens"`
	Messages  []inputMessage `json:"messages"`
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse mirrors the relevant fields of the Anthropic response.
type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends prompt and returns the text of the first content block.
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := messagesRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		Messages:  []inputMessage{{Role: "user", Content: prompt}},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal anthropic request: %w", err)
	}

	url := p.baseURL + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create anthropic request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read anthropic response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("anthropic: %s", strings.TrimSpace(string(respBytes))),
		}
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(respBytes, &msgResp); err != nil {
		return "", fmt.Errorf("%w: parse anthropic response: %v", model.ErrProviderData, err)
	}

	if msgResp.Error != nil {
		return "", fmt.Errorf("anthropic error (%s): %s", msgResp.Error.Type, msgResp.Error.Message)
	}

	if len(msgResp.Content) == 0 {
		return "", fmt.Errorf("%w: empty anthropic response", model.ErrProviderData)
	}

	return msgResp.Content[0].Text, nil
}
