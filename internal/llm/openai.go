package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/amishk599/crucible/internal/model"
)

// OpenAIProvider calls an OpenAI-compatible /chat/completions endpoint through the SDK.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a provider targeting baseURL. The SDK's own retry
// loop is disabled; a failed request is reported as is.
func NewOpenAIProvider(baseURL, apiKey, modelName string, httpClient *http.Client) *OpenAIProvider {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)
	return &OpenAIProvider{client: client, model: modelName}
}

// Complete sends prompt and returns the content of the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(p.model),
		Messages:  []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		MaxTokens: openai.Int(maxTokens),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &model.HTTPError{StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", fmt.Errorf("openai request: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty openai response", model.ErrProviderData)
	}

	return completion.Choices[0].Message.Content, nil
}
