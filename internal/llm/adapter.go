package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amishk599/crucible/internal/config"
	"github.com/amishk599/crucible/internal/model"
)

// Ensure Adapter implements model.JSONCaller.
var _ model.JSONCaller = (*Adapter)(nil)

// Adapter turns one prompt into one provider request and returns the reply as
// validated JSON bytes. The backend is resolved on the first call, so a run
// that never needs the provider never needs its credentials.
type Adapter struct {
	cfg      config.LLMConfig
	provider Provider
	logger   *slog.Logger
}

// NewAdapter returns an adapter for the provider selected in cfg.
func NewAdapter(cfg config.LLMConfig, logger *slog.Logger) *Adapter {
	return &Adapter{cfg: cfg, logger: logger}
}

// NewAdapterWithProvider returns an adapter bound to an already-built provider.
func NewAdapterWithProvider(p Provider, logger *slog.Logger) *Adapter {
	return &Adapter{provider: p, logger: logger}
}

// Call sends prompt and returns the trimmed reply text, which is guaranteed to
// be valid JSON. Configuration problems wrap model.ErrConfig and reply problems
// wrap model.ErrProviderData; transport errors are returned as the backend
// reported them.
func (a *Adapter) Call(ctx context.Context, prompt string) ([]byte, error) {
	p, err := a.resolve(ctx)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("llm request", "provider", a.cfg.Provider, "prompt_chars", len(prompt))

	raw, err := p.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	data, err := ParseJSON(raw)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("llm reply", "bytes", len(data))
	return data, nil
}

// Close releases backend resources, if the backend holds any.
func (a *Adapter) Close() error {
	if c, ok := a.provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (a *Adapter) resolve(ctx context.Context) (Provider, error) {
	if a.provider != nil {
		return a.provider, nil
	}
	p, err := NewProvider(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.provider = p
	return p, nil
}

// NewProvider builds the backend named by cfg.Provider after checking its
// required settings.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	pc, err := cfg.Selected()
	if err != nil {
		return nil, err
	}
	if err := pc.Validate(config.EnvPrefix(cfg.Provider)); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: pc.Timeout}
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicProvider(pc.BaseURL, pc.APIKey, pc.Model, httpClient), nil
	case config.ProviderOpenAI:
		return NewOpenAIProvider(pc.BaseURL, pc.APIKey, pc.Model, httpClient), nil
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, pc.BaseURL, pc.APIKey, pc.Model, pc.Timeout)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM_PROVIDER %q", model.ErrConfig, cfg.Provider)
	}
}

// ParseJSON trims surrounding whitespace from a reply and checks that what is
// left is a JSON document.
func ParseJSON(raw string) ([]byte, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty message text", model.ErrProviderData)
	}
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("%w: reply is not valid JSON: %.80q", model.ErrProviderData, text)
	}
	return []byte(text), nil
}
