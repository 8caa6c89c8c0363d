package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/crucible/internal/model"
)

// Config is the root configuration for crucible. Every value can come from the
// optional YAML file or the environment; the environment wins.
type Config struct {
	VaultPath    string
	JobPath      string
	LLM          LLMConfig
	Notification NotificationConfig
}

// LLMConfig selects one provider backend and holds the settings of each.
type LLMConfig struct {
	Provider  string // "anthropic" (alias "claude"), "openai" or "gemini"
	Anthropic ProviderConfig
	OpenAI    ProviderConfig
	Gemini    ProviderConfig
}

// ProviderConfig holds the credentials of one backend. The env tags name the
// variable reported when validation fails.
type ProviderConfig struct {
	APIKey  string        `env:"API_KEY" validate:"required"`
	BaseURL string        `env:"BASE_URL" validate:"required,url"`
	Model   string        `env:"MODEL" validate:"required"`
	Timeout time.Duration `env:"TIMEOUT" validate:"gt=0"`

	timeoutErr error
}

// NotificationConfig controls which notifier receives run reports.
type NotificationConfig struct {
	Type       string // "log" or "slack"
	WebhookURL string // required if type is "slack"
}

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"

	defaultTimeout        = 60 * time.Second
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultGeminiBaseURL  = "https://generativelanguage.googleapis.com"
	defaultGeminiModel    = "gemini-1.5-flash"
	defaultVaultPath      = "."
	defaultNotifierType   = "log"
	slackWebhookURLPrefix = "https://hooks.slack.com/"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	VaultPath    string          `yaml:"vault_path"`
	JobPath      string          `yaml:"job_path"`
	LLM          rawLLMConfig    `yaml:"llm"`
	Notification rawNotification `yaml:"notification"`
}

type rawLLMConfig struct {
	Provider  string            `yaml:"provider"`
	Anthropic rawProviderConfig `yaml:"anthropic"`
	OpenAI    rawProviderConfig `yaml:"openai"`
	Gemini    rawProviderConfig `yaml:"gemini"`
}

type rawProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

type rawNotification struct {
	Type       string `yaml:"type"`
	WebhookURL string `yaml:"webhook_url"`
}

// Load builds the configuration. path may be empty, in which case only the
// environment and defaults are used. Provider credentials are not checked here;
// see ProviderConfig.Validate.
func Load(path string) (*Config, error) {
	var raw rawConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		// Expand environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	overlayEnv(&raw)

	anthropic := buildProvider("ANTHROPIC", raw.LLM.Anthropic, "", "")
	openai := buildProvider("OPENAI", raw.LLM.OpenAI, defaultOpenAIBaseURL, defaultOpenAIModel)
	gemini := buildProvider("GEMINI", raw.LLM.Gemini, defaultGeminiBaseURL, defaultGeminiModel)

	cfg := &Config{
		VaultPath: raw.VaultPath,
		JobPath:   raw.JobPath,
		LLM: LLMConfig{
			Provider:  normalizeProvider(raw.LLM.Provider),
			Anthropic: anthropic,
			OpenAI:    openai,
			Gemini:    gemini,
		},
		Notification: NotificationConfig{
			Type:       raw.Notification.Type,
			WebhookURL: raw.Notification.WebhookURL,
		},
	}
	if cfg.VaultPath == "" {
		cfg.VaultPath = defaultVaultPath
	}
	if cfg.Notification.Type == "" {
		cfg.Notification.Type = defaultNotifierType
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlayEnv replaces file values with any non-empty environment variable.
func overlayEnv(raw *rawConfig) {
	setFromEnv(&raw.VaultPath, "VAULT_PATH")
	setFromEnv(&raw.JobPath, "JOB_PATH")
	setFromEnv(&raw.LLM.Provider, "LLM_PROVIDER")
	setFromEnv(&raw.Notification.Type, "CRUCIBLE_NOTIFY")
	setFromEnv(&raw.Notification.WebhookURL, "CRUCIBLE_SLACK_WEBHOOK")

	for prefix, p := range map[string]*rawProviderConfig{
		"ANTHROPIC": &raw.LLM.Anthropic,
		"OPENAI":    &raw.LLM.OpenAI,
		"GEMINI":    &raw.LLM.Gemini,
	} {
		setFromEnv(&p.APIKey, prefix+"_API_KEY")
		setFromEnv(&p.BaseURL, prefix+"_BASE_URL")
		setFromEnv(&p.Model, prefix+"_MODEL")
		setFromEnv(&p.Timeout, prefix+"_TIMEOUT")
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// buildProvider fills defaults. A malformed timeout is kept as an error on the
// returned config and only surfaces when that provider is selected.
func buildProvider(prefix string, raw rawProviderConfig, defaultBaseURL, defaultModel string) ProviderConfig {
	p := ProviderConfig{
		APIKey:  raw.APIKey,
		BaseURL: raw.BaseURL,
		Model:   raw.Model,
		Timeout: defaultTimeout,
	}
	if raw.Timeout != "" {
		d, err := parseTimeout(raw.Timeout)
		if err != nil {
			p.timeoutErr = fmt.Errorf("%w: parse %s_TIMEOUT %q: %v", model.ErrConfig, prefix, raw.Timeout, err)
		} else {
			p.Timeout = d
		}
	}
	if p.BaseURL == "" {
		p.BaseURL = defaultBaseURL
	}
	if p.Model == "" {
		p.Model = defaultModel
	}
	return p
}

// parseTimeout accepts a Go duration ("90s") or a number of seconds ("60", "2.5").
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}

func normalizeProvider(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "claude":
		return ProviderAnthropic
	default:
		return name
	}
}

func validate(cfg *Config) error {
	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("%w: notification.webhook_url is required when type is \"slack\"", model.ErrConfig)
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, slackWebhookURLPrefix) {
			return fmt.Errorf("%w: notification.webhook_url must start with %s", model.ErrConfig, slackWebhookURLPrefix)
		}
	default:
		return fmt.Errorf("%w: unsupported notification.type %q", model.ErrConfig, cfg.Notification.Type)
	}
	return nil
}

// Selected returns the settings of the configured provider, or the error from
// parsing that provider's timeout.
func (l LLMConfig) Selected() (ProviderConfig, error) {
	var p ProviderConfig
	switch l.Provider {
	case ProviderAnthropic:
		p = l.Anthropic
	case ProviderOpenAI:
		p = l.OpenAI
	case ProviderGemini:
		p = l.Gemini
	default:
		return ProviderConfig{}, fmt.Errorf("%w: unsupported LLM_PROVIDER %q", model.ErrConfig, l.Provider)
	}
	if p.timeoutErr != nil {
		return ProviderConfig{}, p.timeoutErr
	}
	return p, nil
}

var providerValidator = newProviderValidator()

func newProviderValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("env")
	})
	return v
}

// Validate checks that every required credential is present. envPrefix is the
// provider's variable prefix, e.g. "ANTHROPIC"; it is used to name the missing
// variable in the returned error, which wraps model.ErrConfig.
func (p ProviderConfig) Validate(envPrefix string) error {
	err := providerValidator.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", model.ErrConfig, err)
	}
	fe := verrs[0]
	name := envPrefix + "_" + fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", model.ErrConfig, name)
	default:
		return fmt.Errorf("%w: %s is invalid (%s)", model.ErrConfig, name, fe.Tag())
	}
}

// EnvPrefix returns the environment variable prefix for a provider name.
func EnvPrefix(provider string) string {
	return strings.ToUpper(provider)
}
