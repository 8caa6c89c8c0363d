package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/crucible/internal/model"
)

var envKeys = []string{
	"VAULT_PATH", "JOB_PATH", "LLM_PROVIDER", "CRUCIBLE_NOTIFY", "CRUCIBLE_SLACK_WEBHOOK",
	"ANTHROPIC_API_KEY", "ANTHROPIC_BASE_URL", "ANTHROPIC_MODEL", "ANTHROPIC_TIMEOUT",
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "OPENAI_TIMEOUT",
	"GEMINI_API_KEY", "GEMINI_BASE_URL", "GEMINI_MODEL", "GEMINI_TIMEOUT",
}

// clearEnv blanks every variable Load reads; empty values are treated as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.VaultPath != "." {
		t.Errorf("VaultPath = %q, want .", cfg.VaultPath)
	}
	if cfg.LLM.Provider != ProviderAnthropic {
		t.Errorf("Provider = %q, want anthropic", cfg.LLM.Provider)
	}
	if cfg.LLM.Anthropic.Timeout != 60*time.Second {
		t.Errorf("Anthropic.Timeout = %v, want 60s", cfg.LLM.Anthropic.Timeout)
	}
	if cfg.LLM.Anthropic.BaseURL != "" {
		t.Errorf("Anthropic.BaseURL = %q, want empty (no default)", cfg.LLM.Anthropic.BaseURL)
	}
	if cfg.LLM.OpenAI.BaseURL != defaultOpenAIBaseURL || cfg.LLM.OpenAI.Model != defaultOpenAIModel {
		t.Errorf("OpenAI = %+v", cfg.LLM.OpenAI)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("Notification.Type = %q, want log", cfg.Notification.Type)
	}
}

func TestLoad_FileValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
vault_path: /notes
job_path: /notes/02_Jobs/acme.md
llm:
  provider: openai
  openai:
    api_key: sk-file
    model: gpt-4.1-mini
    timeout: 90s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.VaultPath != "/notes" || cfg.JobPath != "/notes/02_Jobs/acme.md" {
		t.Errorf("paths = %q, %q", cfg.VaultPath, cfg.JobPath)
	}
	if cfg.LLM.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q, want openai", cfg.LLM.Provider)
	}
	if cfg.LLM.OpenAI.APIKey != "sk-file" || cfg.LLM.OpenAI.Model != "gpt-4.1-mini" {
		t.Errorf("OpenAI = %+v", cfg.LLM.OpenAI)
	}
	if cfg.LLM.OpenAI.Timeout != 90*time.Second {
		t.Errorf("OpenAI.Timeout = %v, want 90s", cfg.LLM.OpenAI.Timeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
vault_path: /from-file
llm:
  anthropic:
    model: file-model
`)
	t.Setenv("VAULT_PATH", "/from-env")
	t.Setenv("ANTHROPIC_MODEL", "env-model")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.VaultPath != "/from-env" {
		t.Errorf("VaultPath = %q, want /from-env", cfg.VaultPath)
	}
	if cfg.LLM.Anthropic.Model != "env-model" {
		t.Errorf("Anthropic.Model = %q, want env-model", cfg.LLM.Anthropic.Model)
	}
}

func TestLoad_ExpandsEnvInFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_SECRET", "sk-expanded")
	path := writeConfig(t, `
llm:
  anthropic:
    api_key: ${MY_SECRET}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Anthropic.APIKey != "sk-expanded" {
		t.Errorf("APIKey = %q, want sk-expanded", cfg.LLM.Anthropic.APIKey)
	}
}

func TestLoad_TimeoutAsSeconds(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_TIMEOUT", "12.5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Anthropic.Timeout != 12500*time.Millisecond {
		t.Errorf("Timeout = %v, want 12.5s", cfg.LLM.Anthropic.Timeout)
	}
}

func TestLoad_InvalidTimeoutReportedWhenSelected(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_TIMEOUT", "soon")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = cfg.LLM.Selected()
	if !errors.Is(err, model.ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
	if !strings.Contains(err.Error(), "OPENAI_TIMEOUT") {
		t.Errorf("err = %q, want mention of OPENAI_TIMEOUT", err)
	}
}

func TestLoad_InvalidTimeoutOfOtherProviderIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_TIMEOUT", "30")
	t.Setenv("GEMINI_TIMEOUT", "whenever")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, err := cfg.LLM.Selected()
	if err != nil {
		t.Fatalf("Selected: %v", err)
	}
	if p.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", p.Timeout)
	}
}

func TestLoad_ClaudeAlias(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "Claude")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Provider != ProviderAnthropic {
		t.Errorf("Provider = %q, want anthropic", cfg.LLM.Provider)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "vault_path: [broken")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_SlackRequiresWebhook(t *testing.T) {
	clearEnv(t)
	t.Setenv("CRUCIBLE_NOTIFY", "slack")

	_, err := Load("")
	if !errors.Is(err, model.ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestLoad_SlackWebhookMustBeSlack(t *testing.T) {
	clearEnv(t)
	t.Setenv("CRUCIBLE_NOTIFY", "slack")
	t.Setenv("CRUCIBLE_SLACK_WEBHOOK", "https://example.com/hook")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-slack webhook URL")
	}
}

func TestProviderConfigValidate(t *testing.T) {
	valid := ProviderConfig{
		APIKey:  "key",
		BaseURL: "https://api.anthropic.com",
		Model:   "claude-3-5-sonnet-latest",
		Timeout: time.Minute,
	}

	tests := []struct {
		name    string
		mutate  func(p *ProviderConfig)
		wantVar string
	}{
		{"valid", func(p *ProviderConfig) {}, ""},
		{"missing key", func(p *ProviderConfig) { p.APIKey = "" }, "ANTHROPIC_API_KEY"},
		{"missing base url", func(p *ProviderConfig) { p.BaseURL = "" }, "ANTHROPIC_BASE_URL"},
		{"bad base url", func(p *ProviderConfig) { p.BaseURL = "not a url" }, "ANTHROPIC_BASE_URL"},
		{"missing model", func(p *ProviderConfig) { p.Model = "" }, "ANTHROPIC_MODEL"},
		{"zero timeout", func(p *ProviderConfig) { p.Timeout = 0 }, "ANTHROPIC_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate("ANTHROPIC")
			if tt.wantVar == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, model.ErrConfig) {
				t.Fatalf("err = %v, want ErrConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantVar) {
				t.Errorf("err = %q, want mention of %s", err, tt.wantVar)
			}
		})
	}
}

func TestSelected_UnknownProvider(t *testing.T) {
	l := LLMConfig{Provider: "mistral"}
	if _, err := l.Selected(); !errors.Is(err, model.ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}
