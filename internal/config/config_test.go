package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestLoadMergesFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	yml := `
llm:
  model: from-file
  temperature: 0.2
deck:
  max_chars: 500
template:
  items: 7
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PDF2SLIDES_MODEL", "from-env")
	t.Setenv("PDF2SLIDES_API_KEY", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Model != "from-env" {
		t.Errorf("expected env to override model, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.APIKey != "secret" {
		t.Errorf("expected api key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2 from file, got %v", cfg.LLM.Temperature)
	}
	if cfg.Deck.MaxChars != 500 {
		t.Errorf("expected max_chars 500, got %d", cfg.Deck.MaxChars)
	}
	if cfg.Template.Items != 7 {
		t.Errorf("expected items 7, got %d", cfg.Template.Items)
	}
	// Untouched keys keep their defaults.
	if cfg.Deck.DPI != 300 || cfg.Deck.MaxExamples != 5 {
		t.Errorf("expected defaults for dpi/max_examples, got %d/%d", cfg.Deck.DPI, cfg.Deck.MaxExamples)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("llm: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "bard" }, "unknown provider"},
		{"unknown api", func(c *Config) { c.LLM.API = "stream" }, "unknown api"},
		{"gemini without key", func(c *Config) { c.LLM.Provider = ProviderGemini; c.LLM.APIKey = "" }, "API key"},
		{"temperature", func(c *Config) { c.LLM.Temperature = 3 }, "temperature"},
		{"max chars", func(c *Config) { c.Deck.MaxChars = 0 }, "max_chars"},
		{"max examples", func(c *Config) { c.Deck.MaxExamples = 0 }, "max_examples"},
		{"dpi", func(c *Config) { c.Deck.DPI = 10 }, "dpi"},
		{"backend", func(c *Config) { c.Deck.TextBackend = "ocr" }, "text backend"},
		{"items too many", func(c *Config) { c.Template.Items = 21 }, "items must be between"},
		{"items zero", func(c *Config) { c.Template.Items = 0 }, "items must be between"},
		{"variable", func(c *Config) { c.Template.Variable = " " }, "variable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestUseProviderDropsLocalDefaults(t *testing.T) {
	t.Setenv("PDF2SLIDES_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	cfg := Default()
	cfg.UseProvider(ProviderGemini)
	if cfg.LLM.BaseURL != "" {
		t.Errorf("expected local base url dropped, got %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.APIKey != "g-key" {
		t.Errorf("expected GOOGLE_API_KEY, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != DefaultGeminiModel {
		t.Errorf("expected gemini default model, got %q", cfg.LLM.Model)
	}

	cfg = Default()
	cfg.LLM.Model = "gemini-2.5-pro"
	cfg.LLM.BaseURL = "https://proxy.example/gemini"
	cfg.UseProvider(ProviderGemini)
	if cfg.LLM.Model != "gemini-2.5-pro" || cfg.LLM.BaseURL != "https://proxy.example/gemini" {
		t.Errorf("expected explicit settings kept, got %+v", cfg.LLM)
	}
}
