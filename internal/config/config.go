package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LLM describes the language-model endpoint. Values are static for a run.
type LLM struct {
	Provider    string  `yaml:"provider"`
	API         string  `yaml:"api"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	APIKey      string  `yaml:"api_key,omitempty"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
}

// Deck holds the deck builder settings.
type Deck struct {
	MaxChars        int    `yaml:"max_chars"`
	MaxExamples     int    `yaml:"max_examples"`
	DPI             int    `yaml:"dpi"`
	ImageDir        string `yaml:"image_dir"`
	FontFace        string `yaml:"font_face"`
	TitleSize       int    `yaml:"title_size"`
	BodySize        int    `yaml:"body_size"`
	OverviewTitle   string `yaml:"overview_title"`
	ContinuedSuffix string `yaml:"continued_suffix"`
	TextBackend     string `yaml:"text_backend"`
}

// Template holds the template generator settings.
type Template struct {
	Items       int    `yaml:"items"`
	MaxItems    int    `yaml:"max_items"`
	SourceChars int    `yaml:"source_chars"`
	Variable    string `yaml:"variable"`
	Output      string `yaml:"output"`
}

// Logging mirrors logger.Options.
type Logging struct {
	Level      string `yaml:"level"`
	Pretty     bool   `yaml:"pretty"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type Config struct {
	LLM      LLM      `yaml:"llm"`
	Deck     Deck     `yaml:"deck"`
	Template Template `yaml:"template"`
	Logging  Logging  `yaml:"logging"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	APIChat       = "chat"
	APICompletion = "completion"

	BackendFitz       = "fitz"
	BackendLedongthuc = "ledongthuc"

	DefaultGeminiModel = "gemini-2.5-flash"

	localBaseURL = "http://localhost:1234/v1"
	localAPIKey  = "lm-studio"
	localModel   = "local-model"
)

func Default() Config {
	return Config{
		LLM: LLM{
			Provider:    ProviderOpenAI,
			API:         APIChat,
			BaseURL:     localBaseURL,
			APIKey:      localAPIKey,
			Model:       localModel,
			Temperature: 0.7,
		},
		Deck: Deck{
			MaxChars:        800,
			MaxExamples:     5,
			DPI:             300,
			ImageDir:        "extracted_images",
			FontFace:        "Malgun Gothic",
			TitleSize:       18,
			BodySize:        12,
			OverviewTitle:   "Contents",
			ContinuedSuffix: " (continued)",
			TextBackend:     BackendFitz,
		},
		Template: Template{
			Items:       5,
			MaxItems:    20,
			SourceChars: 2000,
			Variable:    "prompt_templates",
			Output:      "generated_prompt_templates.py",
		},
		Logging: Logging{
			Level:      "info",
			Pretty:     true,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// DefaultPaths lists the config files tried when no explicit path is given.
func DefaultPaths() []string {
	paths := []string{"pdf2slides.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pdf2slides", "config.yaml"))
	}
	return paths
}

// Load layers defaults, a YAML file, .env and the environment.
// An explicit path must exist; implicit paths are optional.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return cfg, err
		}
	} else {
		for _, p := range DefaultPaths() {
			err := mergeFile(&cfg, p)
			if err == nil {
				break
			}
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		}
	}

	// .env never overrides variables already present in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)
	cfg.normalizeProvider()
	return cfg, nil
}

// UseProvider switches the provider, dropping the local-server defaults
// that only make sense for the other one.
func (c *Config) UseProvider(name string) {
	c.LLM.Provider = name
	c.normalizeProvider()
}

func (c *Config) normalizeProvider() {
	if c.LLM.Provider != ProviderGemini {
		return
	}
	if c.LLM.BaseURL == localBaseURL {
		c.LLM.BaseURL = ""
	}
	if c.LLM.APIKey == localAPIKey {
		c.LLM.APIKey = ""
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = envOr("PDF2SLIDES_API_KEY", os.Getenv("GOOGLE_API_KEY"))
	}
	if c.LLM.Model == localModel || c.LLM.Model == "" {
		c.LLM.Model = DefaultGeminiModel
	}
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.LLM.Provider = envOr("PDF2SLIDES_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.API = envOr("PDF2SLIDES_API", cfg.LLM.API)
	cfg.LLM.BaseURL = envOr("PDF2SLIDES_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Model = envOr("PDF2SLIDES_MODEL", cfg.LLM.Model)
	cfg.LLM.Temperature = envFloat("PDF2SLIDES_TEMPERATURE", cfg.LLM.Temperature)
	cfg.LLM.MaxTokens = envInt("PDF2SLIDES_MAX_TOKENS", cfg.LLM.MaxTokens)

	switch {
	case os.Getenv("PDF2SLIDES_API_KEY") != "":
		cfg.LLM.APIKey = os.Getenv("PDF2SLIDES_API_KEY")
	case cfg.LLM.Provider == ProviderOpenAI && os.Getenv("OPENAI_API_KEY") != "":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	case cfg.LLM.Provider == ProviderGemini && os.Getenv("GOOGLE_API_KEY") != "":
		cfg.LLM.APIKey = os.Getenv("GOOGLE_API_KEY")
	}

	cfg.Deck.MaxChars = envInt("PDF2SLIDES_MAX_CHARS", cfg.Deck.MaxChars)
	cfg.Deck.MaxExamples = envInt("PDF2SLIDES_MAX_EXAMPLES", cfg.Deck.MaxExamples)
	cfg.Deck.DPI = envInt("PDF2SLIDES_DPI", cfg.Deck.DPI)
	cfg.Deck.ImageDir = envOr("PDF2SLIDES_IMAGE_DIR", cfg.Deck.ImageDir)
	cfg.Deck.FontFace = envOr("PDF2SLIDES_FONT_FACE", cfg.Deck.FontFace)
	cfg.Deck.TextBackend = envOr("PDF2SLIDES_TEXT_BACKEND", cfg.Deck.TextBackend)

	cfg.Template.SourceChars = envInt("PDF2SLIDES_SOURCE_CHARS", cfg.Template.SourceChars)

	cfg.Logging.Level = envOr("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.File = envOr("LOG_FILE", cfg.Logging.File)
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		cfg.Logging.Pretty = parseBool(v)
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q (want openai|gemini)", c.LLM.Provider)
	}
	switch c.LLM.API {
	case APIChat, APICompletion:
	default:
		return fmt.Errorf("unknown api %q (want chat|completion)", c.LLM.API)
	}
	if c.LLM.Provider == ProviderGemini && c.LLM.APIKey == "" {
		return errors.New("gemini requires an API key (GOOGLE_API_KEY)")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0,2]", c.LLM.Temperature)
	}
	if c.Deck.MaxChars <= 0 {
		return fmt.Errorf("max_chars must be positive, got %d", c.Deck.MaxChars)
	}
	if c.Deck.MaxExamples < 1 {
		return fmt.Errorf("max_examples must be at least 1, got %d", c.Deck.MaxExamples)
	}
	if c.Deck.DPI < 36 || c.Deck.DPI > 1200 {
		return fmt.Errorf("dpi %d out of range [36,1200]", c.Deck.DPI)
	}
	switch c.Deck.TextBackend {
	case BackendFitz, BackendLedongthuc:
	default:
		return fmt.Errorf("unknown text backend %q (want fitz|ledongthuc)", c.Deck.TextBackend)
	}
	if c.Template.MaxItems < 1 {
		return fmt.Errorf("max_items must be at least 1, got %d", c.Template.MaxItems)
	}
	if c.Template.Items < 1 || c.Template.Items > c.Template.MaxItems {
		return fmt.Errorf("items must be between 1 and %d, got %d", c.Template.MaxItems, c.Template.Items)
	}
	if c.Template.SourceChars <= 0 {
		return fmt.Errorf("source_chars must be positive, got %d", c.Template.SourceChars)
	}
	if strings.TrimSpace(c.Template.Variable) == "" {
		return errors.New("template variable name is empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
