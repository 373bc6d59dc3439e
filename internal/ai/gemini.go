package ai

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/genai"

	"github.com/thywilljoshua/pdf-to-slides/internal/config"
)

type Gemini struct {
	client *genai.Client
	model  string
	gen    *genai.GenerateContentConfig
}

func NewGemini(ctx context.Context, cfg config.LLM) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	gen := &genai.GenerateContentConfig{Temperature: genai.Ptr(float32(cfg.Temperature))}
	if cfg.MaxTokens > 0 {
		gen.MaxOutputTokens = int32(cfg.MaxTokens)
	}
	return &Gemini{client: c, model: model, gen: gen}, nil
}

func (g *Gemini) Name() string { return config.ProviderGemini }

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, g.gen)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	return res.Text(), nil
}
