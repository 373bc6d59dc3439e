package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thywilljoshua/pdf-to-slides/internal/config"
	"github.com/thywilljoshua/pdf-to-slides/internal/prompt"
)

// Provider sends one prompt and returns the raw text of the reply.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// New builds the provider named in cfg.
func New(ctx context.Context, cfg config.LLM) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderOpenAI, "":
		return NewOpenAI(cfg), nil
	case config.ProviderGemini:
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

const (
	NoResponse    = "(no response from model)"
	failurePrefix = "(model call failed: "
)

// Failed formats the placeholder for a failed call.
func Failed(err error) string {
	return failurePrefix + err.Error() + ")"
}

// IsPlaceholder reports whether s is one of the Ask sentinels.
func IsPlaceholder(s string) bool {
	return s == NoResponse || strings.HasPrefix(s, failurePrefix)
}

// Adapter turns provider errors and empty replies into placeholder text so
// a single bad answer never stops a run. One request per call, no retry.
type Adapter struct {
	Provider Provider
}

func NewAdapter(p Provider) *Adapter {
	return &Adapter{Provider: p}
}

func (a *Adapter) Ask(ctx context.Context, p string) string {
	l := log.With().Str("provider", a.Provider.Name()).Logger()
	l.Debug().Int("tokens", prompt.EstimateTokens(p)).Str("prompt", p).Msg("calling model")

	out, err := a.Provider.Complete(ctx, p)
	if err != nil {
		l.Error().Err(err).Msg("model call failed")
		return Failed(err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		l.Warn().Msg("model returned an empty response")
		return NoResponse
	}
	l.Debug().Int("chars", len(out)).Msg("model responded")
	return out
}
