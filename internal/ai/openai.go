package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/thywilljoshua/pdf-to-slides/internal/config"
)

// The legacy endpoint defaults to 16 tokens when max_tokens is omitted.
const completionMaxTokens = 256

// OpenAI talks to any OpenAI-compatible server (LM Studio, vLLM, OpenAI).
type OpenAI struct {
	client      *openai.Client
	model       string
	api         string
	temperature float32
	maxTokens   int
}

func NewOpenAI(cfg config.LLM) *OpenAI {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	api := cfg.API
	if api == "" {
		api = config.APIChat
	}
	return &OpenAI{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		api:         api,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
	}
}

func (o *OpenAI) Name() string { return config.ProviderOpenAI + "/" + o.api }

func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	if o.api == config.APICompletion {
		return o.completion(ctx, prompt)
	}
	return o.chat(ctx, prompt)
}

func (o *OpenAI) chat(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) completion(ctx context.Context, prompt string) (string, error) {
	maxTokens := o.maxTokens
	if maxTokens == 0 {
		maxTokens = completionMaxTokens
	}
	resp, err := o.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       o.model,
		Prompt:      prompt,
		Temperature: o.temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion: no choices returned")
	}
	return resp.Choices[0].Text, nil
}
