// Package assist provides the triage-assist boundary: a best-effort,
// failure-tolerant client for an external text-generation service, plus the
// debounced edit sessions that decide when to call it and which result to
// render.
package assist

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrAssistDisabled is returned by the disabled generator.
var ErrAssistDisabled = errors.New("assist is disabled")

// Generator is the raw text-generation boundary. Implementations take a
// system instruction and a user prompt and return the completion text.
type Generator interface {
	Generate(ctx context.Context, instruction, prompt string) (string, error)
}

// OpenAIGenerator talks to an OpenAI-compatible chat completion endpoint.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator for the given API key and model.
// baseURL overrides the endpoint for compatible providers; empty means the
// default.
func NewOpenAIGenerator(apiKey, model, baseURL string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("assist: api key is required")
	}

	options := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	c := openai.NewClient(options...)
	return &OpenAIGenerator{client: &c, model: model}, nil
}

// Generate runs a single chat completion.
func (g *OpenAIGenerator) Generate(ctx context.Context, instruction, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	}
	if instruction != "" {
		messages = append([]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(instruction)}, messages...)
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    g.model,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}
	return resp.Choices[0].Message.Content, nil
}

type disabledGenerator struct{}

func (disabledGenerator) Generate(context.Context, string, string) (string, error) {
	return "", ErrAssistDisabled
}

// NewDisabledGenerator returns a generator that always fails with
// ErrAssistDisabled. Used when no assist source is configured so the rest of
// the pipeline degrades to unavailable suggestions and fallback replies.
func NewDisabledGenerator() Generator {
	return disabledGenerator{}
}
