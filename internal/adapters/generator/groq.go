package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	defaultGroqModel = "llama-3.1-8b-instant"

	// DefaultMaxPromptChars bounds the prompt before it goes upstream.
	// A crude character heuristic, but it keeps requests inside hosted
	// token limits; truncation is this caller's policy, not the
	// pipeline's.
	DefaultMaxPromptChars = 6000
)

const groqSystemMessage = "You are a helpful campus assistant. " +
	"Follow the instructions in the prompt and answer ONLY using the given context."

// GroqAdapter implements ports.Generator against Groq's hosted,
// OpenAI-compatible chat completions API.
type GroqAdapter struct {
	client         *openai.Client
	model          string
	maxPromptChars int
}

// NewGroqAdapter creates a Groq generator adapter.
func NewGroqAdapter(apiKey, model string, maxPromptChars int) (*GroqAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("Groq API key not set")
	}
	if model == "" {
		model = defaultGroqModel
	}
	if maxPromptChars <= 0 {
		maxPromptChars = DefaultMaxPromptChars
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL

	return &GroqAdapter{
		client:         openai.NewClientWithConfig(cfg),
		model:          model,
		maxPromptChars: maxPromptChars,
	}, nil
}

// Generate produces an answer for the given prompt via Groq.
func (a *GroqAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = truncatePrompt(prompt, a.maxPromptChars)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: groqSystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling Groq: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("Groq returned no completion choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// truncatePrompt cuts the prompt to at most max bytes.
func truncatePrompt(prompt string, max int) string {
	if len(prompt) <= max {
		return prompt
	}
	return prompt[:max]
}
