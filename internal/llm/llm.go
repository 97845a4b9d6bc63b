package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Completer is a synchronous text-completion service. The quiz judge, the
// mistake explainer and the card generator all talk to the backend through
// this interface so tests can substitute a fake.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float32) (string, error)
}

// Temperatures used by the three call sites.
const (
	TempJudge     float32 = 0.1
	TempExplainer float32 = 0.3
	TempGenerator float32 = 0.3
)

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client. baseURL may point at any OpenAI-compatible
// endpoint (Ollama, vLLM, the OpenAI API itself).
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Complete sends a single-turn completion request and returns the raw
// response text.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Ping verifies the endpoint is reachable and the model responds.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Complete(ctx, "Reply with OK.", 0)
	return err
}
