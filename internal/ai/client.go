package ai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/fremdrift-as/inquiry-api/internal/config"
)

const completionTimeout = 30 * time.Second

// Client produces text completions through the OpenAI chat API
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewClient creates an OpenAI-backed text generator
func NewClient(cfg *config.OpenAIConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4
	}

	return &Client{
		api:         openai.NewClient(cfg.APIKey),
		model:       model,
		temperature: 0.3,
		logger:      logger,
	}, nil
}

// Complete sends the prompt as a single user message and returns the reply
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	c.logger.Debug("chat completion",
		zap.String("model", c.model),
		zap.Int("promptTokens", resp.Usage.PromptTokens),
		zap.Int("completionTokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}
