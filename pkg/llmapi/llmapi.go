package llmapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/supportlab/triage-agent/agent/contract"
)

// Config points the classifier at an OpenAI-compatible chat-completions
// endpoint. Temperature defaults to 0 and the completion budget is bounded:
// the classifier needs deterministic, short JSON output.
type Config struct {
	BaseURL             string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey              string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model               string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionTokens int64         `envconfig:"MAX_COMPLETION_TOKENS" split_words:"true" default:"256"`
	Temperature         float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0"`
	Timeout             time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"15s"`
}

type Client struct {
	api         openaisdk.Client
	model       string
	maxTokens   int64
	temperature float64
}

var _ contractx.ModelInvoker = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: model api key", contractx.ErrConfiguration)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("%w: model identifier", contractx.ErrConfiguration)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	maxTokens := cfg.MaxCompletionTokens
	if maxTokens <= 0 {
		maxTokens = 256
	}

	return &Client{
		api:         openaisdk.NewClient(opts...),
		model:       strings.TrimSpace(cfg.Model),
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Invoke sends one single-turn completion request and joins every returned
// text segment in order. No retries; any transport or service error
// propagates to the caller.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	completion, err := c.api.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(c.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
		Temperature:         openaisdk.Float(c.temperature),
		MaxCompletionTokens: openaisdk.Int(c.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("model invoke: %w", err)
	}
	if completion == nil {
		return "", errors.New("model returned empty completion")
	}

	segments := make([]string, 0, len(completion.Choices))
	for _, choice := range completion.Choices {
		if text := choice.Message.Content; text != "" {
			segments = append(segments, text)
		}
	}
	return strings.TrimSpace(strings.Join(segments, "\n")), nil
}
