package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAICompleter wraps the OpenAI Chat Completions API behind Completer.
type openAICompleter struct {
	client *openai.Client
	cfg    Config
}

func newOpenAICompleter(cfg Config, key string) *openAICompleter {
	var clientOpts []option.RequestOption
	if key != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(key))
	}

	client := openai.NewClient(clientOpts...)

	return &openAICompleter{client: &client, cfg: cfg}
}

// Complete implements the Completer interface.
func (c *openAICompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    c.cfg.ModelID,
		Messages: messages,
	}

	if c.cfg.Temperature != nil {
		params.Temperature = openai.Float(*c.cfg.Temperature)
	}

	if c.cfg.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(c.cfg.MaxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// Info implements the Completer interface.
func (c *openAICompleter) Info() Info {
	return Info{Provider: OpenAI, ModelID: c.cfg.ModelID}
}
