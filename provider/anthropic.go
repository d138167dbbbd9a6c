package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicCompleter wraps the Anthropic Messages API behind Completer.
type anthropicCompleter struct {
	client *anthropic.Client
	cfg    Config
}

func newAnthropicCompleter(cfg Config, key string) *anthropicCompleter {
	var clientOpts []option.RequestOption
	if key != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(key))
	}

	client := anthropic.NewClient(clientOpts...)

	return &anthropicCompleter{client: &client, cfg: cfg}
}

// Complete implements the Completer interface.
func (c *anthropicCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	maxTokens := c.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.ModelID),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	if c.cfg.Temperature != nil {
		params.Temperature = anthropic.Float(*c.cfg.Temperature)
	}

	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var text string

	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}

	return text, nil
}

// Info implements the Completer interface.
func (c *anthropicCompleter) Info() Info {
	return Info{Provider: Anthropic, ModelID: c.cfg.ModelID}
}
