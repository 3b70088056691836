package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultAnthropicModel = "claude-sonnet-4-20250514"

	contentTypeText = "text"
)

// AnthropicCompleter calls the Anthropic Messages API.
type AnthropicCompleter struct {
	client anthropic.Client
	model  string
}

// NewAnthropicCompleter builds a completer. An empty model selects
// DefaultAnthropicModel.
func NewAnthropicCompleter(apiKey string, model string, opts ...option.RequestOption) *AnthropicCompleter {
	if strings.TrimSpace(model) == "" {
		model = DefaultAnthropicModel
	}

	return &AnthropicCompleter{
		client: anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...),
		model:  model,
	}
}

func (c *AnthropicCompleter) Complete(
	ctx context.Context,
	prompt string,
	maxTokens int64,
) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: max(maxTokens, 1),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", classifyStatus(apiErr.StatusCode, fmt.Errorf("create message: %w", err))
		}
		return "", fmt.Errorf("%w: create message: %w", ErrUnknown, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == contentTypeText {
			text.WriteString(block.Text)
		}
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", fmt.Errorf("%w: stop reason = %s", ErrEmptyCompletion, resp.StopReason)
	}

	return out, nil
}
