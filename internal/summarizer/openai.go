package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const (
	DefaultOpenAIModel = string(openai.ChatModelGPT5Mini2025_08_07)

	limitMaxOutputTokens int64 = 4096
)

// OpenAICompleter calls OpenAI's Responses API.
type OpenAICompleter struct {
	client openai.Client
	model  string
}

// NewOpenAICompleter builds a completer. An empty model selects
// DefaultOpenAIModel.
func NewOpenAICompleter(apiKey string, model string, opts ...option.RequestOption) *OpenAICompleter {
	if strings.TrimSpace(model) == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAICompleter{
		client: openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...),
		model:  model,
	}
}

// Complete doubles the output token budget while the response is cut short,
// up to limitMaxOutputTokens.
func (c *OpenAICompleter) Complete(
	ctx context.Context,
	prompt string,
	maxTokens int64,
) (string, error) {
	maxOutputTokens := min(max(maxTokens, 1), limitMaxOutputTokens)

	for {
		params := responses.ResponseNewParams{
			Model:           openai.ChatModel(c.model),
			MaxOutputTokens: openai.Int(maxOutputTokens),
			Input: responses.ResponseNewParamsInputUnion{
				OfString: openai.String(prompt),
			},
		}
		if isReasoningModel(c.model) {
			params.Reasoning = responses.ReasoningParam{
				Effort: openai.ReasoningEffortLow,
			}
		}

		resp, err := c.client.Responses.New(ctx, params)
		if err != nil {
			return "", classifyOpenAIError(err)
		}

		if resp.Status == "incomplete" {
			if resp.IncompleteDetails.Reason == "max_output_tokens" && maxOutputTokens < limitMaxOutputTokens {
				maxOutputTokens = min(maxOutputTokens*2, limitMaxOutputTokens)
				continue
			}
			return "", fmt.Errorf(
				"%w: response is incomplete (reason = %s, maxOutputTokens = %d)",
				ErrProvider,
				resp.IncompleteDetails.Reason,
				maxOutputTokens,
			)
		}

		text := strings.TrimSpace(resp.OutputText())
		if text == "" {
			return "", fmt.Errorf("%w: output text is missing (status = %s)", ErrEmptyCompletion, resp.Status)
		}
		return text, nil
	}
}

func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "gpt-5") || strings.HasPrefix(model, "o")
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, fmt.Errorf("do request: %w", err))
	}
	return fmt.Errorf("%w: do request: %w", ErrUnknown, err)
}
