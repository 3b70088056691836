package summarizer_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaioption "github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezumat/internal/summarizer"
)

func newJSONServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newAnthropic(srv *httptest.Server) *summarizer.AnthropicCompleter {
	return summarizer.NewAnthropicCompleter("test-key", "",
		anthropicoption.WithBaseURL(srv.URL+"/"),
		anthropicoption.WithMaxRetries(0))
}

func newOpenAI(srv *httptest.Server) *summarizer.OpenAICompleter {
	return summarizer.NewOpenAICompleter("test-key", "",
		openaioption.WithBaseURL(srv.URL+"/"),
		openaioption.WithMaxRetries(0))
}

func TestAnthropicCompleter(t *testing.T) {
	srv := newJSONServer(t, http.StatusOK, `{
		"id": "msg_1", "type": "message", "role": "assistant", "model": "claude",
		"content": [{"type": "text", "text": " 🏛️ Guvernul a decis. "}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 5}
	}`)

	got, err := newAnthropic(srv).Complete(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Equal(t, "🏛️ Guvernul a decis.", got)
}

func TestAnthropicCompleterEmpty(t *testing.T) {
	srv := newJSONServer(t, http.StatusOK, `{
		"id": "msg_1", "type": "message", "role": "assistant", "model": "claude",
		"content": [], "stop_reason": "max_tokens",
		"usage": {"input_tokens": 10, "output_tokens": 0}
	}`)

	_, err := newAnthropic(srv).Complete(context.Background(), "prompt", 100)
	require.ErrorIs(t, err, summarizer.ErrEmptyCompletion)
}

func TestCompleterErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, summarizer.ErrAuthFailure},
		{"forbidden", http.StatusForbidden, summarizer.ErrAuthFailure},
		{"rate limited", http.StatusTooManyRequests, summarizer.ErrRateLimited},
		{"bad request", http.StatusBadRequest, summarizer.ErrProvider},
		{"server error", http.StatusInternalServerError, summarizer.ErrProvider},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := newJSONServer(t, test.status, `{"type":"error","error":{"type":"api_error","message":"nope"}}`)

			_, err := newAnthropic(srv).Complete(context.Background(), "prompt", 100)
			require.ErrorIs(t, err, test.want, "anthropic")

			_, err = newOpenAI(srv).Complete(context.Background(), "prompt", 100)
			require.ErrorIs(t, err, test.want, "openai")
		})
	}
}

func TestCompleterTransportError(t *testing.T) {
	srv := newJSONServer(t, http.StatusOK, "{}")
	srv.Close()

	_, err := newAnthropic(srv).Complete(context.Background(), "prompt", 100)
	require.ErrorIs(t, err, summarizer.ErrUnknown)

	_, err = newOpenAI(srv).Complete(context.Background(), "prompt", 100)
	require.ErrorIs(t, err, summarizer.ErrUnknown)
}

func TestOpenAICompleterDoublesTokensWhenIncomplete(t *testing.T) {
	var (
		mu     sync.Mutex
		budget []int64
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MaxOutputTokens int64 `json:"max_output_tokens"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		mu.Lock()
		budget = append(budget, req.MaxOutputTokens)
		first := len(budget) == 1
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")

		if first {
			_, _ = io.WriteString(w, `{
				"id": "resp_1", "object": "response", "status": "incomplete",
				"incomplete_details": {"reason": "max_output_tokens"},
				"output": []
			}`)
			return
		}

		_, _ = io.WriteString(w, `{
			"id": "resp_2", "object": "response", "status": "completed",
			"output": [{
				"type": "message", "id": "msg_1", "status": "completed", "role": "assistant",
				"content": [{"type": "output_text", "text": "💰 Bugetul a crescut.", "annotations": []}]
			}]
		}`)
	}))
	t.Cleanup(srv.Close)

	got, err := newOpenAI(srv).Complete(context.Background(), "prompt", 600)
	require.NoError(t, err)

	assert.Equal(t, "💰 Bugetul a crescut.", got)
	assert.Equal(t, []int64{600, 1200}, budget)
}
