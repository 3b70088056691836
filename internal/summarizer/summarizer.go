package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultMaxContentChars = 12000
	DefaultLanguage        = "Romanian"
)

// Profile is a named length contract for a summary.
type Profile struct {
	Name       string
	MinChars   int
	MaxChars   int
	Paragraphs string
	MaxTokens  int64
}

//nolint:gochecknoglobals // Immutable profile table.
var (
	Short  = Profile{Name: "short", MinChars: 250, MaxChars: 300, Paragraphs: "1", MaxTokens: 600}
	Medium = Profile{Name: "medium", MinChars: 500, MaxChars: 600, Paragraphs: "2", MaxTokens: 1000}
	Long   = Profile{Name: "long", MinChars: 850, MaxChars: 950, Paragraphs: "2-3", MaxTokens: 1500}

	profileAliases = map[string]Profile{
		"short":  Short,
		"scurt":  Short,
		"medium": Medium,
		"mediu":  Medium,
		"long":   Long,
		"lung":   Long,
	}
)

// ProfileByName resolves a profile by its English name or Romanian alias.
func ProfileByName(name string) (Profile, bool) {
	p, ok := profileAliases[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Request is one summary request. Content is already capped.
type Request struct {
	Content   string
	Profile   Profile
	SourceURL string
}

func (r Request) HasURL() bool {
	return strings.TrimSpace(r.SourceURL) != ""
}

// NewRequest trims content and caps it at maxChars runes.
func NewRequest(content string, profile Profile, sourceURL string, maxChars int) Request {
	return Request{
		Content:   truncateRunes(strings.TrimSpace(content), maxChars),
		Profile:   profile,
		SourceURL: strings.TrimSpace(sourceURL),
	}
}

// Completer is a synchronous language model completion.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int64) (string, error)
}

type Options struct {
	Language        string
	MaxContentChars int
	// Timeout bounds a single completion. Zero means no limit.
	Timeout time.Duration
}

// Summarizer builds prompts and sends them to a Completer.
type Summarizer struct {
	completer Completer
	opts      Options
	log       *slog.Logger
}

func New(completer Completer, opts Options, log *slog.Logger) *Summarizer {
	if strings.TrimSpace(opts.Language) == "" {
		opts.Language = DefaultLanguage
	}
	if opts.MaxContentChars <= 0 {
		opts.MaxContentChars = DefaultMaxContentChars
	}

	return &Summarizer{completer: completer, opts: opts, log: log}
}

// Summarize returns the raw model text for content. Failures wrap one of
// ErrAuthFailure, ErrRateLimited, ErrProvider, ErrUnknown or
// ErrEmptyCompletion.
func (s *Summarizer) Summarize(
	ctx context.Context,
	content string,
	profile Profile,
	sourceURL string,
) (string, error) {
	req := NewRequest(content, profile, sourceURL, s.opts.MaxContentChars)
	if req.Content == "" {
		return "", fmt.Errorf("%w: content is empty", ErrEmptyCompletion)
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()

	summary, err := s.completer.Complete(ctx, BuildPrompt(req, s.opts.Language), req.Profile.MaxTokens)
	if err != nil {
		err = ensureClassified(err)

		s.log.ErrorContext(ctx, "Failed to complete summary",
			"error", err,
			"profile", req.Profile.Name,
			"hasURL", req.HasURL(),
			"contentChars", utf8.RuneCountInString(req.Content))

		return "", fmt.Errorf("complete summary: %w", err)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("complete summary: %w", ErrEmptyCompletion)
	}

	s.log.InfoContext(ctx, "Summary completed",
		"profile", req.Profile.Name,
		"hasURL", req.HasURL(),
		"summaryChars", utf8.RuneCountInString(summary),
		"elapsed", time.Since(start))

	return summary, nil
}

// ensureClassified wraps errors that do not carry a taxonomy sentinel yet.
func ensureClassified(err error) error {
	for _, sentinel := range []error{ErrAuthFailure, ErrRateLimited, ErrProvider, ErrUnknown, ErrEmptyCompletion} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrUnknown, err)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return string(runes[:limit])
}
