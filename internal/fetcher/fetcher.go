// Package fetcher acquires article text through an ordered chain of stages.
// Each stage has its own retry policy and the first one that yields enough
// text wins. A caller-supplied fallback text is the last resort.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v5"

	"rezumat/internal/domain"
)

const (
	PrimaryMinChars      = 100
	RemoteReaderMinChars = 200
	RawTextMinChars      = 50

	defaultAttempts = 2
	defaultTimeout  = 20 * time.Second
)

var (
	ErrNoContent = errors.New("no content")
	errTooShort  = errors.New("extracted text is too short")
)

// Strategy produces plain text for a URL.
type Strategy interface {
	Extract(ctx context.Context, rawURL string) (string, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(ctx context.Context, rawURL string) (string, error)

func (f StrategyFunc) Extract(ctx context.Context, rawURL string) (string, error) {
	return f(ctx, rawURL)
}

// Policy controls how a stage is retried and what it must produce. Text is
// accepted only when it is longer than MinChars runes.
type Policy struct {
	Attempts int
	Delay    time.Duration
	Timeout  time.Duration
	MinChars int
}

type Stage struct {
	Tier     domain.Tier
	Strategy Strategy
	Policy   Policy
}

type Fetcher struct {
	stages []Stage
	client *pageClient
	log    *slog.Logger
}

func New(stages []Stage, log *slog.Logger) *Fetcher {
	return &Fetcher{stages: stages, log: log}
}

// Options configure the default two-stage chain.
type Options struct {
	Timeout    time.Duration
	Attempts   int
	RetryDelay time.Duration
	// RequestsPerSecond limits requests to a single host. Zero disables it.
	RequestsPerSecond float64
	// ReaderURL is the remote reader endpoint with a {url} placeholder.
	ReaderURL string
}

// NewDefault builds the primary page extraction stage followed by the remote
// reader stage.
func NewDefault(opts Options, log *slog.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	opts.RetryDelay = max(opts.RetryDelay, 0)

	client := newPageClient(opts.RequestsPerSecond, log)

	stages := []Stage{
		{
			Tier:     domain.TierPrimary,
			Strategy: &PageExtractor{client: client},
			Policy: Policy{
				Attempts: opts.Attempts,
				Delay:    opts.RetryDelay,
				Timeout:  opts.Timeout,
				MinChars: PrimaryMinChars,
			},
		},
	}

	if strings.TrimSpace(opts.ReaderURL) != "" {
		stages = append(stages, Stage{
			Tier:     domain.TierRemoteReader,
			Strategy: &RemoteReader{client: client, endpoint: opts.ReaderURL},
			Policy: Policy{
				Attempts: 1,
				Timeout:  opts.Timeout,
				MinChars: RemoteReaderMinChars,
			},
		})
	}

	f := New(stages, log)
	f.client = client

	return f
}

// PruneLimiters drops per-host rate limiters that are back at full burst and
// returns how many were removed.
func (f *Fetcher) PruneLimiters() int {
	if f.client == nil {
		return 0
	}
	return f.client.prune()
}

// Fetch walks the chain and returns the first article long enough for its
// tier. When every stage fails, fallback is used if it has at least
// RawTextMinChars runes. Otherwise the error wraps ErrNoContent and carries
// the reason of every stage.
func (f *Fetcher) Fetch(
	ctx context.Context,
	rawURL string,
	fallback string,
) (domain.Article, error) {
	var errs []error

	for _, stage := range f.stages {
		text, err := f.runStage(ctx, stage, rawURL)
		if err == nil {
			return domain.Article{
				Text:      text,
				SourceURL: rawURL,
				Tier:      stage.Tier,
				Length:    utf8.RuneCountInString(text),
			}, nil
		}

		f.log.WarnContext(ctx, "Failed to fetch content",
			"error", err,
			"url", rawURL,
			"tier", stage.Tier)

		errs = append(errs, fmt.Errorf("%s: %w", stage.Tier, err))

		if ctx.Err() != nil {
			break
		}
	}

	fallback = strings.TrimSpace(fallback)
	if length := utf8.RuneCountInString(fallback); length >= RawTextMinChars {
		return domain.Article{
			Text:      fallback,
			SourceURL: rawURL,
			Tier:      domain.TierRawText,
			Length:    length,
		}, nil
	}

	if fallback != "" {
		errs = append(errs, fmt.Errorf("%s: %w", domain.TierRawText, errTooShort))
	}

	failed := domain.Article{SourceURL: rawURL, Tier: domain.TierFailed}
	if len(errs) == 0 {
		return failed, ErrNoContent
	}

	return failed, fmt.Errorf("%w: %w", ErrNoContent, errors.Join(errs...))
}

func (f *Fetcher) runStage(ctx context.Context, stage Stage, rawURL string) (string, error) {
	policy := stage.Policy
	attempt := 0

	operation := func() (string, error) {
		attempt++

		text, err := extractWithTimeout(ctx, stage.Strategy, rawURL, policy.Timeout)
		if err != nil {
			var perm *permanentError
			if errors.As(err, &perm) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}

		if utf8.RuneCountInString(text) <= policy.MinChars {
			return "", fmt.Errorf("%w (%d runes)", errTooShort, utf8.RuneCountInString(text))
		}

		return text, nil
	}

	notify := func(err error, next time.Duration) {
		f.log.DebugContext(ctx, "Retrying content extraction",
			"error", err,
			"url", rawURL,
			"tier", stage.Tier,
			"attempt", attempt,
			"delay", next)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(policy.Delay)),
		backoff.WithMaxTries(uint(max(policy.Attempts, 1))), //nolint:gosec // Positive by construction.
		backoff.WithNotify(notify))
}

func extractWithTimeout(
	ctx context.Context,
	strategy Strategy,
	rawURL string,
	timeout time.Duration,
) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	text, err := strategy.Extract(ctx, rawURL)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// permanentError marks failures that retrying cannot fix, such as an
// unparsable URL.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return &permanentError{err: err}
}
