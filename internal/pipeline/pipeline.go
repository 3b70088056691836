// Package pipeline routes one incoming message through link extraction,
// content fetching, summarization and rendering.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"rezumat/internal/batch"
	"rezumat/internal/domain"
	"rezumat/internal/fetcher"
	"rezumat/internal/glyph"
	"rezumat/internal/links"
	"rezumat/internal/metrics"
	"rezumat/internal/render"
	"rezumat/internal/sanitize"
	"rezumat/internal/summarizer"
)

// MinTextChars is the shortest cleaned text worth summarizing.
const MinTextChars = fetcher.RawTextMinChars

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrTooShort     = errors.New("text is too short")
)

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, fallback string) (domain.Article, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, content string, profile summarizer.Profile, sourceURL string) (string, error)
}

type Options struct {
	DefaultProfile summarizer.Profile
	BatchProfile   summarizer.Profile
}

type Pipeline struct {
	filter     *links.Filter
	fetcher    Fetcher
	summarizer Summarizer
	batch      *batch.Orchestrator
	metrics    *metrics.Metrics
	opts       Options
	log        *slog.Logger
}

func New(
	filter *links.Filter,
	f Fetcher,
	s Summarizer,
	m *metrics.Metrics,
	opts Options,
	log *slog.Logger,
) *Pipeline {
	if opts.DefaultProfile.Name == "" {
		opts.DefaultProfile = summarizer.Medium
	}
	if opts.BatchProfile.Name == "" {
		opts.BatchProfile = summarizer.Short
	}

	p := &Pipeline{
		filter:     filter,
		fetcher:    f,
		summarizer: s,
		metrics:    m,
		opts:       opts,
		log:        log,
	}
	p.batch = batch.New(f, meteredSummarizer{p}, m, log)

	return p
}

// Summarize builds a summary of content and renders it. sourceURL may be empty.
func (p *Pipeline) Summarize(
	ctx context.Context,
	content string,
	sourceURL string,
	profile summarizer.Profile,
) (domain.Summary, error) {
	raw, err := p.complete(ctx, content, profile, sourceURL)
	if err != nil {
		return domain.Summary{}, err
	}

	existing, body := render.SplitGlyph(raw)
	if body == "" {
		return domain.Summary{}, fmt.Errorf("summarize: %w", summarizer.ErrEmptyCompletion)
	}

	raw = glyph.NewAssigner().Assign(existing, body) + " " + body

	return domain.Summary{
		Raw:       raw,
		HTML:      render.Render(raw, sourceURL),
		CharCount: render.CharCount(raw),
	}, nil
}

// Process turns msg into the HTML reply. Messages with several article links
// are summarized as a batch with the batch profile unless override is set.
func (p *Pipeline) Process(
	ctx context.Context,
	msg domain.Message,
	override *summarizer.Profile,
	progress batch.Progress,
) (string, error) {
	text := msg.Body()
	if text == "" {
		return "", ErrEmptyMessage
	}

	urls := p.filter.ArticleURLs(links.ExtractURLs(msg))

	p.log.InfoContext(ctx, "Processing message",
		"urls", len(urls),
		"forwarded", msg.Forwarded,
		"textChars", utf8.RuneCountInString(text))

	switch {
	case len(urls) > 1:
		p.metrics.Message("batch")

		profile := p.opts.BatchProfile
		if override != nil {
			profile = *override
		}

		res, err := p.batch.Process(ctx, urls, profile, progress)
		if err != nil {
			return "", fmt.Errorf("process batch: %w", err)
		}

		return res.HTML, nil

	case len(urls) == 1:
		p.metrics.Message("link")
		return p.processLink(ctx, urls[0], text, p.profile(override))

	default:
		p.metrics.Message("text")
		return p.processText(ctx, text, p.profile(override))
	}
}

func (p *Pipeline) processLink(
	ctx context.Context,
	rawURL string,
	text string,
	profile summarizer.Profile,
) (string, error) {
	article, err := p.fetcher.Fetch(ctx, rawURL, sanitize.PrepareFallback(text))
	p.metrics.Fetch(article.Tier)

	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("fetch article: %w", err)
		}

		p.log.WarnContext(ctx, "Failed to fetch article", "error", err, "url", rawURL)

		return failureLine(rawURL), nil
	}

	summary, err := p.Summarize(ctx, article.Text, rawURL, profile)
	if err != nil {
		return "", err
	}

	return summary.HTML + countFooter(summary.CharCount), nil
}

func (p *Pipeline) processText(ctx context.Context, text string, profile summarizer.Profile) (string, error) {
	cleaned := sanitize.PrepareFallback(text)
	if utf8.RuneCountInString(cleaned) < MinTextChars {
		return "", ErrTooShort
	}

	summary, err := p.Summarize(ctx, cleaned, "", profile)
	if err != nil {
		return "", err
	}

	return summary.HTML + countFooter(summary.CharCount), nil
}

func (p *Pipeline) profile(override *summarizer.Profile) summarizer.Profile {
	if override != nil {
		return *override
	}
	return p.opts.DefaultProfile
}

func (p *Pipeline) complete(
	ctx context.Context,
	content string,
	profile summarizer.Profile,
	sourceURL string,
) (string, error) {
	start := time.Now()
	raw, err := p.summarizer.Summarize(ctx, content, profile, sourceURL)
	p.metrics.Summary(resultLabel(err), time.Since(start))

	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	return raw, nil
}

// meteredSummarizer lets the batch orchestrator share the pipeline's metrics.
type meteredSummarizer struct {
	p *Pipeline
}

func (m meteredSummarizer) Summarize(
	ctx context.Context,
	content string,
	profile summarizer.Profile,
	sourceURL string,
) (string, error) {
	return m.p.complete(ctx, content, profile, sourceURL)
}

func countFooter(chars int) string {
	return fmt.Sprintf("\n\n📊 <i>%d caractere</i>", chars)
}

func failureLine(rawURL string) string {
	return batch.FailureGlyph + " <i>Nu am putut extrage conținutul de la</i> " + render.EscapeHTML(rawURL)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, summarizer.ErrAuthFailure):
		return "auth_failure"
	case errors.Is(err, summarizer.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, summarizer.ErrProvider):
		return "provider_error"
	case errors.Is(err, summarizer.ErrEmptyCompletion):
		return "empty"
	default:
		return "unknown"
	}
}
