// Package batch summarizes several links one after another and assembles a
// single message from the results.
package batch

import (
	"context"
	"fmt"
	"log/slog"

	"rezumat/internal/domain"
	"rezumat/internal/glyph"
	"rezumat/internal/metrics"
	"rezumat/internal/render"
	"rezumat/internal/summarizer"
)

const (
	MaxURLs             = 7
	CategorizeThreshold = 4
	// MaxOutputUnits is the output ceiling in UTF-16 code units.
	MaxOutputUnits = 4000

	FailureGlyph = "❌"
	Divider      = "➖➖➖➖➖➖➖➖➖➖"

	failureURLRunes = 60
	blockSeparator  = "\n\n"
)

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, fallback string) (domain.Article, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, content string, profile summarizer.Profile, sourceURL string) (string, error)
}

// Progress is called before each item with the number of finished items.
type Progress func(ctx context.Context, done int, total int)

type Result struct {
	HTML string
	// Processed counts the links that were attempted.
	Processed int
	// Failed includes the links skipped after ctx was done.
	Failed    int
	Dropped   int
	Truncated bool
}

type Orchestrator struct {
	fetcher    Fetcher
	summarizer Summarizer
	metrics    *metrics.Metrics
	log        *slog.Logger
}

func New(f Fetcher, s Summarizer, m *metrics.Metrics, log *slog.Logger) *Orchestrator {
	return &Orchestrator{fetcher: f, summarizer: s, metrics: m, log: log}
}

type item struct {
	url      string
	glyph    string
	body     string
	failed   bool
	domestic bool
}

// Process summarizes up to MaxURLs links strictly in order. A failing link
// becomes an inline failure line and never stops the rest of the batch. When
// ctx is done mid-batch the links not reached yet are rendered as failures.
// The returned error is non-nil only when ctx is done before the first item.
func (o *Orchestrator) Process(
	ctx context.Context,
	urls []string,
	profile summarizer.Profile,
	progress Progress,
) (Result, error) {
	var result Result

	if len(urls) > MaxURLs {
		result.Dropped = len(urls) - MaxURLs
		urls = urls[:MaxURLs]
	}

	assigner := glyph.NewAssigner()
	items := make([]item, 0, len(urls))

	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			if len(items) == 0 {
				return result, fmt.Errorf("process batch: %w", err)
			}

			o.log.WarnContext(ctx, "Batch interrupted",
				"error", err,
				"done", i,
				"total", len(urls))

			for _, rest := range urls[i:] {
				o.metrics.BatchItem("skipped")
				items = append(items, item{url: rest, failed: true})
				result.Failed++
			}
			break
		}

		if progress != nil {
			progress(ctx, i, len(urls))
		}

		it := o.processItem(ctx, u, profile, assigner)
		if it.failed {
			result.Failed++
		}

		items = append(items, it)
		result.Processed++
	}

	blocks := assemble(items)
	if result.Dropped > 0 {
		blocks = append([]string{droppedNotice(result.Dropped)}, blocks...)
	}

	result.HTML, result.Truncated = guard(blocks, MaxOutputUnits)
	if result.Truncated {
		o.metrics.Truncated()
		o.log.WarnContext(ctx, "Batch output truncated",
			"items", result.Processed,
			"limit", MaxOutputUnits)
	}

	return result, nil
}

func (o *Orchestrator) processItem(
	ctx context.Context,
	rawURL string,
	profile summarizer.Profile,
	assigner *glyph.Assigner,
) item {
	article, err := o.fetcher.Fetch(ctx, rawURL, "")
	if err != nil {
		o.log.WarnContext(ctx, "Failed to fetch batch item", "error", err, "url", rawURL)
		o.metrics.BatchItem("failed")
		return item{url: rawURL, failed: true}
	}

	o.metrics.Fetch(article.Tier)

	raw, err := o.summarizer.Summarize(ctx, article.Text, profile, rawURL)
	if err != nil {
		o.log.WarnContext(ctx, "Failed to summarize batch item", "error", err, "url", rawURL)
		o.metrics.BatchItem("failed")
		return item{url: rawURL, failed: true}
	}

	existing, body := render.SplitGlyph(raw)
	if body == "" {
		o.metrics.BatchItem("failed")
		return item{url: rawURL, failed: true}
	}

	o.metrics.BatchItem("ok")

	return item{
		url:      rawURL,
		glyph:    assigner.Assign(existing, body),
		body:     body,
		domestic: glyph.IsDomestic(body),
	}
}

// assemble renders the items. With enough items, domestic ones go first and
// a divider separates them from the rest.
func assemble(items []item) []string {
	ordered := items
	dividerAt := -1

	if len(items) >= CategorizeThreshold {
		var domestic, other []item
		for _, it := range items {
			if it.domestic && !it.failed {
				domestic = append(domestic, it)
			} else {
				other = append(other, it)
			}
		}

		if len(domestic) > 0 && len(other) > 0 {
			ordered = append(domestic, other...)
			dividerAt = len(domestic)
		}
	}

	blocks := make([]string, 0, len(ordered)+1)
	for i, it := range ordered {
		if i == dividerAt {
			blocks = append(blocks, Divider)
		}
		blocks = append(blocks, renderItem(it))
	}

	return blocks
}

func renderItem(it item) string {
	if it.failed {
		return FailureGlyph + " " + render.EscapeHTML(truncateURL(it.url))
	}
	return render.Render(it.glyph+" "+it.body, it.url)
}

func truncateURL(rawURL string) string {
	runes := []rune(rawURL)
	if len(runes) <= failureURLRunes {
		return rawURL
	}
	return string(runes[:failureURLRunes-1]) + "…"
}

func droppedNotice(dropped int) string {
	return fmt.Sprintf("⚠️ <i>Am procesat doar primele %d linkuri, %d ignorate.</i>", MaxURLs, dropped)
}
