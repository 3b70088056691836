package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

var errEmptyExtraction = errors.New("extraction is empty")

//nolint:gochecknoglobals // Immutable pattern.
var (
	spaceRunRe = regexp.MustCompile(`[ \t\x{00A0}]+`)
	blockTagRe = regexp.MustCompile(`(?i)<(?:p|br|div|li|h[1-6])[\s/>]`)
	blankRunRe = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// PageExtractor downloads a page and extracts its readable text.
type PageExtractor struct {
	client *pageClient
}

func (e *PageExtractor) Extract(ctx context.Context, rawURL string) (string, error) {
	p, err := e.client.get(ctx, rawURL, acceptHTML)
	if err != nil {
		return "", fmt.Errorf("get page: %w", err)
	}

	text, err := extractText(p)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	return text, nil
}

// extractText reads the first item of RSS or Atom bodies. HTML goes through
// readability and falls back to collecting paragraphs when readability keeps
// too little of the page.
func extractText(p page) (string, error) {
	if isFeed(p) {
		return extractFeedItem(p.body)
	}

	var text string

	article, err := readability.FromReader(bytes.NewReader(p.body), p.url)
	if err == nil {
		text = normalizeText(article.TextContent)
	}

	if utf8.RuneCountInString(text) <= PrimaryMinChars {
		if paragraphs := extractParagraphs(p.body); utf8.RuneCountInString(paragraphs) > utf8.RuneCountInString(text) {
			text = paragraphs
		}
	}

	if text == "" {
		if err != nil {
			return "", fmt.Errorf("parse readability: %w", err)
		}
		return "", errEmptyExtraction
	}

	return text, nil
}

func isFeed(p page) bool {
	for _, kind := range []string{"rss", "atom", "/xml", "+xml"} {
		if strings.Contains(p.contentType, kind) && !strings.Contains(p.contentType, "xhtml") {
			return true
		}
	}

	head := bytes.TrimSpace(p.body[:min(len(p.body), 512)])
	return bytes.HasPrefix(head, []byte("<rss")) ||
		bytes.HasPrefix(head, []byte("<feed")) ||
		(bytes.HasPrefix(head, []byte("<?xml")) && !bytes.Contains(bytes.ToLower(head), []byte("<html")))
}

func extractFeedItem(body []byte) (string, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse feed: %w", err)
	}

	if len(feed.Items) == 0 {
		return "", errEmptyExtraction
	}

	item := feed.Items[0]

	content := item.Content
	if utf8.RuneCountInString(content) < utf8.RuneCountInString(item.Description) {
		content = item.Description
	}

	text := stripTags(content)
	if title := strings.TrimSpace(item.Title); title != "" && text != "" {
		text = title + "\n\n" + text
	}

	if text == "" {
		return "", errEmptyExtraction
	}

	return text, nil
}

func extractParagraphs(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	doc.Find("script, style, nav, header, footer, aside, form").Remove()

	var paragraphs []string
	doc.Find("article p, main p, p").Each(func(_ int, s *goquery.Selection) {
		if text := normalizeText(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	return strings.Join(dedupe(paragraphs), "\n\n")
}

// stripTags removes markup and decodes entities. Block elements start a new
// paragraph.
func stripTags(raw string) string {
	raw = blockTagRe.ReplaceAllStringFunc(raw, func(tag string) string {
		return "\n\n" + tag
	})
	return normalizeText(html.UnescapeString(bluemonday.StrictPolicy().Sanitize(raw)))
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = spaceRunRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	text = strings.Join(lines, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]

	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}

	return out
}
