package fetcher

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultReaderURL = "https://r.jina.ai/{url}"

	readerURLPlaceholder = "{url}"
	acceptText           = "text/plain,text/markdown;q=0.9,*/*;q=0.5"
)

//nolint:gochecknoglobals // Immutable patterns.
var (
	readerMetaLineRe = regexp.MustCompile(`(?m)^(?:Title|URL Source|Published Time|Markdown Content):.*$`)
	headingMarkerRe  = regexp.MustCompile(`(?m)^[ \t]*#+[ \t]*`)
)

// RemoteReader asks a readability proxy for the text of a page.
type RemoteReader struct {
	client   *pageClient
	endpoint string
}

func (r *RemoteReader) Extract(ctx context.Context, rawURL string) (string, error) {
	p, err := r.client.get(ctx, readerEndpoint(r.endpoint, rawURL), acceptText)
	if err != nil {
		return "", fmt.Errorf("get reader page: %w", err)
	}

	return cleanReaderText(string(p.body)), nil
}

func readerEndpoint(template string, rawURL string) string {
	if strings.Contains(template, readerURLPlaceholder) {
		return strings.ReplaceAll(template, readerURLPlaceholder, rawURL)
	}
	return strings.TrimRight(template, "/") + "/" + rawURL
}

// cleanReaderText drops the reader's metadata header, heading markers and
// stray tags.
func cleanReaderText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = readerMetaLineRe.ReplaceAllString(text, "")
	text = headingMarkerRe.ReplaceAllString(text, "")

	return stripTags(text)
}
