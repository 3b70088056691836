package links

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"rezumat/internal/domain"

	"mvdan.cc/xurls/v2"
)

//nolint:gochecknoglobals // Compiled once and only read afterwards.
var (
	httpURLRe = mustStrictRe(`https?://`)
	// A dot ends the match so "example.com:8080" is not read as a scheme.
	schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+\-]*:`)
)

func mustStrictRe(scheme string) *regexp.Regexp {
	re, err := xurls.StrictMatchingScheme(scheme)
	if err != nil {
		panic(err)
	}
	return re
}

// ExtractURLs returns the message links in first-seen order without duplicates.
// Link entities come first, then URLs found in the raw text.
func ExtractURLs(msg domain.Message) []string {
	var candidates []string

	for _, entity := range msg.Entities {
		switch entity.Type {
		case domain.EntityURL:
			if u := normalizeURL(utf16Slice(msg.Text, entity.Offset, entity.Length)); u != "" {
				candidates = append(candidates, u)
			}
		case domain.EntityTextLink:
			if u := normalizeURL(entity.URL); u != "" {
				candidates = append(candidates, u)
			}
		}
	}

	candidates = append(candidates, httpURLRe.FindAllString(msg.Text, -1)...)

	urls := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for _, u := range candidates {
		if _, ok := seen[u]; ok {
			continue
		}

		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	return urls
}

// StripURLs removes every http(s) URL from text.
func StripURLs(text string) string {
	return httpURLRe.ReplaceAllString(text, "")
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}

	if strings.Contains(raw, "://") || schemeRe.MatchString(raw) {
		return ""
	}

	// Telegram marks bare domains like "example.com/page" as url entities.
	if strings.Contains(raw, ".") {
		return "https://" + raw
	}

	return ""
}

func utf16Slice(s string, offset int, length int) string {
	if offset < 0 || length <= 0 {
		return ""
	}

	units := utf16.Encode([]rune(s))
	if offset+length > len(units) {
		return ""
	}

	return string(utf16.Decode(units[offset : offset+length]))
}
