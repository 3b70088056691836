// Package render turns raw model output into Telegram HTML: a leading glyph,
// the first words of each paragraph in bold and one keyword linked to the
// source article.
package render

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	boldWordCount      = 3
	ContinuationMarker = "▪️"

	kwOpen  = "\x01"
	kwClose = "\x02"
)

var ErrUnbalancedMarkup = errors.New("unbalanced markup")

var (
	keywordRe      = regexp.MustCompile(`\{+([^{}\n]+?)\}+`)
	emphasisRe     = regexp.MustCompile(`\*([^*\n]+)\*`)
	blankLineRe    = regexp.MustCompile(`\n[ \t]*\n`)
	markupTagRe    = regexp.MustCompile(`</?(b|a)(?:\s[^>]*)?>`)
	emphasisMarker = strings.NewReplacer("**", "", "__", "")
)

// Render converts a raw summary into HTML. sourceURL may be empty, in which case
// the keyword markers are removed without creating a link.
func Render(raw string, sourceURL string) string {
	glyph, body := SplitGlyph(raw)
	if body == "" {
		return glyph
	}

	body = markKeyword(EscapeHTML(body))

	anchorOpen, anchorClose := "", ""
	if sourceURL = strings.TrimSpace(sourceURL); sourceURL != "" {
		anchorOpen = `<a href="` + escapeAttr(sourceURL) + `">`
		anchorClose = "</a>"
	}

	paragraphs := splitParagraphs(body)
	rendered := make([]string, 0, len(paragraphs))

	for i, paragraph := range paragraphs {
		text := renderParagraph(paragraph)
		text = strings.Replace(text, kwOpen, anchorOpen, 1)
		text = strings.Replace(text, kwClose, anchorClose, 1)

		if i > 0 {
			text = ContinuationMarker + " " + text
		}

		rendered = append(rendered, text)
	}

	out := strings.Join(rendered, "\n\n")
	if glyph != "" {
		out = glyph + " " + out
	}

	return out
}

// SplitGlyph strips emphasis markers and separates the leading pictographic run
// from the text that follows it.
func SplitGlyph(raw string) (string, string) {
	text := stripEmphasis(strings.TrimSpace(raw))

	end := 0
	for i, r := range text {
		if !isGlyphRune(r) {
			break
		}
		end = i + utf8.RuneLen(r)
	}

	return text[:end], strings.TrimSpace(text[end:])
}

// CharCount is the summary length in characters with keyword markers removed.
func CharCount(raw string) int {
	return utf8.RuneCountInString(keywordRe.ReplaceAllString(strings.TrimSpace(raw), "$1"))
}

// Validate reports ErrUnbalancedMarkup when bold or anchor tags do not nest
// properly or more than one anchor is present.
func Validate(html string) error {
	var stack []string
	anchors := 0

	for _, m := range markupTagRe.FindAllStringSubmatch(html, -1) {
		tag, name := m[0], m[1]

		if !strings.HasPrefix(tag, "</") {
			if name == "a" {
				anchors++
			}
			stack = append(stack, name)
			continue
		}

		if len(stack) == 0 || stack[len(stack)-1] != name {
			return fmt.Errorf("%w: unexpected %s", ErrUnbalancedMarkup, tag)
		}
		stack = stack[:len(stack)-1]
	}

	if len(stack) > 0 {
		return fmt.Errorf("%w: unclosed %v", ErrUnbalancedMarkup, stack)
	}

	if anchors > 1 {
		return fmt.Errorf("%w: %d anchors", ErrUnbalancedMarkup, anchors)
	}

	return nil
}

func isGlyphRune(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r), unicode.IsPunct(r):
		return false
	case strings.ContainsRune("{}[]()<>", r):
		return false
	}
	return true
}

func stripEmphasis(text string) string {
	text = emphasisMarker.Replace(text)
	return emphasisRe.ReplaceAllString(text, "$1")
}

// markKeyword wraps the first keyword in sentinels and unwraps any other marker.
func markKeyword(body string) string {
	loc := keywordRe.FindStringSubmatchIndex(body)
	if loc == nil {
		return body
	}

	keyword := strings.TrimSpace(body[loc[2]:loc[3]])
	rest := keywordRe.ReplaceAllString(body[loc[1]:], "$1")

	if keyword == "" {
		return body[:loc[0]] + rest
	}

	return body[:loc[0]] + kwOpen + keyword + kwClose + rest
}

func splitParagraphs(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	var parts []string
	if blankLineRe.MatchString(body) {
		parts = blankLineRe.Split(body, -1)
	} else {
		parts = strings.Split(body, "\n")
	}

	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	return paragraphs
}

func renderParagraph(paragraph string) string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return ""
	}

	kwStart, kwEnd := -1, -1
	for i, w := range words {
		if strings.Contains(w, kwOpen) {
			kwStart = i
		}
		if strings.Contains(w, kwClose) {
			kwEnd = i
		}
	}

	boldEnd := min(boldWordCount, len(words))
	if kwStart >= 0 && kwStart < boldEnd && kwEnd >= boldEnd {
		boldEnd = kwEnd + 1
	}

	words[0] = "<b>" + words[0]
	words[boldEnd-1] += "</b>"

	return strings.Join(words, " ")
}
