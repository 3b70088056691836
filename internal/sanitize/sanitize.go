// Package sanitize strips channel boilerplate (subscribe prompts, promo lines,
// source attributions) from forwarded message text.
package sanitize

import (
	"regexp"
	"strings"

	"rezumat/internal/links"
)

// Lines are dropped when any pattern matches. The prefix class lets a pattern
// match after leading emoji, bullets or punctuation.
//
//nolint:gochecknoglobals // Immutable pattern table.
var footerPatterns = compileAll(
	// Russian.
	`(?i)^[^\p{L}\p{N}]*подписаться на\s`,
	`(?i)^[^\p{L}\p{N}]*подпишись на\s`,
	`(?i)^[^\p{L}\p{N}]*подписывайтесь`,
	`(?i)^[^\p{L}\p{N}]*прислать контент`,
	`(?i)^[^\p{L}\p{N}]*наш канал`,
	`(?i)^[^\p{L}\p{N}]*читать далее`,
	`(?i)^[^\p{L}\p{N}]*источник`,
	// English.
	`(?i)^[^\p{L}\p{N}]*subscribe to\b`,
	`(?i)^[^\p{L}\p{N}]*follow us`,
	`(?i)^[^\p{L}\p{N}]*join our`,
	`(?i)^[^\p{L}\p{N}]*send content`,
	`(?i)^[^\p{L}\p{N}]*read more\b`,
	`(?i)^[^\p{L}\p{N}]*source:`,
	// Romanian.
	`(?i)^[^\p{L}\p{N}]*abonează-te`,
	`(?i)^[^\p{L}\p{N}]*aboneaza-te`,
	`(?i)^[^\p{L}\p{N}]*urmărește-ne`,
	`(?i)^[^\p{L}\p{N}]*urmareste-ne`,
	`(?i)^[^\p{L}\p{N}]*canalul nostru`,
	`(?i)^[^\p{L}\p{N}]*citește mai mult`,
	`(?i)^[^\p{L}\p{N}]*sursa:`,
	// Emoji-prefixed promo lines.
	`(?i)^\s*[\p{So}\p{Sk}\x{FE0F}\x{200D}]+\s*(?:subscribe|follow|join|abonea|urmăr|intră|подпис|присоедин|вступ)`,
	// Separator-only lines.
	`^\s*\|[\s|]*$`,
	// Link-only lines to the platform itself.
	`(?i)^\s*https?://t\.me/\S*\s*$`,
)

//nolint:gochecknoglobals // Immutable pattern.
var bareLinkLineRe = regexp.MustCompile(`^[\s|/]*(https?://\S+?)[\s|/]*$`)

//nolint:gochecknoglobals // Immutable lookup list.
var boilerplateLinkMarkers = []string{"t.me", "telegram", "subscribe", "join"}

//nolint:gochecknoglobals // Immutable pattern.
var blankRunRe = regexp.MustCompile(`\n{3,}`)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Sanitize removes footer lines and collapses consecutive blank lines.
// Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if isFooterLine(line) {
			continue
		}

		if strings.TrimSpace(line) == "" {
			line = ""
		}

		kept = append(kept, line)
	}

	cleaned := strings.Join(kept, "\n")
	cleaned = blankRunRe.ReplaceAllString(cleaned, "\n\n")

	return strings.TrimSpace(cleaned)
}

// PrepareFallback turns a raw message body into text suitable for summarizing
// without an article: footers and URLs removed, whitespace collapsed.
func PrepareFallback(text string) string {
	cleaned := links.StripURLs(Sanitize(text))
	return strings.Join(strings.Fields(cleaned), " ")
}

func isFooterLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}

	for _, re := range footerPatterns {
		if re.MatchString(line) {
			return true
		}
	}

	m := bareLinkLineRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}

	link := strings.ToLower(m[1])
	for _, marker := range boilerplateLinkMarkers {
		if strings.Contains(link, marker) {
			return true
		}
	}

	return false
}
