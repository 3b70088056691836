// Package glyph picks the leading pictograph of a summary from its topic and
// keeps glyphs unique across a batch.
package glyph

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const variationSelector = "\uFE0F"

type keyword struct {
	words  []string
	prefix bool
}

type matcher []keyword

type compiledRule struct {
	glyph   string
	matcher matcher
}

//nolint:gochecknoglobals // Derived from the immutable tables once.
var (
	compiledRules   = compileRules(Rules)
	domesticMatcher = compileMatcher(DomesticLexicon)
)

// Fold lowercases text and removes diacritics, so "Chișinău" and "chisinau"
// compare equal.
func Fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}

	return cases.Fold().String(folded)
}

// Normalize drops emoji variation selectors, so "🏛" and "🏛️" are one glyph.
func Normalize(glyph string) string {
	return strings.ReplaceAll(strings.TrimSpace(glyph), variationSelector, "")
}

// Match returns the glyphs of every rule matching text, in table order.
func Match(text string) []string {
	tokens := tokenize(text)

	var glyphs []string
	for _, rule := range compiledRules {
		if rule.matcher.matches(tokens) {
			glyphs = append(glyphs, rule.glyph)
		}
	}

	return glyphs
}

// IsDomestic reports whether text mentions the domestic lexicon.
func IsDomestic(text string) bool {
	return domesticMatcher.matches(tokenize(text))
}

// Assigner hands out glyphs for one batch. It is not safe for concurrent use.
type Assigner struct {
	used map[string]struct{}
}

func NewAssigner() *Assigner {
	return &Assigner{used: make(map[string]struct{})}
}

// Assign returns the glyph for a summary whose body is text. existing is the
// glyph the model already put in front of it, if any. The order of preference
// is: existing, relevant glyphs in table order, unused palette glyphs, the
// first relevant glyph.
func (a *Assigner) Assign(existing string, text string) string {
	if existing != "" && !a.isUsed(existing) {
		return a.take(existing)
	}

	relevant := Match(text)
	for _, g := range relevant {
		if !a.isUsed(g) {
			return a.take(g)
		}
	}

	for _, g := range Palette {
		if !a.isUsed(g) {
			return a.take(g)
		}
	}

	switch {
	case len(relevant) > 0:
		return relevant[0]
	case existing != "":
		return existing
	default:
		return Palette[0]
	}
}

func (a *Assigner) isUsed(glyph string) bool {
	_, ok := a.used[Normalize(glyph)]
	return ok
}

func (a *Assigner) take(glyph string) string {
	a.used[Normalize(glyph)] = struct{}{}
	return glyph
}

func tokenize(text string) []string {
	return strings.FieldsFunc(Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func compileRules(rules []Rule) []compiledRule {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		compiled = append(compiled, compiledRule{
			glyph:   rule.Glyph,
			matcher: compileMatcher(rule.Keywords),
		})
	}
	return compiled
}

func compileMatcher(keywords []string) matcher {
	m := make(matcher, 0, len(keywords))

	for _, raw := range keywords {
		prefix := strings.HasSuffix(raw, "*")
		words := tokenize(strings.TrimSuffix(raw, "*"))
		if len(words) == 0 {
			continue
		}
		m = append(m, keyword{words: words, prefix: prefix})
	}

	return m
}

func (m matcher) matches(tokens []string) bool {
	for _, kw := range m {
		if kw.matches(tokens) {
			return true
		}
	}
	return false
}

func (k keyword) matches(tokens []string) bool {
	n := len(k.words)

	for i := 0; i+n <= len(tokens); i++ {
		if k.matchesAt(tokens[i : i+n]) {
			return true
		}
	}

	return false
}

func (k keyword) matchesAt(window []string) bool {
	last := len(k.words) - 1

	for j, word := range k.words {
		if j == last && k.prefix {
			if !strings.HasPrefix(window[j], word) {
				return false
			}
			continue
		}

		if window[j] != word {
			return false
		}
	}

	return true
}
