package summarizer

import (
	"fmt"
	"strings"
)

const (
	KeywordOpen  = "{{"
	KeywordClose = "}}"
)

// BuildPrompt renders the instruction for req. The keyword rule is included
// only when the request has a source URL to link to.
func BuildPrompt(req Request, language string) string {
	if strings.TrimSpace(language) == "" {
		language = DefaultLanguage
	}

	p := req.Profile

	var b strings.Builder

	fmt.Fprintf(&b, "You are an experienced news editor. Write a summary of the %s below in %s.\n\n",
		sourceNoun(req), language)

	b.WriteString("Strict rules:\n")

	rules := []string{
		fmt.Sprintf("The summary must be between %d and %d characters long, counting spaces.", p.MinChars, p.MaxChars),
		fmt.Sprintf("Use exactly %s paragraph(s) separated by a blank line.", p.Paragraphs),
		"Start with one single emoji that fits the topic " +
			"(politics 🏛️, economy 💰, technology 💻, war ⚔️, EU 🇪🇺, Moldova 🇲🇩, Romania 🇷🇴, " +
			"Russia 🇷🇺, USA 🇺🇸, sport ⚽, health 🏥, environment 🌍, justice ⚖️, education 📚, culture 🎭).",
		"Do not use bold, italics or any other formatting.",
		"Do not include links.",
		"Write in the third person in a neutral, professional journalistic register.",
		fmt.Sprintf("If the %s is in another language, translate the summary into %s.", sourceNoun(req), language),
		"Cover who, what, when, where, why and how.",
		"Order the information as main fact, context, details, consequences or reactions.",
	}

	if req.HasURL() {
		rules = append(rules, fmt.Sprintf(
			"Wrap exactly one keyword in double curly braces, for example %satacat%s. It will become a link.",
			KeywordOpen, KeywordClose))
	}

	for i, rule := range rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}

	fmt.Fprintf(&b, "\n%s:\n%s\n\n", strings.ToUpper(sourceNoun(req)), req.Content)

	if req.HasURL() {
		b.WriteString("Reply with the summary only (emoji and text with one keyword in braces), nothing else.")
	} else {
		b.WriteString("Reply with the summary only (emoji and text), nothing else.")
	}

	return b.String()
}

func sourceNoun(req Request) string {
	if req.HasURL() {
		return "article"
	}
	return "text"
}
