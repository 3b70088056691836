package domain

import (
	"strings"
	"unicode"
)

const (
	EntityURL      = "url"
	EntityTextLink = "text_link"
)

type Entity struct {
	Type string
	// Offset and Length are measured in UTF-16 code units, as Telegram sends them.
	Offset int
	Length int
	URL    string
}

type Message struct {
	Text      string
	Entities  []Entity
	Forwarded bool
}

// Body returns the message text without a leading bot command.
func (m Message) Body() string {
	text := strings.TrimSpace(m.Text)
	if !strings.HasPrefix(text, "/") {
		return text
	}

	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return ""
	}

	return strings.TrimSpace(text[i:])
}

type Tier string

const (
	TierPrimary      Tier = "primary"
	TierRemoteReader Tier = "remote_reader"
	TierRawText      Tier = "raw_text"
	TierFailed       Tier = "failed"
)

type Article struct {
	Text      string
	SourceURL string
	Tier      Tier
	Length    int
}

type Summary struct {
	Raw       string
	HTML      string
	CharCount int
}
