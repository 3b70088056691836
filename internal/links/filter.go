package links

import (
	"net/url"
	"strings"
)

// DefaultBlockedDomains lists the messaging platform itself and social/video
// platforms whose pages carry no extractable article.
//
//nolint:gochecknoglobals // Default configuration value.
var DefaultBlockedDomains = []string{
	"t.me", "telegram.me", "telegram.org",
	"twitter.com", "x.com",
	"facebook.com", "fb.com", "fb.watch",
	"instagram.com",
	"tiktok.com",
	"youtube.com", "youtu.be",
	"linkedin.com",
	"wa.me", "whatsapp.com",
}

type Filter struct {
	blocked []string
}

func NewFilter(blocked []string) *Filter {
	normalized := make([]string, 0, len(blocked))
	for _, d := range blocked {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		if d != "" {
			normalized = append(normalized, d)
		}
	}

	return &Filter{blocked: normalized}
}

// ArticleURLs keeps the URLs that may point at an article, preserving order.
func (f *Filter) ArticleURLs(urls []string) []string {
	filtered := make([]string, 0, len(urls))
	for _, u := range urls {
		if f.IsArticleURL(u) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

func (f *Filter) IsArticleURL(raw string) bool {
	host, ok := articleHost(raw)
	if !ok {
		return false
	}

	for _, blocked := range f.blocked {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return false
		}
	}

	return true
}

// Host returns the lowercased host of raw without a leading "www.".
func Host(raw string) string {
	host, _ := articleHost(raw)
	return host
}

func articleHost(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", false
	}

	return host, true
}
