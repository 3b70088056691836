package fetcher

import (
	"net/url"
	"strings"
	"testing"
)

func TestCleanReaderText(t *testing.T) {
	input := "Title: Știre\r\nURL Source: https://a.md/x\r\nPublished Time: 2026-01-01\r\n\r\n" +
		"Markdown Content:\r\n## Titlu secundar\r\n\r\n\r\n\r\nPrimul <b>paragraf</b> &amp; altceva.\r\n\r\nAl doilea."

	got := cleanReaderText(input)
	want := "Titlu secundar\n\nPrimul paragraf & altceva.\n\nAl doilea."

	if got != want {
		t.Fatalf("cleanReaderText() = %q, want %q", got, want)
	}
}

func TestReaderEndpoint(t *testing.T) {
	tests := []struct {
		template string
		want     string
	}{
		{"https://r.jina.ai/{url}", "https://r.jina.ai/https://a.md/x"},
		{"https://reader.local/", "https://reader.local/https://a.md/x"},
		{"https://reader.local/get?u={url}", "https://reader.local/get?u=https://a.md/x"},
	}

	for _, test := range tests {
		if got := readerEndpoint(test.template, "https://a.md/x"); got != test.want {
			t.Fatalf("readerEndpoint(%q) = %q, want %q", test.template, got, test.want)
		}
	}
}

func TestExtractTextFallsBackToParagraphs(t *testing.T) {
	body := "<html><body><script>var x = 1;</script><div>" +
		strings.Repeat("<p>Un paragraf scurt dar util pentru rezumat.</p>", 4) +
		"<p>Un paragraf scurt dar util pentru rezumat.</p></div></body></html>"

	u, _ := url.Parse("https://a.md/x")

	got, err := extractText(page{body: []byte(body), contentType: "text/html", url: u})
	if err != nil {
		t.Fatalf("extractText() error = %v", err)
	}

	if strings.Contains(got, "var x") {
		t.Fatalf("script leaked into %q", got)
	}

	if !strings.Contains(got, "Un paragraf scurt dar util pentru rezumat.") {
		t.Fatalf("paragraph missing from %q", got)
	}
}

func TestExtractTextEmptyPage(t *testing.T) {
	u, _ := url.Parse("https://a.md/x")

	if _, err := extractText(page{body: []byte("<html><body></body></html>"), url: u}); err == nil {
		t.Fatal("expected error for empty page")
	}
}

func TestIsFeed(t *testing.T) {
	tests := []struct {
		name string
		p    page
		want bool
	}{
		{"rss content type", page{contentType: "application/rss+xml; charset=utf-8"}, true},
		{"atom content type", page{contentType: "application/atom+xml"}, true},
		{"xhtml", page{contentType: "application/xhtml+xml", body: []byte("<html></html>")}, false},
		{"html", page{contentType: "text/html", body: []byte("<!doctype html><html>")}, false},
		{"sniffed rss", page{contentType: "text/plain", body: []byte("  <rss version=\"2.0\">")}, true},
		{"xml prolog html", page{body: []byte(`<?xml version="1.0"?><html>`)}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := isFeed(test.p); got != test.want {
				t.Fatalf("isFeed() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestStripTagsSeparatesBlocks(t *testing.T) {
	got := stripTags("<p>Unu</p><p>Doi<br>Trei</p>")
	if got != "Unu\n\nDoi\n\nTrei" {
		t.Fatalf("stripTags() = %q", got)
	}
}
