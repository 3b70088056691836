package batch

import (
	"strings"
	"testing"
)

func TestGuardKeepsShortOutput(t *testing.T) {
	out, truncated := guard([]string{"a", "b"}, 100)
	if truncated {
		t.Fatalf("guard() truncated short output")
	}
	if out != "a\n\nb" {
		t.Fatalf("guard() = %q", out)
	}
}

func TestGuardDropsWholeBlocks(t *testing.T) {
	blocks := []string{
		strings.Repeat("x", 40),
		Divider,
		strings.Repeat("y", 40),
	}

	limit := 40 + utf16Len(blockSeparator+truncationNotice) + 5
	out, truncated := guard(blocks, limit)

	if !truncated {
		t.Fatalf("guard() did not truncate")
	}
	if strings.Contains(out, "y") || strings.Contains(out, Divider) {
		t.Fatalf("guard() kept a block past the limit: %q", out)
	}
	if !strings.HasSuffix(out, truncationNotice) {
		t.Fatalf("guard() missing notice: %q", out)
	}
	if n := utf16Len(out); n > limit {
		t.Fatalf("guard() length = %d, limit %d", n, limit)
	}
}

func TestGuardCutsOversizedFirstBlock(t *testing.T) {
	block := "<b>Primul</b> " + strings.Repeat("cuvânt ", 100)
	limit := 200

	out, truncated := guard([]string{block}, limit)
	if !truncated {
		t.Fatalf("guard() did not truncate")
	}
	if strings.Contains(out, "<b>") {
		t.Fatalf("guard() kept markup in a cut block: %q", out)
	}
	if n := utf16Len(out); n > limit {
		t.Fatalf("guard() length = %d, limit %d", n, limit)
	}
}

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"ăîș", 3},
		{"📰", 2},
		{"🇲🇩", 4},
		{"⚔️", 2},
	}

	for _, tt := range tests {
		if got := utf16Len(tt.in); got != tt.want {
			t.Errorf("utf16Len(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCutUTF16(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"fits", "abc", 5, "abc"},
		{"plain cut", "abcdef", 3, "abc"},
		{"surrogate pair not split", "a📰b", 2, "a"},
		{"entity not split", "ab &amp; cd", 5, "ab"},
		{"complete entity kept", "ab &amp; cd", 8, "ab &amp;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cutUTF16(tt.in, tt.limit); got != tt.want {
				t.Fatalf("cutUTF16(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}
