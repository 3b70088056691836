package batch

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

const truncationNotice = "✂️ <i>Rezultatul a fost trunchiat, mesajul depășea limita.</i>"

//nolint:gochecknoglobals // Immutable pattern.
var inlineTagRe = regexp.MustCompile(`</?(?:b|i|a)(?:\s[^>]*)?>`)

// guard joins blocks and keeps the result within limit UTF-16 units. When
// the text is too long it keeps the leading blocks that fit and appends a
// truncation notice. Blocks are never split unless not even the first fits.
func guard(blocks []string, limit int) (string, bool) {
	full := join(blocks)
	if utf16Len(full) <= limit {
		return full, false
	}

	budget := limit - utf16Len(blockSeparator+truncationNotice)
	separator := utf16Len(blockSeparator)

	var kept []string
	used := 0

	for _, block := range blocks {
		size := utf16Len(block)
		if len(kept) > 0 {
			size += separator
		}
		if used+size > budget {
			break
		}
		kept = append(kept, block)
		used += size
	}

	if len(kept) > 0 && kept[len(kept)-1] == Divider {
		kept = kept[:len(kept)-1]
	}

	if len(kept) == 0 && len(blocks) > 0 {
		kept = []string{cutUTF16(inlineTagRe.ReplaceAllString(blocks[0], ""), budget)}
	}

	return join(append(kept, truncationNotice)), true
}

func join(blocks []string) string {
	return strings.Join(blocks, blockSeparator)
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if utf16.RuneLen(r) == 2 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// cutUTF16 returns the longest prefix of s within limit UTF-16 units that
// does not end inside an HTML entity.
func cutUTF16(s string, limit int) string {
	n := 0
	for i, r := range s {
		size := 1
		if utf16.RuneLen(r) == 2 {
			size = 2
		}
		if n+size > limit {
			s = s[:i]
			break
		}
		n += size
	}

	if amp := strings.LastIndexByte(s, '&'); amp >= 0 && !strings.Contains(s[amp:], ";") {
		s = s[:amp]
	}

	return strings.TrimSpace(s)
}
