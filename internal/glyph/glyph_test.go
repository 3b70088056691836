package glyph_test

import (
	"slices"
	"testing"

	"rezumat/internal/glyph"
)

func TestFold(t *testing.T) {
	if got := glyph.Fold("Chișinău ȘTIRI Bălți"); got != "chisinau stiri balti" {
		t.Fatalf("Fold() = %q", got)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "region before topics",
			text: "Guvernul de la Chișinău a aprobat bugetul pe 2026.",
			want: []string{"🇲🇩", "🏛️", "💰"},
		},
		{
			name: "single topic",
			text: "Meciul de fotbal s-a încheiat la egalitate.",
			want: []string{"⚽"},
		},
		{
			name: "phrase",
			text: "Comisia Europeană a publicat raportul.",
			want: []string{"🇪🇺"},
		},
		{
			name: "cyrillic",
			text: "Война в Украине продолжается",
			want: []string{"🇺🇦", "⚔️"},
		},
		{
			name: "exact word does not match longer word",
			text: "Suave melodii la radio",
			want: nil,
		},
		{
			name: "nothing",
			text: "Vremea de mâine va fi frumoasă.",
			want: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := glyph.Match(test.text)
			if !slices.Equal(got, test.want) {
				t.Fatalf("Match() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestIsDomestic(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Maia Sandu a vizitat Bălți.", true},
		{"Moldovagaz a anunțat noul tarif.", true},
		{"Молдова подписала соглашение", true},
		{"BNM a menținut rata de bază.", true},
		{"Președintele Franței a vizitat Berlinul.", false},
		{"Sanduloi a câștigat turneul.", false},
	}

	for _, test := range tests {
		if got := glyph.IsDomestic(test.text); got != test.want {
			t.Fatalf("IsDomestic(%q) = %v, want %v", test.text, got, test.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if glyph.Normalize("🏛️") != glyph.Normalize("🏛") {
		t.Fatal("variation selector not ignored")
	}
}

func TestAssignerPrefersExistingThenRelevant(t *testing.T) {
	a := glyph.NewAssigner()

	if got := a.Assign("🏛️", "Guvernul a aprobat bugetul."); got != "🏛️" {
		t.Fatalf("first Assign() = %q", got)
	}

	if got := a.Assign("🏛", "Parlamentul a votat bugetul."); got != "💰" {
		t.Fatalf("second Assign() = %q, want relevant unused glyph", got)
	}

	if got := a.Assign("", "Vremea de mâine va fi frumoasă."); got != glyph.Palette[0] {
		t.Fatalf("third Assign() = %q, want first palette glyph", got)
	}
}

func TestAssignerUniqueWhilePaletteHasRoom(t *testing.T) {
	a := glyph.NewAssigner()
	seen := make(map[string]bool)

	for range 7 {
		g := glyph.Normalize(a.Assign("🏛️", "Guvernul a decis."))
		if seen[g] {
			t.Fatalf("glyph %q assigned twice", g)
		}
		seen[g] = true
	}
}

func TestAssignerReusesFirstRelevantWhenExhausted(t *testing.T) {
	a := glyph.NewAssigner()

	for range len(glyph.Palette) + 1 {
		a.Assign("", "Meci de fotbal.")
	}

	if got := a.Assign("", "Meci de fotbal."); got != "⚽" {
		t.Fatalf("Assign() = %q, want reuse of first relevant glyph", got)
	}
}
