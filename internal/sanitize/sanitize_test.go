package sanitize

import (
	"strings"
	"testing"
)

func TestSanitizeDropsFooterLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "russian subscribe",
			input: "Guvernul a aprobat bugetul.\nПодписаться на канал",
			want:  "Guvernul a aprobat bugetul.",
		},
		{
			name:  "russian source with emoji prefix",
			input: "Text principal.\n👉 Источник: РИА",
			want:  "Text principal.",
		},
		{
			name:  "english follow",
			input: "Main text.\nFollow us on X\nJoin our community",
			want:  "Main text.",
		},
		{
			name:  "romanian subscribe",
			input: "Știre importantă.\n\n📢 Abonează-te la canalul nostru!\nUrmărește-ne pe Telegram",
			want:  "Știre importantă.",
		},
		{
			name:  "emoji promo verb",
			input: "Știre.\n🔥🔥 Intră acum pe canal",
			want:  "Știre.",
		},
		{
			name:  "bare platform link",
			input: "Știre.\nhttps://t.me/canal_stiri",
			want:  "Știre.",
		},
		{
			name:  "link-only subscribe line with separators",
			input: "Știre.\n| https://example.com/subscribe |",
			want:  "Știre.",
		},
		{
			name:  "separator only",
			input: "Știre.\n | \nAlt rând.",
			want:  "Știre.\nAlt rând.",
		},
		{
			name:  "article link kept",
			input: "Știre.\nhttps://zdg.md/stiri/1",
			want:  "Știre.\nhttps://zdg.md/stiri/1",
		},
		{
			name:  "phrase in the middle of a sentence kept",
			input: "Deputatul a cerut să fie citată sursa: ministerul.",
			want:  "Deputatul a cerut să fie citată sursa: ministerul.",
		},
		{
			name:  "blank runs collapsed",
			input: "\n\nPrimul.\n\n\n\n   \nAl doilea.\n\n",
			want:  "Primul.\n\nAl doilea.",
		},
		{
			name:  "crlf",
			input: "Primul.\r\nRead more here\r\nAl doilea.",
			want:  "Primul.\nAl doilea.",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Sanitize(test.input); got != test.want {
				t.Fatalf("Sanitize() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Doar text.",
		"  Primul rând\n\n\n\n| \nПодпишись на нас\n   text   \n\n\n",
		"🇲🇩 Știre\n\n\nhttps://t.me/x\n\n\n\nSursa: agora.md\nFinal",
		"a\n \n \n \nb\n\t\n",
		"| https://telegram.me/joinchat/abc |\n\nConținut\n\n",
	}

	for _, input := range inputs {
		once := Sanitize(input)
		twice := Sanitize(once)

		if once != twice {
			t.Fatalf("Sanitize is not idempotent for %q: %q vs %q", input, once, twice)
		}

		if strings.Contains(once, "\n\n\n") {
			t.Fatalf("blank run survived in %q", once)
		}
	}
}

func TestPrepareFallback(t *testing.T) {
	input := "Parlamentul a votat legea.\n\nDetalii: https://zdg.md/a   aici.\n\nSubscribe to our channel"

	got := PrepareFallback(input)
	want := "Parlamentul a votat legea. Detalii: aici."

	if got != want {
		t.Fatalf("PrepareFallback() = %q, want %q", got, want)
	}
}
