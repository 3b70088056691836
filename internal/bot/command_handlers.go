package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"rezumat/internal/summarizer"
)

const welcomeText = `🤖 <b>Bun venit!</b>

Trimite-mi un link, un text sau redirecționează o postare și îți răspund cu un rezumat.

– Un singur link: rezumat al articolului
– Mai multe linkuri: câte un rezumat scurt pentru fiecare (maximum 7)
– Text fără link: rezumat al textului

Lungimea rezumatului:
/scurt – 250-300 de caractere
/mediu – 500-600 de caractere
/lung – 850-950 de caractere

Scrie comanda urmată de link sau text, de exemplu <code>/scurt https://exemplu.md/articol</code>.`

const unknownCommandText = "❔ Comandă necunoscută. Folosește /help."

type commandKind int

const (
	commandNone commandKind = iota
	commandStart
	commandHelp
	commandProfile
	commandUnknown
)

type command struct {
	kind    commandKind
	profile *summarizer.Profile
}

// parseCommand recognizes the leading bot command. Profile commands keep the
// rest of the message for summarizing.
func parseCommand(message *tgbotapi.Message) command {
	name := strings.ToLower(message.Command())
	if name == "" {
		return command{kind: commandNone}
	}

	switch name {
	case "start":
		return command{kind: commandStart}
	case "help", "ajutor":
		return command{kind: commandHelp}
	}

	if p, ok := summarizer.ProfileByName(name); ok {
		return command{kind: commandProfile, profile: &p}
	}

	return command{kind: commandUnknown}
}

func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Pornește botul"},
		{Command: "help", Description: "Cum se folosește"},
		{Command: "scurt", Description: "Rezumat scurt (250-300 caractere)"},
		{Command: "mediu", Description: "Rezumat mediu (500-600 caractere)"},
		{Command: "lung", Description: "Rezumat lung (850-950 caractere)"},
	}
}
