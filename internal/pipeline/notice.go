package pipeline

import (
	"context"
	"errors"

	"rezumat/internal/fetcher"
	"rezumat/internal/summarizer"
)

// Notice maps a processing error to a short message for the user.
func Notice(err error) string {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return "❌ Mesajul este gol. Trimite un text sau un link."
	case errors.Is(err, ErrTooShort):
		return "❌ Textul e prea scurt pentru un rezumat."
	case errors.Is(err, fetcher.ErrNoContent):
		return "❌ Nu am putut extrage conținut din link."
	case errors.Is(err, summarizer.ErrAuthFailure):
		return "🔑 Serviciul de rezumare a refuzat autentificarea."
	case errors.Is(err, summarizer.ErrRateLimited):
		return "⏳ Prea multe cereri. Încearcă din nou peste un minut."
	case errors.Is(err, summarizer.ErrProvider):
		return "⚠️ Serviciul de rezumare nu este disponibil acum."
	case errors.Is(err, context.DeadlineExceeded):
		return "⌛ Procesarea a durat prea mult."
	default:
		return "❌ Nu am putut genera rezumatul."
	}
}
