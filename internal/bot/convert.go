package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"rezumat/internal/domain"
)

// toDomainMessage keeps the text or caption of message with its link
// entities. Media captions are treated like text.
func toDomainMessage(message *tgbotapi.Message) domain.Message {
	text, entities := message.Text, message.Entities
	if text == "" {
		text, entities = message.Caption, message.CaptionEntities
	}

	msg := domain.Message{
		Text:      text,
		Forwarded: message.ForwardFrom != nil || message.ForwardFromChat != nil || message.ForwardDate != 0,
	}

	for _, e := range entities {
		if e.Type != domain.EntityURL && e.Type != domain.EntityTextLink {
			continue
		}

		msg.Entities = append(msg.Entities, domain.Entity{
			Type:   e.Type,
			Offset: e.Offset,
			Length: e.Length,
			URL:    e.URL,
		})
	}

	return msg
}
