package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const sendSpinnerInterval = 4 * time.Second

func (b *Bot) sendTyping(ctx context.Context, chatID int64) {
	config := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.rateLimiter.Request(config); err != nil {
		b.log.ErrorContext(ctx, "Failed to send chat action",
			"error", err,
			"chatID", chatID)
	}
}

func (b *Bot) withSpinner(ctx context.Context, chatID int64, fn func() error) error {
	spinCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		b.sendTyping(spinCtx, chatID)

		t := time.NewTicker(sendSpinnerInterval)
		defer t.Stop()

		for {
			select {
			case <-spinCtx.Done():
				return
			case <-t.C:
				b.sendTyping(spinCtx, chatID)
			}
		}
	}()

	return fn()
}

func (b *Bot) sendHTML(ctx context.Context, chatID int64, text string) error {
	_, err := b.sendReply(ctx, chatID, 0, text)
	return err
}

func (b *Bot) sendReply(ctx context.Context, chatID int64, replyTo int, text string) (tgbotapi.Message, error) {
	message := tgbotapi.NewMessage(chatID, b.validUTF8(ctx, chatID, text))
	message.ParseMode = tgbotapi.ModeHTML
	message.DisableWebPagePreview = true
	message.ReplyToMessageID = replyTo

	sent, err := b.rateLimiter.Send(ctx, message)
	if err != nil {
		return tgbotapi.Message{}, fmt.Errorf("send message: %w", err)
	}

	return sent, nil
}

func (b *Bot) editHTML(ctx context.Context, chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, b.validUTF8(ctx, chatID, text))
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true

	if _, err := b.rateLimiter.Send(ctx, edit); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}

	return nil
}

func (b *Bot) validUTF8(ctx context.Context, chatID int64, text string) string {
	normalized := strings.ToValidUTF8(text, "?")
	if normalized != text {
		b.log.WarnContext(ctx, "Message text had invalid UTF-8 and was normalized",
			"chatID", chatID,
			"originalLen", len(text),
			"normalizedLen", len(normalized))
	}
	return normalized
}
