package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"rezumat/internal/pipeline"
	"rezumat/internal/summarizer"
)

const (
	placeholderText = "⏳ Procesez..."
	deliverTimeout  = 15 * time.Second
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	cmd := parseCommand(message)

	switch cmd.kind {
	case commandStart, commandHelp:
		return b.sendHTML(ctx, chatID, welcomeText)
	case commandUnknown:
		return b.sendHTML(ctx, chatID, unknownCommandText)
	default:
		msg := toDomainMessage(message)

		b.log.InfoContext(ctx, "Message is received",
			"chatID", chatID,
			"messageID", message.MessageID,
			"forwarded", msg.Forwarded,
			"profile", profileName(cmd.profile))

		return b.withSpinner(ctx, chatID, func() error {
			return b.handleSummary(ctx, message, cmd.profile)
		})
	}
}

// handleSummary answers with a placeholder, then replaces it with the result.
func (b *Bot) handleSummary(
	ctx context.Context,
	message *tgbotapi.Message,
	profile *summarizer.Profile,
) error {
	chatID := message.Chat.ID

	placeholder, err := b.sendReply(ctx, chatID, message.MessageID, placeholderText)
	if err != nil {
		return fmt.Errorf("send placeholder: %w", err)
	}

	progress := func(ctx context.Context, done int, total int) {
		text := fmt.Sprintf("⏳ Procesez linkul %d din %d...", done+1, total)
		if err := b.editHTML(ctx, chatID, placeholder.MessageID, text); err != nil {
			b.log.WarnContext(ctx, "Failed to update progress",
				"error", err,
				"chatID", chatID,
				"done", done,
				"total", total)
		}
	}

	reply, procErr := b.processor.Process(ctx, toDomainMessage(message), profile, progress)
	if procErr != nil {
		b.log.WarnContext(ctx, "Failed to process message",
			"error", procErr,
			"chatID", chatID,
			"messageID", message.MessageID)

		reply = pipeline.Notice(procErr)
	}

	// The reply is delivered even when the update deadline has passed, so a
	// partial batch still reaches the user.
	deliverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliverTimeout)
	defer cancel()

	if err = b.editHTML(deliverCtx, chatID, placeholder.MessageID, reply); err != nil {
		b.log.WarnContext(ctx, "Failed to edit placeholder, sending a new message",
			"error", err,
			"chatID", chatID,
			"placeholderID", placeholder.MessageID)

		if sendErr := b.sendHTML(deliverCtx, chatID, reply); sendErr != nil {
			return errors.Join(
				fmt.Errorf("edit placeholder: %w", err),
				fmt.Errorf("send reply: %w", sendErr),
			)
		}
	}

	if procErr != nil && !isUserError(procErr) {
		return fmt.Errorf("process message: %w", procErr)
	}

	return nil
}

func isUserError(err error) bool {
	return errors.Is(err, pipeline.ErrEmptyMessage) || errors.Is(err, pipeline.ErrTooShort)
}

func profileName(p *summarizer.Profile) string {
	if p == nil {
		return "default"
	}
	return p.Name
}
