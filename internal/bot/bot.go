package bot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"rezumat/internal/batch"
	"rezumat/internal/domain"
	"rezumat/internal/ratelimiter"
	"rezumat/internal/summarizer"
)

const (
	maxBackoffSeconds         = 60
	initialBackoffSeconds     = 3
	backoffGrowthFactor       = 2
	resetOffsetBackoffSeconds = 30
	updateProcessingTimeout   = 5 * time.Minute

	BotUpdateTimeout = 60
)

// Processor turns one message into the HTML reply.
type Processor interface {
	Process(
		ctx context.Context,
		msg domain.Message,
		override *summarizer.Profile,
		progress batch.Progress,
	) (string, error)
}

type Bot struct {
	api          *tgbotapi.BotAPI
	rateLimiter  *ratelimiter.RateLimiter
	processor    Processor
	allowedUsers []int64
	log          *slog.Logger
}

func New(
	token string,
	processor Processor,
	allowedUsers []int64,
	log *slog.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:          api,
		rateLimiter:  ratelimiter.New(api, log),
		processor:    processor,
		allowedUsers: allowedUsers,
		log:          log,
	}, nil
}

func (b *Bot) RateLimiter() *ratelimiter.RateLimiter {
	return b.rateLimiter
}

// RegisterCommands publishes the command list shown by Telegram clients.
func (b *Bot) RegisterCommands() error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		return fmt.Errorf("set my commands: %w", err)
	}
	return nil
}

// Start polls for updates until ctx is done. Updates are handled one at a
// time in arrival order.
func (b *Bot) Start(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = BotUpdateTimeout

	backoffSeconds := initialBackoffSeconds

	for {
		if ctx.Err() != nil {
			b.log.InfoContext(ctx, "Bot context is done",
				"error", ctx.Err())
			return
		}

		updates := b.api.GetUpdatesChan(updateConfig)
		updatesClosed := false

		for !updatesClosed {
			select {
			case <-ctx.Done():
				b.api.StopReceivingUpdates()
				b.log.InfoContext(ctx, "Bot context is done",
					"error", ctx.Err())
				return

			case update, ok := <-updates:
				if !ok {
					updatesClosed = true
					continue
				}
				updateConfig.Offset = update.UpdateID + 1
				backoffSeconds = initialBackoffSeconds

				b.handleUpdate(ctx, &update)
			}
		}

		b.log.WarnContext(ctx, "Update channel is closed, reconnecting...",
			"offset", updateConfig.Offset,
			"backoffSeconds", backoffSeconds)

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(backoffSeconds) * time.Second):
		}

		backoffSeconds = updateBackoffSeconds(backoffSeconds)

		if backoffSeconds >= resetOffsetBackoffSeconds {
			updateConfig.Offset = 0
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update *tgbotapi.Update) {
	message := update.Message
	if message == nil {
		message = update.ChannelPost
	}
	if message == nil || message.Chat == nil {
		return
	}

	updateCtx, cancel := context.WithTimeout(ctx, updateProcessingTimeout)
	defer cancel()

	var userID int64
	var username string
	if message.From != nil {
		userID, username = message.From.ID, message.From.UserName
	}

	if !b.userAllowed(userID) {
		b.log.DebugContext(updateCtx, "User is not allowed",
			"userID", userID,
			"chatID", message.Chat.ID,
			"username", username,
			"chatType", message.Chat.Type)

		return
	}

	if err := b.handleMessage(updateCtx, message); err != nil {
		b.log.ErrorContext(updateCtx, "Failed to handle message",
			"error", err,
			"chatID", message.Chat.ID,
			"userID", userID,
			"chatType", message.Chat.Type,
			"messageID", message.MessageID)
	}
}

func (b *Bot) userAllowed(userID int64) bool {
	return len(b.allowedUsers) == 0 || slices.Contains(b.allowedUsers, userID)
}

func (b *Bot) Stop() {
	if b.rateLimiter != nil {
		b.rateLimiter.Stop()
	}
}

func updateBackoffSeconds(backoffSeconds int) int {
	return min(backoffSeconds*backoffGrowthFactor, maxBackoffSeconds)
}
