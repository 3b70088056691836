package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rezumat/internal/bot"
	"rezumat/internal/config"
	"rezumat/internal/fetcher"
	"rezumat/internal/links"
	"rezumat/internal/metrics"
	"rezumat/internal/pipeline"
	"rezumat/internal/scheduler"
	"rezumat/internal/summarizer"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	if err = cfg.Validate(); err != nil {
		log.ErrorContext(ctx, "Config is invalid",
			"error", err)

		return
	}

	m := metrics.New()

	sum := summarizer.New(initCompleter(ctx, cfg, log), summarizer.Options{
		Language:        cfg.SummaryLanguage,
		MaxContentChars: cfg.MaxContentChars,
		Timeout:         cfg.LLMTimeout,
	}, log)

	fetch := fetcher.NewDefault(fetcher.Options{
		Timeout:           cfg.FetchTimeout,
		Attempts:          cfg.FetchAttempts,
		RetryDelay:        cfg.FetchRetryDelay,
		RequestsPerSecond: cfg.FetchRPS,
		ReaderURL:         cfg.ReaderURL(),
	}, log)

	blocked := links.DefaultBlockedDomains
	if len(cfg.BlockedDomains) > 0 {
		blocked = cfg.BlockedDomains
	}

	defaultProfile, batchProfile := cfg.Profiles()

	pipe := pipeline.New(links.NewFilter(blocked), fetch, sum, m, pipeline.Options{
		DefaultProfile: defaultProfile,
		BatchProfile:   batchProfile,
	}, log)

	botInst, err := bot.New(cfg.TelegramToken, pipe, cfg.AllowedUsers, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize bot",
			"error", err,
			"allowedUsersCount", len(cfg.AllowedUsers))

		return
	}
	defer botInst.Stop()
	log.InfoContext(ctx, "Bot is initialized",
		"allowedUsersCount", len(cfg.AllowedUsers),
		"provider", cfg.LLMProvider,
		"defaultProfile", defaultProfile.Name,
		"batchProfile", batchProfile.Name)

	if err = botInst.RegisterCommands(); err != nil {
		log.WarnContext(ctx, "Failed to register bot commands",
			"error", err)
	}

	sched := scheduler.New(ctx, botInst.RateLimiter(), fetch, m, log)
	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", scheduler.HousekeepingSpec)

		return
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", scheduler.HousekeepingSpec)

	if cfg.MetricsAddr != "" {
		go func() {
			if serveErr := metrics.Serve(ctx, cfg.MetricsAddr, m, log); serveErr != nil {
				log.ErrorContext(ctx, "Metrics server failed",
					"error", serveErr,
					"addr", cfg.MetricsAddr)
			}
		}()
	}

	log.InfoContext(ctx, "Bot is started",
		"updateTimeoutSeconds", bot.BotUpdateTimeout)

	botInst.Start(ctx)

	log.InfoContext(ctx, "Exiting...",
		"uptimeSeconds", time.Since(start).Seconds())
}

func initCompleter(ctx context.Context, cfg config.Config, log *slog.Logger) summarizer.Completer {
	if cfg.LLMProvider == config.ProviderOpenAI {
		log.InfoContext(ctx, "OpenAI completer is initialized",
			"provider", config.ProviderOpenAI,
			"model", cfg.OpenAIModel)

		return summarizer.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	log.InfoContext(ctx, "Anthropic completer is initialized",
		"provider", config.ProviderAnthropic,
		"model", cfg.AnthropicModel)

	return summarizer.NewAnthropicCompleter(cfg.AnthropicAPIKey, cfg.AnthropicModel)
}
