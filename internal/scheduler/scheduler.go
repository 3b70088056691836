package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"rezumat/internal/metrics"
	"rezumat/internal/ratelimiter"
)

const (
	HousekeepingSpec      = "*/10 * * * *"
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
)

type ChatPruner interface {
	Prune(idle time.Duration) int
}

type HostPruner interface {
	PruneLimiters() int
}

// Scheduler periodically drops idle per-chat and per-host rate limiter state.
type Scheduler struct {
	ctx     context.Context
	cron    *cron.Cron
	chats   ChatPruner
	hosts   HostPruner
	metrics *metrics.Metrics
	log     *slog.Logger
}

func New(
	ctx context.Context,
	chats ChatPruner,
	hosts HostPruner,
	m *metrics.Metrics,
	log *slog.Logger,
) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:     ctx,
		cron:    c,
		chats:   chats,
		hosts:   hosts,
		metrics: m,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(HousekeepingSpec, s.housekeeping); err != nil {
		return fmt.Errorf("add housekeeping job: %w", err)
	}

	s.cron.Start()

	return nil
}

// Stop stops the cron and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) housekeeping() {
	if s.ctx.Err() != nil {
		s.log.InfoContext(s.ctx, "Scheduler context is done",
			"error", s.ctx.Err())
		return
	}

	var chats, hosts int
	if s.chats != nil {
		chats = s.chats.Prune(ratelimiter.DefaultIdle)
	}
	if s.hosts != nil {
		hosts = s.hosts.PruneLimiters()
	}

	s.metrics.PrunedLimiters(chats + hosts)

	s.log.DebugContext(s.ctx, "Housekeeping is done",
		"prunedChats", chats,
		"prunedHosts", hosts)
}
