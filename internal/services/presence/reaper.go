package presence

import (
	"context"
	"log/slog"
	"time"

	"github.com/sala-livre/batepapo/internal/announce"
	"github.com/sala-livre/batepapo/internal/dependencies/clock"
	"github.com/sala-livre/batepapo/internal/model"
	"github.com/sala-livre/batepapo/internal/services/auth"
	"github.com/sala-livre/batepapo/internal/storage"
)

// Default sweep parameters. The timeout is deliberately shorter than the
// interval: eviction latency is bounded by interval + timeout, never
// instantaneous.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultInterval = 15 * time.Second
)

// Reaper periodically evicts participants whose last activity exceeds the
// presence timeout and announces each departure. It is the only component
// that removes participants without an explicit client action.
type Reaper struct {
	storage   storage.Storage
	auth      *auth.Service
	announcer *announce.Announcer
	clock     clock.Clock
	logger    *slog.Logger

	timeout  time.Duration
	interval time.Duration
}

// NewReaper creates a reaper with the given timeout and sweep interval;
// zero values fall back to the defaults.
func NewReaper(
	storage storage.Storage,
	auth *auth.Service,
	announcer *announce.Announcer,
	clock clock.Clock,
	logger *slog.Logger,
	timeout, interval time.Duration,
) *Reaper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reaper{
		storage:   storage,
		auth:      auth,
		announcer: announcer,
		clock:     clock,
		logger:    logger,
		timeout:   timeout,
		interval:  interval,
	}
}

// Run sweeps on a fixed ticker until ctx is cancelled
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reaper started",
		slog.Duration("timeout", r.timeout),
		slog.Duration("interval", r.interval),
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reaper stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs one eviction pass. Each idle participant is an independent
// unit of work: removal is keyed by that participant's own name, a
// concurrent removal is skipped silently, and one failure never blocks
// the rest of the pass.
func (r *Reaper) Sweep(ctx context.Context) {
	participants, err := r.storage.ListParticipants(ctx)
	if err != nil {
		r.logger.Error("reaper could not snapshot participants", slog.String("error", err.Error()))
		return
	}

	now := r.clock.Now()
	for _, p := range participants {
		if !p.IdleFor(r.timeout, now) {
			continue
		}

		removed, err := r.storage.RemoveParticipant(ctx, p.Name)
		if err != nil {
			r.logger.Error("failed to evict participant",
				slog.String("name", p.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !removed {
			// Already gone, nothing to announce
			continue
		}

		r.auth.RevokeName(p.Name)
		r.announcer.Announce(model.LeaveAnnouncement(p.Name, now))

		r.logger.Info("participant evicted",
			slog.String("name", p.Name),
			slog.Duration("idle", now.Sub(p.LastStatus)),
		)
	}
}
