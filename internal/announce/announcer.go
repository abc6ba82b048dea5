// Package announce writes join and departure room announcements without
// blocking the operation that triggered them. Failures are logged, never
// returned: an announcement that cannot be stored must not fail a
// registration or an eviction.
package announce

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sala-livre/batepapo/internal/model"
	"github.com/sala-livre/batepapo/internal/storage"
)

// writeTimeout bounds each background store write; announcements are
// detached from the request context that triggered them.
const writeTimeout = 5 * time.Second

// Announcer appends room announcements to the message store best-effort
type Announcer struct {
	storage storage.Storage
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// New creates a new Announcer
func New(storage storage.Storage, logger *slog.Logger) *Announcer {
	return &Announcer{
		storage: storage,
		logger:  logger,
	}
}

// Announce appends the message in the background and returns immediately
func (a *Announcer) Announce(m *model.Message) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		if err := a.storage.AppendMessage(ctx, m); err != nil {
			a.logger.Error("failed to store announcement",
				slog.String("from", m.From),
				slog.String("type", m.Type),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Wait blocks until all queued announcements have been attempted. Tests
// and shutdown use it; request paths never do.
func (a *Announcer) Wait() {
	a.wg.Wait()
}
