package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/dispatch/core/logger"
)

// notifier runs subscriber callbacks on their own goroutines.
// It is unbounded: every submission gets a goroutine, so a slow subscriber
// delays only itself. No ordering is guaranteed between submissions,
// including submissions for the same channel.
type notifier struct {
	logger *slog.Logger
	wg     sync.WaitGroup

	active atomic.Int32
	failed atomic.Int64
}

func newNotifier(log *slog.Logger) *notifier {
	return &notifier{logger: log}
}

// submit schedules fn. A panic inside fn is recovered and logged.
func (n *notifier) submit(callback, channel string, fn func()) {
	n.wg.Add(1)
	n.active.Add(1)

	go func() {
		defer n.wg.Done()
		defer n.active.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				n.failed.Add(1)
				n.logger.Error("subscriber callback panicked",
					logger.Channel(channel),
					logger.Action(callback),
					logger.Panic(r))
			}
		}()

		fn()
	}()
}

// wait blocks until all submitted callbacks return or ctx is done.
func (n *notifier) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
