package dispatch

import (
	"log/slog"
	"time"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger configures structured logging for the manager.
// By default log output is discarded.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.logger = log
		}
	}
}

// WithDeadLetter sets the subscriber that receives messages for channels
// without a registered owner. Without it such messages are dropped with a warning.
//
// Example:
//
//	manager, err := dispatch.New(dialer,
//	    dispatch.WithDeadLetter(&dispatch.SubscriberFuncs{
//	        Message: func(channel string, payload []byte) {
//	            log.Warn("unrouted message", "channel", channel)
//	        },
//	    }),
//	)
func WithDeadLetter(s Subscriber) Option {
	return func(m *Manager) {
		if s != nil {
			m.deadLetter = s
		}
	}
}

// WithShutdownTimeout bounds how long Shutdown waits for the dispatch loop
// and in-flight callbacks.
func WithShutdownTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.shutdownTimeout = d
		}
	}
}

// WithReconnectDelay sets a pause between failed dial attempts during reconnect.
// Zero, the default, retries immediately.
func WithReconnectDelay(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.reconnectDelay = d
		}
	}
}

// WithCommandTimeout bounds each subscribe/unsubscribe command sent to the transport.
// Zero, the default, leaves commands unbounded.
func WithCommandTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.commandTimeout = d
		}
	}
}
