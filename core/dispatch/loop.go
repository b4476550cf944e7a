package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/dispatch/core/logger"
)

// run is the dispatch loop. It is the only reader of the connection and the
// only goroutine that replaces it, so reconnects and resubscribe passes never
// overlap. ctx belongs to a single Start; once it is cancelled the loop never
// touches the manager's connection again, even if a later Start is running.
func (m *Manager) run(ctx context.Context, conn Conn, done chan<- struct{}) {
	defer close(done)

	for {
		ev, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}

			m.logger.Warn("pubsub connection error", logger.Error(err))

			if conn = m.reconnect(ctx, conn); conn == nil {
				break
			}
			continue
		}

		m.route(ev)
	}

	m.logger.Info("dispatch loop shutting down")
}

// reconnect closes the failed connection, dials until a new one is
// established and resubscribes every registered channel on it.
// It returns nil when the manager is shut down in the meantime.
func (m *Manager) reconnect(ctx context.Context, failed Conn) Conn {
	m.connected.Store(false)

	m.mu.Lock()
	if m.conn == failed {
		m.conn = nil
	}
	m.mu.Unlock()

	_ = failed.Close()

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return nil
		}

		conn, err := m.dialer.Dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			m.logger.Warn("pubsub reconnect failed", logger.RetryCount(attempt), logger.Error(err))

			if m.reconnectDelay > 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(m.reconnectDelay):
				}
			}
			continue
		}

		// A dialer may ignore cancellation; a late connection is discarded.
		m.mu.Lock()
		if ctx.Err() != nil {
			m.mu.Unlock()
			_ = conn.Close()
			return nil
		}
		m.conn = conn
		m.subscribeAll(ctx, conn)
		m.connected.Store(true)
		m.mu.Unlock()

		m.reconnects.Add(1)
		m.logger.Info("pubsub connection re-established", logger.RetryCount(attempt))

		return conn
	}
}

// route turns one protocol event into callback submissions.
// The owner is resolved here to pick a route and resolved again when the
// callback runs, so a callback that starts late still targets the latest owner.
func (m *Manager) route(ev Event) {
	switch ev.Kind {
	case EventUnsubscribed:
		// Local unsubscribe already notified the owner.
	case EventSubscribed:
		m.routeSubscribed(ev.Channel)
	case EventMessage:
		m.routeMessage(ev.Channel, ev.Payload)
	default:
		panic(fmt.Errorf("%w: %d", ErrUnknownEventKind, ev.Kind))
	}
}

func (m *Manager) routeSubscribed(channel string) {
	if _, ok := m.subs.get(channel); !ok {
		m.logger.Info("received subscribe event for non-existing channel", logger.Channel(channel))
		return
	}

	m.notifier.submit("subscribed", channel, func() {
		if s, ok := m.subs.get(channel); ok {
			s.OnSubscribed(channel)
		}
	})
}

func (m *Manager) routeMessage(channel string, payload []byte) {
	if _, ok := m.subs.get(channel); !ok && m.deadLetter == nil {
		m.dropped.Add(1)
		m.logger.Warn("received message for non-existing channel, with no dead letter handler",
			logger.Channel(channel))
		return
	}

	m.notifier.submit("message", channel, func() {
		if s, ok := m.subs.get(channel); ok {
			m.delivered.Add(1)
			s.OnMessage(channel, payload)
			return
		}

		if m.deadLetter != nil {
			m.deadLettered.Add(1)
			m.deadLetter.OnMessage(channel, payload)
			return
		}

		m.dropped.Add(1)
		m.logger.Warn("owner of channel went away before delivery, message dropped",
			logger.Channel(channel))
	})
}
