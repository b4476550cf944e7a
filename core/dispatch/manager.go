package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/dispatch/core/logger"
)

// Manager multiplexes one pub/sub connection across many channel subscribers.
type Manager struct {
	id         uuid.UUID
	dialer     Dialer
	deadLetter Subscriber
	subs       *registry
	notifier   *notifier
	logger     *slog.Logger

	shutdownTimeout time.Duration
	reconnectDelay  time.Duration
	commandTimeout  time.Duration

	// mu serializes Subscribe, Unsubscribe and resubscribe passes, and guards conn.
	mu   sync.Mutex
	conn Conn

	// lifecycle serializes Start and Shutdown.
	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}

	running   atomic.Bool
	connected atomic.Bool

	delivered    atomic.Int64
	deadLettered atomic.Int64
	dropped      atomic.Int64
	reconnects   atomic.Int64
}

// Stats provides observability metrics for monitoring and debugging.
type Stats struct {
	MessagesDelivered    int64
	MessagesDeadLettered int64
	MessagesDropped      int64
	CallbacksFailed      int64 // callbacks that panicked
	ActiveCallbacks      int32
	Reconnects           int64
	Subscriptions        int
	IsRunning            bool
	IsConnected          bool
}

// New creates a manager that obtains connections from dialer.
func New(dialer Dialer, opts ...Option) (*Manager, error) {
	if dialer == nil {
		return nil, ErrDialerNil
	}

	m := &Manager{
		id:              uuid.New(),
		dialer:          dialer,
		subs:            newRegistry(),
		shutdownTimeout: 30 * time.Second,
		logger:          logger.Nop(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.With(logger.Component("dispatch"), logger.ID("manager_id", m.id.String()))
	m.notifier = newNotifier(m.logger)

	return m, nil
}

// Start dials the initial connection, subscribes every channel registered so
// far and launches the dispatch loop in the background.
// The context bounds only the initial dial.
func (m *Manager) Start(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if m.running.Load() {
		return ErrAlreadyStarted
	}

	conn, err := m.dialer.Dial(ctx)
	if err != nil {
		return errors.Join(ErrConnectFailed, err)
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel
	m.done = make(chan struct{})

	m.mu.Lock()
	m.conn = conn
	m.running.Store(true)
	m.connected.Store(true)
	m.subscribeAll(loopCtx, conn)
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "dispatch manager started",
		logger.Count("subscriptions", m.subs.len()))

	go m.run(loopCtx, conn, m.done)

	return nil
}

// Shutdown stops the dispatch loop by closing the active connection and waits
// for the loop and in-flight callbacks to finish, bounded by ctx and the
// configured shutdown timeout. Registered subscriptions are kept, so a later
// Start resubscribes them.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if !m.running.CompareAndSwap(true, false) {
		return ErrNotStarted
	}

	m.cancel()

	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	m.connected.Store(false)

	m.logger.InfoContext(ctx, "dispatch manager stopping, waiting for active callbacks to complete",
		slog.Duration("timeout", m.shutdownTimeout))

	ctx, cancel := context.WithTimeout(ctx, m.shutdownTimeout)
	defer cancel()

	select {
	case <-m.done:
	case <-ctx.Done():
		return errors.Join(ErrShutdownTimeout, ctx.Err())
	}

	if err := m.notifier.wait(ctx); err != nil {
		m.logger.Warn("dispatch shutdown timeout exceeded - some callbacks may be abandoned",
			slog.Duration("timeout", m.shutdownTimeout))
		return errors.Join(ErrShutdownTimeout, err)
	}

	m.logger.Info("dispatch manager stopped cleanly")
	return nil
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// The returned function starts the manager, blocks until ctx is cancelled and
// then shuts it down.
func (m *Manager) Run(ctx context.Context) func() error {
	return func() error {
		if err := m.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		if err := m.Shutdown(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, ErrNotStarted) {
			return err
		}
		return nil
	}
}

// Subscribe makes s the sole owner of channel. A previous, different owner is
// notified through OnUnsubscribed. The transport subscribe command is sent
// when connected; its failure is logged and the registration stands, to be
// reconciled by the next resubscribe pass.
func (m *Manager) Subscribe(channel string, s Subscriber) {
	if s == nil {
		panic("dispatch: nil subscriber")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev, replaced := m.subs.put(channel, s)

	if m.conn != nil {
		ctx, cancel := m.commandContext(context.Background())
		if err := m.conn.Subscribe(ctx, channel); err != nil {
			m.logger.Warn("subscription error", logger.Channel(channel), logger.Error(err))
		}
		cancel()
	}

	if replaced && !sameSubscriber(prev, s) {
		m.notifyUnsubscribed(channel, prev)
	}
}

// Unsubscribe removes the registration for channel only when s is its current
// owner; otherwise it does nothing. On removal the transport unsubscribe
// command is sent (failures logged) and s is notified through OnUnsubscribed.
func (m *Manager) Unsubscribe(channel string, s Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.subs.removeIf(channel, s) {
		return
	}

	if m.conn != nil {
		ctx, cancel := m.commandContext(context.Background())
		if err := m.conn.Unsubscribe(ctx, channel); err != nil {
			m.logger.Warn("unsubscription error", logger.Channel(channel), logger.Error(err))
		}
		cancel()
	}

	m.notifyUnsubscribed(channel, s)
}

// HasSubscription reports whether channel currently has an owner.
func (m *Manager) HasSubscription(channel string) bool {
	return m.subs.has(channel)
}

// Channels returns a sorted snapshot of the registered channel names.
func (m *Manager) Channels() []string {
	return m.subs.names()
}

// Stats returns current manager statistics.
func (m *Manager) Stats() Stats {
	return Stats{
		MessagesDelivered:    m.delivered.Load(),
		MessagesDeadLettered: m.deadLettered.Load(),
		MessagesDropped:      m.dropped.Load(),
		CallbacksFailed:      m.notifier.failed.Load(),
		ActiveCallbacks:      m.notifier.active.Load(),
		Reconnects:           m.reconnects.Load(),
		Subscriptions:        m.subs.len(),
		IsRunning:            m.running.Load(),
		IsConnected:          m.connected.Load(),
	}
}

// Healthcheck validates that the manager is running and holds a live connection.
//
// Example:
//
//	healthSrv.AddCheck("dispatch", manager.Healthcheck)
func (m *Manager) Healthcheck(ctx context.Context) error {
	if !m.running.Load() {
		return errors.Join(ErrHealthcheckFailed, ErrNotRunning)
	}
	if !m.connected.Load() {
		return errors.Join(ErrHealthcheckFailed, ErrDisconnected)
	}
	return nil
}

func (m *Manager) commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	if m.commandTimeout > 0 {
		return context.WithTimeout(parent, m.commandTimeout)
	}
	return context.WithCancel(parent)
}

// subscribeAll sends a subscribe command for every registered channel.
// Callers must hold m.mu. Individual failures are logged and skipped.
func (m *Manager) subscribeAll(ctx context.Context, conn Conn) {
	names := m.subs.names()
	failed := 0

	for _, name := range names {
		cmdCtx, cancel := m.commandContext(ctx)
		err := conn.Subscribe(cmdCtx, name)
		cancel()

		if err != nil {
			failed++
			m.logger.Warn("resubscription error", logger.Channel(name), logger.Error(err))
		}
	}

	if len(names) > 0 {
		m.logger.Debug("resubscribed channels",
			logger.Count("subscriptions", len(names)),
			logger.Count("failed", failed))
	}
}

func (m *Manager) notifyUnsubscribed(channel string, s Subscriber) {
	m.notifier.submit("unsubscribed", channel, func() {
		s.OnUnsubscribed(channel)
	})
}
