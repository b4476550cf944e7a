package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/dispatch/core/logger"
)

// ErrDecode wraps payload decoding failures reported to the logger.
var ErrDecode = errors.New("broadcast: failed to decode payload")

// Message is one delivery to a receiver.
type Message[T any] struct {
	Channel string
	Data    T
}

// DecodeFunc converts a raw payload into the receiver message type.
type DecodeFunc[T any] func(channel string, payload []byte) (T, error)

// Fanout is a dispatch subscriber that copies every message it receives to
// any number of in-process receivers. Delivery never blocks: a receiver whose
// buffer is full misses the message.
type Fanout[T any] struct {
	decode DecodeFunc[T]
	logger *slog.Logger

	mu        sync.RWMutex
	receivers map[*receiver[T]]struct{}
	active    map[string]struct{}
	closed    bool

	delivered atomic.Int64
	dropped   atomic.Int64
}

type receiver[T any] struct {
	ch   chan Message[T]
	stop func() bool
}

// Option configures a Fanout.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger configures logging of decode failures.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// New creates a Fanout that decodes payloads with decode.
func New[T any](decode DecodeFunc[T], opts ...Option) *Fanout[T] {
	if decode == nil {
		panic("broadcast: nil decode func")
	}

	o := &options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}

	return &Fanout[T]{
		decode:    decode,
		logger:    o.logger,
		receivers: make(map[*receiver[T]]struct{}),
		active:    make(map[string]struct{}),
	}
}

// NewBytes creates a Fanout that passes payloads through unchanged.
func NewBytes(opts ...Option) *Fanout[[]byte] {
	return New(func(_ string, payload []byte) ([]byte, error) {
		return payload, nil
	}, opts...)
}

// Receive registers a receiver with the given buffer size. The returned
// channel is closed when ctx is cancelled or the Fanout is closed.
func (f *Fanout[T]) Receive(ctx context.Context, buffer int) <-chan Message[T] {
	r := &receiver[T]{ch: make(chan Message[T], max(buffer, 0))}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(r.ch)
		return r.ch
	}
	f.receivers[r] = struct{}{}
	r.stop = context.AfterFunc(ctx, func() {
		f.remove(r)
	})
	f.mu.Unlock()

	return r.ch
}

// OnMessage implements dispatch.Subscriber.
func (f *Fanout[T]) OnMessage(channel string, payload []byte) {
	data, err := f.decode(channel, payload)
	if err != nil {
		f.logger.Warn("dropping undecodable message",
			logger.Channel(channel),
			logger.PayloadSize(len(payload)),
			logger.Error(errors.Join(ErrDecode, err)))
		return
	}

	msg := Message[T]{Channel: channel, Data: data}

	f.mu.RLock()
	defer f.mu.RUnlock()

	for r := range f.receivers {
		select {
		case r.ch <- msg:
			f.delivered.Add(1)
		default:
			f.dropped.Add(1)
		}
	}
}

// OnSubscribed implements dispatch.Subscriber.
func (f *Fanout[T]) OnSubscribed(channel string) {
	f.mu.Lock()
	f.active[channel] = struct{}{}
	f.mu.Unlock()
}

// OnUnsubscribed implements dispatch.Subscriber.
func (f *Fanout[T]) OnUnsubscribed(channel string) {
	f.mu.Lock()
	delete(f.active, channel)
	f.mu.Unlock()
}

// Active reports whether the transport acknowledged channel for this Fanout
// and it has not been unsubscribed or replaced since.
func (f *Fanout[T]) Active(channel string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.active[channel]
	return ok
}

// Receivers returns the number of registered receivers.
func (f *Fanout[T]) Receivers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.receivers)
}

// Dropped returns how many deliveries were skipped because a receiver buffer was full.
func (f *Fanout[T]) Dropped() int64 {
	return f.dropped.Load()
}

// Delivered returns how many deliveries reached a receiver buffer.
func (f *Fanout[T]) Delivered() int64 {
	return f.delivered.Load()
}

// Close closes every receiver channel. Receive after Close returns a closed channel.
func (f *Fanout[T]) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	for r := range f.receivers {
		if r.stop != nil {
			r.stop()
		}
		close(r.ch)
		delete(f.receivers, r)
	}
	return nil
}

func (f *Fanout[T]) remove(r *receiver[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.receivers[r]; !ok {
		return
	}
	delete(f.receivers, r)
	close(r.ch)
}
