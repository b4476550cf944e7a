package redisconn

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/dispatch/core/dispatch"
)

// Conn is a dispatch.Conn backed by a single go-redis PubSub.
// go-redis does not hold the PubSub lock while receiving, so Subscribe and
// Unsubscribe may run while Read is blocked.
type Conn struct {
	ps     *redis.PubSub
	closed atomic.Bool
}

// Subscribe sends SUBSCRIBE for channel.
func (c *Conn) Subscribe(ctx context.Context, channel string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.ps.Subscribe(ctx, channel)
}

// Unsubscribe sends UNSUBSCRIBE for channel.
func (c *Conn) Unsubscribe(ctx context.Context, channel string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.ps.Unsubscribe(ctx, channel)
}

// Read blocks until the next subscribe ack, unsubscribe ack or message.
// PONG replies and pattern or sharded acks are skipped.
func (c *Conn) Read(ctx context.Context) (dispatch.Event, error) {
	for {
		if c.closed.Load() {
			return dispatch.Event{}, ErrClosed
		}

		msg, err := c.ps.Receive(ctx)
		if err != nil {
			if c.closed.Load() {
				return dispatch.Event{}, errors.Join(ErrClosed, err)
			}
			return dispatch.Event{}, err
		}

		switch m := msg.(type) {
		case *redis.Subscription:
			switch m.Kind {
			case "subscribe":
				return dispatch.Event{Kind: dispatch.EventSubscribed, Channel: m.Channel}, nil
			case "unsubscribe":
				return dispatch.Event{Kind: dispatch.EventUnsubscribed, Channel: m.Channel}, nil
			}
		case *redis.Message:
			return dispatch.Event{
				Kind:    dispatch.EventMessage,
				Channel: m.Channel,
				Payload: []byte(m.Payload),
			}, nil
		case *redis.Pong:
		}
	}
}

// Close releases the underlying connection and unblocks a pending Read.
// It is idempotent.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.ps.Close()
}
