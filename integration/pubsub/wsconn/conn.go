package wsconn

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/dispatch/core/dispatch"
)

const closeGrace = 250 * time.Millisecond

// Conn is a dispatch.Conn over a websocket gateway connection.
// gorilla/websocket allows one concurrent reader and one concurrent writer;
// Read is the only reader and frame writes are serialized by writeMu.
type Conn struct {
	ws           *websocket.Conn
	writeMu      sync.Mutex
	writeTimeout time.Duration
	closed       atomic.Bool
}

func newConn(ws *websocket.Conn, writeTimeout time.Duration) *Conn {
	return &Conn{ws: ws, writeTimeout: writeTimeout}
}

// Subscribe sends a subscribe frame for channel.
func (c *Conn) Subscribe(ctx context.Context, channel string) error {
	return c.write(ctx, Frame{Op: OpSubscribe, Channel: channel})
}

// Unsubscribe sends an unsubscribe frame for channel.
func (c *Conn) Unsubscribe(ctx context.Context, channel string) error {
	return c.write(ctx, Frame{Op: OpUnsubscribe, Channel: channel})
}

// Read blocks until the next frame arrives. Cancelling ctx unblocks it.
func (c *Conn) Read(ctx context.Context) (dispatch.Event, error) {
	if c.closed.Load() {
		return dispatch.Event{}, ErrClosed
	}

	stop := context.AfterFunc(ctx, func() {
		_ = c.ws.SetReadDeadline(time.Now())
	})
	defer stop()

	mt, data, err := c.ws.ReadMessage()
	if err != nil {
		if c.closed.Load() {
			return dispatch.Event{}, errors.Join(ErrClosed, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return dispatch.Event{}, errors.Join(ctxErr, err)
		}
		return dispatch.Event{}, err
	}

	if mt != websocket.BinaryMessage {
		return dispatch.Event{}, fmt.Errorf("%w: %d", ErrUnexpectedMessageType, mt)
	}

	f, err := DecodeFrame(data)
	if err != nil {
		return dispatch.Event{}, err
	}

	switch f.Op {
	case OpSubscribed:
		return dispatch.Event{Kind: dispatch.EventSubscribed, Channel: f.Channel}, nil
	case OpUnsubscribed:
		return dispatch.Event{Kind: dispatch.EventUnsubscribed, Channel: f.Channel}, nil
	case OpMessage:
		return dispatch.Event{Kind: dispatch.EventMessage, Channel: f.Channel, Payload: f.Payload}, nil
	default:
		return dispatch.Event{}, fmt.Errorf("%w: %q", ErrUnknownOp, f.Op)
	}
}

// Close sends a close frame, best effort, and closes the socket.
// It is idempotent and does not wait for writes in progress: WriteControl
// gives up after closeGrace and closing the socket fails a stalled write.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeGrace))

	return c.ws.Close()
}

func (c *Conn) write(ctx context.Context, f Frame) error {
	if c.closed.Load() {
		return ErrClosed
	}

	data, err := EncodeFrame(f)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Time{}
	if c.writeTimeout > 0 {
		deadline = time.Now().Add(c.writeTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}

	return c.ws.WriteMessage(websocket.BinaryMessage, data)
}
