package dispatch

import "context"

// EventKind tags a protocol event read from a Conn.
type EventKind uint8

const (
	// EventSubscribed acknowledges a subscribe command for Event.Channel.
	EventSubscribed EventKind = iota + 1
	// EventUnsubscribed acknowledges an unsubscribe command for Event.Channel.
	EventUnsubscribed
	// EventMessage carries a payload published to Event.Channel.
	EventMessage
)

// String returns the kind name used in logs.
func (k EventKind) String() string {
	switch k {
	case EventSubscribed:
		return "subscribed"
	case EventUnsubscribed:
		return "unsubscribed"
	case EventMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Event is a single protocol event produced by Conn.Read.
type Event struct {
	Kind    EventKind
	Channel string
	Payload []byte
}

// Conn is one live pub/sub transport connection.
//
// Read is only ever called from the manager's dispatch loop. Subscribe and
// Unsubscribe are called from other goroutines while Read is blocked, so they
// must be safe for concurrent use with Read and must not wait for the
// acknowledgement: acks are delivered through Read.
// Close must be idempotent and must unblock a pending Read.
type Conn interface {
	Subscribe(ctx context.Context, channel string) error
	Unsubscribe(ctx context.Context, channel string) error
	Read(ctx context.Context) (Event, error)
	Close() error
}

// Dialer produces connections. The manager calls Dial once on Start and
// again after every read failure.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (Conn, error)

// Dial implements Dialer.
func (f DialerFunc) Dial(ctx context.Context) (Conn, error) {
	return f(ctx)
}
