package redisconn

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/dispatch/core/dispatch"
)

// Dialer opens pub/sub connections from a shared go-redis client.
type Dialer struct {
	client redis.UniversalClient
}

// NewDialer returns a dispatch.Dialer for client.
func NewDialer(client redis.UniversalClient) *Dialer {
	return &Dialer{client: client}
}

// Dial opens a fresh PubSub and verifies it with PING.
// The PONG reply is consumed and discarded by Conn.Read.
func (d *Dialer) Dial(ctx context.Context) (dispatch.Conn, error) {
	ps := d.client.Subscribe(ctx)

	if err := ps.Ping(ctx); err != nil {
		_ = ps.Close()
		return nil, errors.Join(ErrDialFailed, err)
	}

	return &Conn{ps: ps}, nil
}
