package wsconn

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/dispatch/core/dispatch"
)

// Dialer opens websocket connections to a pub/sub gateway.
type Dialer struct {
	url          string
	header       http.Header
	dialer       *websocket.Dialer
	writeTimeout time.Duration
}

// Option configures a Dialer.
type Option func(*Dialer)

// WithHeader sets request headers sent with the handshake, e.g. Authorization.
func WithHeader(h http.Header) Option {
	return func(d *Dialer) {
		d.header = h
	}
}

// WithWebsocketDialer replaces websocket.DefaultDialer.
func WithWebsocketDialer(wd *websocket.Dialer) Option {
	return func(d *Dialer) {
		if wd != nil {
			d.dialer = wd
		}
	}
}

// WithWriteTimeout bounds each frame write. Default is 10s.
func WithWriteTimeout(t time.Duration) Option {
	return func(d *Dialer) {
		if t >= 0 {
			d.writeTimeout = t
		}
	}
}

// NewDialer returns a dispatch.Dialer for the gateway at url (ws:// or wss://).
func NewDialer(url string, opts ...Option) *Dialer {
	d := &Dialer{
		url:          url,
		dialer:       websocket.DefaultDialer,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dial performs the websocket handshake.
func (d *Dialer) Dial(ctx context.Context) (dispatch.Conn, error) {
	ws, resp, err := d.dialer.DialContext(ctx, d.url, d.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, errors.Join(ErrDialFailed, err)
	}

	return newConn(ws, d.writeTimeout), nil
}
