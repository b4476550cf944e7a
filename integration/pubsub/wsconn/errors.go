package wsconn

import "errors"

var (
	// ErrClosed is returned by Read and commands after Close.
	ErrClosed = errors.New("websocket pubsub connection closed")

	// ErrDialFailed wraps websocket handshake failures.
	ErrDialFailed = errors.New("failed to open websocket pubsub connection")

	// ErrUnknownOp is returned by Read for a frame with an op the client does not understand.
	ErrUnknownOp = errors.New("unknown websocket frame op")

	// ErrUnexpectedMessageType is returned by Read for non-binary websocket messages.
	ErrUnexpectedMessageType = errors.New("unexpected websocket message type")

	// ErrInvalidFrame is returned when a frame cannot be decoded.
	ErrInvalidFrame = errors.New("invalid websocket frame")
)
