package redisconn

import "errors"

var (
	// ErrClosed is returned by Read and commands after Close.
	ErrClosed = errors.New("redis pubsub connection closed")

	// ErrDialFailed wraps the error of the initial PING on a new pub/sub connection.
	ErrDialFailed = errors.New("failed to open redis pubsub connection")
)
