package dispatch

import "errors"

var (
	// ErrAlreadyStarted is returned when Start is called on a running manager.
	ErrAlreadyStarted = errors.New("dispatch manager already started")

	// ErrNotStarted is returned when Shutdown is called on a manager that is not running.
	ErrNotStarted = errors.New("dispatch manager not started")

	// ErrDialerNil is returned by New when no connection factory is provided.
	ErrDialerNil = errors.New("dispatch dialer is nil")

	// ErrConnectFailed wraps the dialer error returned from Start.
	ErrConnectFailed = errors.New("failed to establish pubsub connection")

	// ErrUnknownEventKind marks a protocol event with a kind the dispatch loop cannot route.
	// It indicates a broken Conn implementation and is raised as a panic.
	ErrUnknownEventKind = errors.New("unknown pubsub event kind")

	// ErrShutdownTimeout is returned when in-flight callbacks outlive the shutdown deadline.
	ErrShutdownTimeout = errors.New("dispatch shutdown timeout exceeded")

	// ErrHealthcheckFailed is the umbrella error returned by Healthcheck.
	ErrHealthcheckFailed = errors.New("dispatch healthcheck failed")

	// ErrNotRunning indicates the manager has not been started or has been shut down.
	ErrNotRunning = errors.New("dispatch manager is not running")

	// ErrDisconnected indicates the manager is running but currently reconnecting.
	ErrDisconnected = errors.New("dispatch manager is disconnected")
)
