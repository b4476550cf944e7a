package dispatch

import "time"

// Config holds manager settings loadable from the environment.
type Config struct {
	ShutdownTimeout time.Duration `env:"DISPATCH_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	ReconnectDelay  time.Duration `env:"DISPATCH_RECONNECT_DELAY" envDefault:"0s"`
	CommandTimeout  time.Duration `env:"DISPATCH_COMMAND_TIMEOUT" envDefault:"0s"`
}

// DefaultConfig returns the defaults used when no configuration is provided.
func DefaultConfig() Config {
	return Config{
		ShutdownTimeout: 30 * time.Second,
	}
}

// NewFromConfig creates a Manager from configuration.
// Additional options override config values.
func NewFromConfig(cfg Config, dialer Dialer, opts ...Option) (*Manager, error) {
	allOpts := append([]Option{
		WithShutdownTimeout(cfg.ShutdownTimeout),
		WithReconnectDelay(cfg.ReconnectDelay),
		WithCommandTimeout(cfg.CommandTimeout),
	}, opts...)

	return New(dialer, allOpts...)
}
