// Command dispatch-tail subscribes to Redis pub/sub channels through a
// dispatch manager and logs every callback it receives.
//
// Usage:
//
//	REDIS_URL=redis://localhost:6379/0 dispatch-tail --channel alerts --channel orders
//	dispatch-tail --channels-file channels.yaml --dead-letter
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/dmitrymomot/dispatch/core/config"
	"github.com/dmitrymomot/dispatch/core/dispatch"
	"github.com/dmitrymomot/dispatch/core/health"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/integration/database/redis"
	"github.com/dmitrymomot/dispatch/integration/pubsub/redisconn"
)

type Config struct {
	Redis    redis.Config
	Dispatch dispatch.Config

	AppName    string `env:"APP_NAME" envDefault:"dispatch-tail"`
	HealthAddr string `env:"HEALTH_ADDR"`
	Env        string `env:"APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "dispatch-tail:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("dispatch-tail", pflag.ContinueOnError)
	channelFlags := flags.StringSliceP("channel", "c", nil, "channel to subscribe to (repeatable)")
	channelsFile := flags.StringP("channels-file", "f", "", "YAML file with a channels list")
	deadLetter := flags.Bool("dead-letter", false, "log messages for channels without a subscriber")
	if err := flags.Parse(args); err != nil {
		return err
	}

	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.AppName),
		logger.WithLevelName(cfg.LogLevel),
	)

	var fromFile []string
	if *channelsFile != "" {
		var err error
		if fromFile, err = loadChannelsFile(*channelsFile); err != nil {
			return err
		}
	}

	channels, err := mergeChannels(*channelFlags, fromFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()

	opts := []dispatch.Option{dispatch.WithLogger(log)}
	if *deadLetter {
		opts = append(opts, dispatch.WithDeadLetter(newTail(log.With(logger.Component("dead-letter")))))
	}

	manager, err := dispatch.NewFromConfig(cfg.Dispatch, redisconn.NewDialer(client), opts...)
	if err != nil {
		return err
	}

	tail := newTail(log.With(logger.Component("tail")))
	for _, name := range channels {
		manager.Subscribe(name, tail)
	}

	if cfg.HealthAddr != "" {
		srv := &http.Server{
			Addr:              cfg.HealthAddr,
			Handler:           health.Handler(log, redis.Healthcheck(client), manager.Healthcheck),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("health server failed", logger.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info("health endpoints enabled", logger.Addr(cfg.HealthAddr))
	}

	log.Info("tailing channels", logger.Channels(channels))

	if err := manager.Run(ctx)(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	stats := manager.Stats()
	log.Info("dispatch-tail stopped",
		slog.Int64("delivered", stats.MessagesDelivered),
		slog.Int64("dead_lettered", stats.MessagesDeadLettered),
		slog.Int64("dropped", stats.MessagesDropped),
		slog.Int64("reconnects", stats.Reconnects))

	return nil
}

// tail logs every callback.
type tail struct {
	log *slog.Logger
}

func newTail(log *slog.Logger) *tail {
	return &tail{log: log}
}

func (t *tail) OnMessage(channel string, payload []byte) {
	t.log.Info("message",
		logger.Channel(channel),
		logger.PayloadSize(len(payload)),
		slog.String("payload", string(payload)))
}

func (t *tail) OnSubscribed(channel string) {
	t.log.Info("subscribed", logger.Channel(channel))
}

func (t *tail) OnUnsubscribed(channel string) {
	t.log.Info("unsubscribed", logger.Channel(channel))
}
