package redisconn_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/core/dispatch"
	"github.com/dmitrymomot/dispatch/integration/pubsub/redisconn"
)

func newClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func readWithTimeout(t *testing.T, conn dispatch.Conn) dispatch.Event {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ev, err := conn.Read(ctx)
	require.NoError(t, err)
	return ev
}

func TestConn_SubscribeAndReceive(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := newClient(t, mr)

	conn, err := redisconn.NewDialer(client).Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Subscribe(context.Background(), "alerts"))

	ev := readWithTimeout(t, conn)
	assert.Equal(t, dispatch.Event{Kind: dispatch.EventSubscribed, Channel: "alerts"}, ev)

	require.Eventually(t, func() bool {
		return mr.Publish("alerts", "hi") == 1
	}, 2*time.Second, 10*time.Millisecond)

	ev = readWithTimeout(t, conn)
	assert.Equal(t, dispatch.EventMessage, ev.Kind)
	assert.Equal(t, "alerts", ev.Channel)
	assert.Equal(t, []byte("hi"), ev.Payload)

	require.NoError(t, conn.Unsubscribe(context.Background(), "alerts"))

	ev = readWithTimeout(t, conn)
	assert.Equal(t, dispatch.Event{Kind: dispatch.EventUnsubscribed, Channel: "alerts"}, ev)
}

func TestConn_Close(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := newClient(t, mr)

	conn, err := redisconn.NewDialer(client).Dial(context.Background())
	require.NoError(t, err)
	require.NoError(t, conn.Subscribe(context.Background(), "alerts"))
	_ = readWithTimeout(t, conn)

	errCh := make(chan error, 1)
	go func() {
		_, err := conn.Read(context.Background())
		errCh <- err
	}()

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close(), "close must be idempotent")

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, redisconn.ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("read was not unblocked by close")
	}

	assert.ErrorIs(t, conn.Subscribe(context.Background(), "x"), redisconn.ErrClosed)
	assert.ErrorIs(t, conn.Unsubscribe(context.Background(), "x"), redisconn.ErrClosed)
}

func TestDialer_ServerDown(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := newClient(t, mr)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := redisconn.NewDialer(client).Dial(ctx)
	require.ErrorIs(t, err, redisconn.ErrDialFailed)
	assert.Nil(t, conn)
}

type inbox struct {
	mu       sync.Mutex
	messages []string
	acks     int
}

func (i *inbox) OnMessage(_ string, payload []byte) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.messages = append(i.messages, string(payload))
}

func (i *inbox) OnSubscribed(string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.acks++
}

func (i *inbox) OnUnsubscribed(string) {}

func (i *inbox) snapshot() ([]string, int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.messages...), i.acks
}

func TestManager_OverRedis_SurvivesRestart(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := newClient(t, mr)

	manager, err := dispatch.New(redisconn.NewDialer(client),
		dispatch.WithReconnectDelay(10*time.Millisecond),
		dispatch.WithCommandTimeout(time.Second),
	)
	require.NoError(t, err)
	require.NoError(t, manager.Start(context.Background()))
	t.Cleanup(func() { _ = manager.Shutdown(context.Background()) })

	box := &inbox{}
	manager.Subscribe("alerts", box)

	require.Eventually(t, func() bool {
		_, acks := box.snapshot()
		return acks == 1
	}, 2*time.Second, 10*time.Millisecond)

	mr.Publish("alerts", "before")
	require.Eventually(t, func() bool {
		msgs, _ := box.snapshot()
		return len(msgs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mr.Close()
	require.Eventually(t, func() bool {
		return !manager.Stats().IsConnected
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, mr.Restart())

	require.Eventually(t, func() bool {
		_, acks := box.snapshot()
		return acks == 2 && manager.Stats().IsConnected
	}, 5*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return mr.Publish("alerts", "after") == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		msgs, _ := box.snapshot()
		return len(msgs) == 2
	}, 2*time.Second, 10*time.Millisecond)

	msgs, _ := box.snapshot()
	assert.Equal(t, []string{"before", "after"}, msgs)
	assert.GreaterOrEqual(t, manager.Stats().Reconnects, int64(1))
}
