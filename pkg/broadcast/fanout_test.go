package broadcast_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/core/dispatch"
	"github.com/dmitrymomot/dispatch/pkg/broadcast"
)

var _ dispatch.Subscriber = (*broadcast.Fanout[[]byte])(nil)

func TestFanout_DeliversToAllReceivers(t *testing.T) {
	t.Parallel()

	fan := broadcast.NewBytes()
	defer fan.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r1 := fan.Receive(ctx, 4)
	r2 := fan.Receive(ctx, 4)
	assert.Equal(t, 2, fan.Receivers())

	fan.OnMessage("alerts", []byte("hi"))

	for _, r := range []<-chan broadcast.Message[[]byte]{r1, r2} {
		select {
		case msg := <-r:
			assert.Equal(t, "alerts", msg.Channel)
			assert.Equal(t, []byte("hi"), msg.Data)
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}
	assert.Equal(t, int64(2), fan.Delivered())
}

func TestFanout_SlowReceiverDrops(t *testing.T) {
	t.Parallel()

	fan := broadcast.NewBytes()
	defer fan.Close()

	slow := fan.Receive(context.Background(), 1)
	fast := fan.Receive(context.Background(), 3)

	for _, p := range []string{"1", "2", "3"} {
		fan.OnMessage("x", []byte(p))
	}

	assert.Len(t, slow, 1)
	assert.Len(t, fast, 3)
	assert.Equal(t, int64(2), fan.Dropped())
}

func TestFanout_ReceiverRemovedOnCancel(t *testing.T) {
	t.Parallel()

	fan := broadcast.NewBytes()
	defer fan.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r := fan.Receive(ctx, 1)
	cancel()

	require.Eventually(t, func() bool {
		return fan.Receivers() == 0
	}, time.Second, 5*time.Millisecond)

	_, ok := <-r
	assert.False(t, ok)
}

func TestFanout_Close(t *testing.T) {
	t.Parallel()

	fan := broadcast.NewBytes()
	r := fan.Receive(context.Background(), 1)

	require.NoError(t, fan.Close())
	require.NoError(t, fan.Close())

	_, ok := <-r
	assert.False(t, ok)

	_, ok = <-fan.Receive(context.Background(), 1)
	assert.False(t, ok, "receive after close returns a closed channel")

	assert.NotPanics(t, func() { fan.OnMessage("x", []byte("late")) })
}

func TestFanout_TypedDecode(t *testing.T) {
	t.Parallel()

	type alert struct {
		Level string `json:"level"`
	}

	fan := broadcast.New(func(_ string, payload []byte) (alert, error) {
		var a alert
		err := json.Unmarshal(payload, &a)
		return a, err
	})
	defer fan.Close()

	r := fan.Receive(context.Background(), 2)

	fan.OnMessage("alerts", []byte(`{"level":"high"}`))
	fan.OnMessage("alerts", []byte(`not json`))

	msg := <-r
	assert.Equal(t, alert{Level: "high"}, msg.Data)
	assert.Len(t, r, 0, "undecodable payload must be skipped")
}

func TestFanout_TracksActiveChannels(t *testing.T) {
	t.Parallel()

	fan := broadcast.NewBytes()
	defer fan.Close()

	fan.OnSubscribed("a")
	fan.OnSubscribed("b")
	fan.OnUnsubscribed("a")

	assert.False(t, fan.Active("a"))
	assert.True(t, fan.Active("b"))
}
