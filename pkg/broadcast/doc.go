// Package broadcast fans messages from one dispatch channel out to many
// in-process receivers.
//
// A Fanout implements dispatch.Subscriber, so it can own one or more channels
// on a dispatch manager. Every message it receives is decoded once and copied
// to each receiver's buffered Go channel.
//
// # Usage
//
//	fan := broadcast.NewBytes()
//	defer fan.Close()
//
//	manager.Subscribe("alerts", fan)
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	for msg := range fan.Receive(ctx, 100) {
//		fmt.Printf("%s: %s\n", msg.Channel, msg.Data)
//	}
//
// Typed payloads:
//
//	fan := broadcast.New(func(_ string, payload []byte) (Alert, error) {
//		var a Alert
//		err := json.Unmarshal(payload, &a)
//		return a, err
//	})
//
// # Slow Consumer Handling
//
// Delivery is non-blocking. If a receiver's buffer is full the message is
// dropped for that receiver only and counted in Dropped, so one slow consumer
// cannot hold up the dispatch notifier or other receivers.
//
// # Lifecycle
//
// A receiver's channel is closed when the context passed to Receive is
// cancelled or when the Fanout is closed. Receive on a closed Fanout returns
// an already closed channel.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package broadcast
