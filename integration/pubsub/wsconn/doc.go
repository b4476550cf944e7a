// Package wsconn implements the dispatch transport over a websocket gateway.
//
// Every websocket message is binary and carries one CBOR-encoded Frame:
//
//	{op: "subscribe",    channel: "alerts"}                 client -> gateway
//	{op: "unsubscribe",  channel: "alerts"}                 client -> gateway
//	{op: "subscribed",   channel: "alerts"}                 gateway -> client
//	{op: "unsubscribed", channel: "alerts"}                 gateway -> client
//	{op: "message",      channel: "alerts", payload: h'..'} gateway -> client
//
// A frame that cannot be decoded or carries an unknown op fails Read, which
// the dispatch manager treats like a dropped connection.
//
// Usage:
//
//	dialer := wsconn.NewDialer("wss://gateway.example.com/pubsub",
//		wsconn.WithHeader(http.Header{"Authorization": {"Bearer " + token}}),
//	)
//	manager, err := dispatch.New(dialer, dispatch.WithLogger(log))
//
// Gateways written in Go can reuse EncodeFrame and DecodeFrame.
package wsconn
