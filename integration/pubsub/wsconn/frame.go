package wsconn

import (
	"errors"

	"github.com/fxamacker/cbor/v2"
)

// Op identifies a frame's purpose.
type Op string

const (
	// Client to gateway.
	OpSubscribe   Op = "subscribe"
	OpUnsubscribe Op = "unsubscribe"

	// Gateway to client.
	OpSubscribed   Op = "subscribed"
	OpUnsubscribed Op = "unsubscribed"
	OpMessage      Op = "message"
)

// Frame is the unit exchanged with the gateway, CBOR-encoded in one binary
// websocket message.
type Frame struct {
	Op      Op     `cbor:"op"`
	Channel string `cbor:"channel"`
	Payload []byte `cbor:"payload,omitempty"`
}

// EncodeFrame serializes f.
func EncodeFrame(f Frame) ([]byte, error) {
	return cbor.Marshal(f)
}

// DecodeFrame parses a frame produced by EncodeFrame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := cbor.Unmarshal(data, &f); err != nil {
		return Frame{}, errors.Join(ErrInvalidFrame, err)
	}
	if f.Op == "" {
		return Frame{}, ErrInvalidFrame
	}
	return f, nil
}
