package dispatch

import "reflect"

// Subscriber receives callbacks for a channel it owns.
// Callbacks run on the manager's notifier goroutines, never on the caller's
// goroutine, and must not block indefinitely.
type Subscriber interface {
	OnMessage(channel string, payload []byte)
	OnSubscribed(channel string)
	OnUnsubscribed(channel string)
}

// SubscriberFuncs adapts plain functions to the Subscriber interface.
// Nil fields are skipped. Always register a pointer: ownership checks compare
// subscriber identity.
//
// Example:
//
//	sub := &dispatch.SubscriberFuncs{
//	    Message: func(channel string, payload []byte) {
//	        log.Printf("%s: %s", channel, payload)
//	    },
//	}
//	manager.Subscribe("alerts", sub)
type SubscriberFuncs struct {
	Message      func(channel string, payload []byte)
	Subscribed   func(channel string)
	Unsubscribed func(channel string)
}

// OnMessage implements Subscriber.
func (f *SubscriberFuncs) OnMessage(channel string, payload []byte) {
	if f.Message != nil {
		f.Message(channel, payload)
	}
}

// OnSubscribed implements Subscriber.
func (f *SubscriberFuncs) OnSubscribed(channel string) {
	if f.Subscribed != nil {
		f.Subscribed(channel)
	}
}

// OnUnsubscribed implements Subscriber.
func (f *SubscriberFuncs) OnUnsubscribed(channel string) {
	if f.Unsubscribed != nil {
		f.Unsubscribed(channel)
	}
}

// sameSubscriber reports whether a and b are the same subscriber instance.
// Values of non-comparable dynamic types never match, so a stale unsubscribe
// cannot panic the caller.
func sameSubscriber(a, b Subscriber) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
