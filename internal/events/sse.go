package events

import "github.com/kelindar/event"

// SubscribeToChannel forwards events of type T to ch, dropping them when
// ch is full. The SSE handler selects on ch.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}

// SubscribeAll forwards every event type to ch and returns a function that
// removes all subscriptions.
func SubscribeAll(bus *Bus, ch chan<- any) func() {
	unsubs := []func(){
		SubscribeToChannel[CaptureStartedEvent](bus, ch),
		SubscribeToChannel[CaptureSuccessEvent](bus, ch),
		SubscribeToChannel[CaptureErrorEvent](bus, ch),
		SubscribeToChannel[AccessDeniedEvent](bus, ch),
		SubscribeToChannel[AllowListReloadedEvent](bus, ch),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
