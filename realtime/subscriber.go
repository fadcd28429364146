package realtime

import "encoding/json"

// Handler receives the raw payload of one event occurrence.
type Handler func(data json.RawMessage)

// Subscriber hands out scoped channel subscriptions. Every Subscribe call
// returns an independent scope, so two owners of the same channel never see
// each other's handlers or teardown. *WSClient satisfies it; tests substitute
// fakes.
type Subscriber interface {
	Subscribe(channel string) (Subscription, error)
}

// Subscription is a scoped claim on one channel. Bind registers a handler for
// an event, Unbind removes that event's handlers, and Close releases the
// channel exactly once; a Subscription must be closed when its owning view
// goes away or the handlers leak across navigations.
type Subscription interface {
	Bind(event string, h Handler)
	Unbind(event string)
	Close() error
}
