package client

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-convo/backend/models"
	"go-convo/backend/realtime"
)

// fakeSubscription is one scoped claim on a channel, handed out per Subscribe
// call like the real client does.
type fakeSubscription struct {
	owner   *fakeSubscriber
	channel string

	mu       sync.Mutex
	handlers map[string][]realtime.Handler
	closes   int
}

func (f *fakeSubscription) Bind(event string, h realtime.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[event] = append(f.handlers[event], h)
}

func (f *fakeSubscription) Unbind(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, event)
}

func (f *fakeSubscription) Close() error {
	f.mu.Lock()
	f.closes++
	f.handlers = make(map[string][]realtime.Handler)
	f.mu.Unlock()
	f.owner.drop(f)
	return nil
}

func (f *fakeSubscription) dispatch(event string, data json.RawMessage) {
	f.mu.Lock()
	handlers := append([]realtime.Handler(nil), f.handlers[event]...)
	f.mu.Unlock()
	for _, h := range handlers {
		h(data)
	}
}

func (f *fakeSubscription) boundEvents() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

// fakeSubscriber fans emitted events out to every live scope on the channel,
// mirroring how the hub delivers envelopes.
type fakeSubscriber struct {
	mu     sync.Mutex
	scopes map[string][]*fakeSubscription
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{scopes: make(map[string][]*fakeSubscription)}
}

func (f *fakeSubscriber) Subscribe(channel string) (realtime.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub := &fakeSubscription{
		owner:    f,
		channel:  channel,
		handlers: make(map[string][]realtime.Handler),
	}
	f.scopes[channel] = append(f.scopes[channel], sub)
	return sub, nil
}

func (f *fakeSubscriber) drop(sub *fakeSubscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	scopes := f.scopes[sub.channel]
	for i, s := range scopes {
		if s == sub {
			f.scopes[sub.channel] = append(scopes[:i], scopes[i+1:]...)
			return
		}
	}
}

// emit delivers an event to every scope subscribed to the channel.
func (f *fakeSubscriber) emit(t *testing.T, channel, event string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	f.mu.Lock()
	scopes := append([]*fakeSubscription(nil), f.scopes[channel]...)
	f.mu.Unlock()
	for _, s := range scopes {
		s.dispatch(event, json.RawMessage(data))
	}
}

// sub returns the channel's first live scope, for inspecting bindings.
func (f *fakeSubscriber) sub(channel string) *fakeSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	if scopes := f.scopes[channel]; len(scopes) > 0 {
		return scopes[0]
	}
	return nil
}

// test fixtures

func testUser(name string) models.ChatUser {
	return models.ChatUser{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Email: name + "@example.com",
	}
}

func testMessage(conversationID primitive.ObjectID, sender models.ChatUser, body string, at time.Time, seen ...models.ChatUser) models.MessageView {
	m := models.MessageView{
		ID:             primitive.NewObjectID(),
		ConversationID: conversationID,
		Sender:         models.RefValue(sender),
		Body:           body,
		CreatedAt:      at,
		Seen:           []models.Ref[models.ChatUser]{models.RefValue(sender)},
	}
	for _, u := range seen {
		m.Seen = append(m.Seen, models.RefValue(u))
	}
	return m
}
