package client

import (
	"encoding/json"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-convo/backend/models"
	"go-convo/backend/realtime"
)

// UnreadCounter derives the badge count from the personal channel's
// conversation:update stream. It is seeded from a server-computed count at
// mount and purely additive/subtractive thereafter, so it can drift over a
// long session; reopening the app reseeds it.
type UnreadCounter struct {
	sub      realtime.Subscription
	self     primitive.ObjectID
	onChange func(int)

	mu    sync.Mutex
	count int
}

// OpenUnreadCounter subscribes to the personal channel and applies the
// increment/decrement rules to the seeded count. onChange receives the new
// count after every change and may be nil.
func OpenUnreadCounter(subscriber realtime.Subscriber, email string, self primitive.ObjectID, seed int, onChange func(int)) (*UnreadCounter, error) {
	sub, err := subscriber.Subscribe(email)
	if err != nil {
		return nil, err
	}

	c := &UnreadCounter{sub: sub, self: self, onChange: onChange, count: seed}
	sub.Bind(models.EventConversationUpdate, c.onUpdate)
	return c, nil
}

// Count returns the current badge value.
func (c *UnreadCounter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Close unbinds the handler and releases the channel.
func (c *UnreadCounter) Close() error {
	c.sub.Unbind(models.EventConversationUpdate)
	return c.sub.Close()
}

// onUpdate applies the counting rules to the event's message: messages the
// user sent never count; an unseen message from someone else increments; a
// message that now carries the user in its seen set decrements, floored at
// zero.
func (c *UnreadCounter) onUpdate(data json.RawMessage) {
	var p models.ConversationPreview
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if len(p.Messages) == 0 {
		return
	}
	m := p.Messages[len(p.Messages)-1]

	if m.SentBy(c.self) {
		return
	}

	c.mu.Lock()
	before := c.count
	if m.SeenBy(c.self) {
		if c.count > 0 {
			c.count--
		}
	} else {
		c.count++
	}
	changed := c.count != before
	count := c.count
	c.mu.Unlock()

	if changed && c.onChange != nil {
		c.onChange(count)
	}
}
