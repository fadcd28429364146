package client

import (
	"encoding/json"
	"sort"
	"sync"

	"go-convo/backend/models"
	"go-convo/backend/realtime"
)

// Inbox is the live conversation list for one user, fed by their personal
// channel. It keeps conversations ordered by last activity and patches row
// previews as messages arrive anywhere, without subscribing to every
// conversation channel.
type Inbox struct {
	sub      realtime.Subscription
	onChange func()

	mu            sync.Mutex
	conversations []models.ConversationView
}

// OpenInbox subscribes to the user's personal channel (named by email), seeds
// the list from a server fetch and binds the inbox-level handlers.
func OpenInbox(subscriber realtime.Subscriber, email string, seed []models.ConversationView, onChange func()) (*Inbox, error) {
	sub, err := subscriber.Subscribe(email)
	if err != nil {
		return nil, err
	}

	in := &Inbox{
		sub:           sub,
		onChange:      onChange,
		conversations: append([]models.ConversationView(nil), seed...),
	}
	sub.Bind(models.EventNewConversation, in.onNew)
	sub.Bind(models.EventConversationUpdate, in.onUpdate)
	sub.Bind(models.EventConversationDelete, in.onDelete)
	return in, nil
}

// Conversations returns a copy of the list, most recently active first.
func (in *Inbox) Conversations() []models.ConversationView {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]models.ConversationView(nil), in.conversations...)
}

// Close unbinds the handlers and releases the channel.
func (in *Inbox) Close() error {
	in.sub.Unbind(models.EventNewConversation)
	in.sub.Unbind(models.EventConversationUpdate)
	in.sub.Unbind(models.EventConversationDelete)
	return in.sub.Close()
}

func (in *Inbox) onNew(data json.RawMessage) {
	var c models.ConversationView
	if err := json.Unmarshal(data, &c); err != nil {
		return
	}

	in.mu.Lock()
	for _, existing := range in.conversations {
		if existing.ID == c.ID {
			in.mu.Unlock()
			return
		}
	}
	in.conversations = append(in.conversations, c)
	in.resort()
	in.mu.Unlock()
	in.notify()
}

// onUpdate patches the row's preview with the event's message and moves the
// conversation up the list.
func (in *Inbox) onUpdate(data json.RawMessage) {
	var p models.ConversationPreview
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if len(p.Messages) == 0 {
		return
	}

	in.mu.Lock()
	patched := false
	for i := range in.conversations {
		if in.conversations[i].ID == p.ID {
			in.conversations[i].Messages = p.Messages
			last := p.Messages[len(p.Messages)-1]
			if last.CreatedAt.After(in.conversations[i].LastMessageAt) {
				in.conversations[i].LastMessageAt = last.CreatedAt
			}
			patched = true
			break
		}
	}
	if patched {
		in.resort()
	}
	in.mu.Unlock()
	if patched {
		in.notify()
	}
}

func (in *Inbox) onDelete(data json.RawMessage) {
	var c models.ConversationView
	if err := json.Unmarshal(data, &c); err != nil {
		return
	}

	in.mu.Lock()
	removed := false
	for i := range in.conversations {
		if in.conversations[i].ID == c.ID {
			in.conversations = append(in.conversations[:i], in.conversations[i+1:]...)
			removed = true
			break
		}
	}
	in.mu.Unlock()
	if removed {
		in.notify()
	}
}

// resort keeps most recent activity first. Caller holds the lock.
func (in *Inbox) resort() {
	sort.SliceStable(in.conversations, func(i, j int) bool {
		return in.conversations[i].LastMessageAt.After(in.conversations[j].LastMessageAt)
	})
}

func (in *Inbox) notify() {
	if in.onChange != nil {
		in.onChange()
	}
}
