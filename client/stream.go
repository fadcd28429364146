// Package client holds the subscriber-side conversation state: the open
// thread's message stream, the inbox list and the unread counter. Each store
// seeds itself from a server fetch, then patches that state incrementally
// from channel events. Merges are idempotent (append-if-absent,
// replace-by-id) because ordering across channels is not guaranteed.
package client

import (
	"encoding/json"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-convo/backend/models"
	"go-convo/backend/realtime"
)

// ConversationStream is the live view of one open conversation: its message
// list plus who is currently typing. Close it when the view goes away.
type ConversationStream struct {
	sub      realtime.Subscription
	onChange func()

	mu       sync.Mutex
	messages []models.MessageView
	typing   []models.ChatUser
}

// OpenConversationStream subscribes to the conversation channel and binds the
// in-thread event handlers. onChange fires after every state change and may
// be nil.
func OpenConversationStream(subscriber realtime.Subscriber, conversationID primitive.ObjectID, onChange func()) (*ConversationStream, error) {
	sub, err := subscriber.Subscribe(conversationID.Hex())
	if err != nil {
		return nil, err
	}

	s := &ConversationStream{sub: sub, onChange: onChange}
	sub.Bind(models.EventNewMessage, s.onNewMessage)
	sub.Bind(models.EventMessageUpdate, s.onMessageUpdate)
	sub.Bind(models.EventTyping, s.onTyping)
	sub.Bind(models.EventStopTyping, s.onStopTyping)
	return s, nil
}

// Seed replaces local state with the server-fetched initial page.
func (s *ConversationStream) Seed(messages []models.MessageView) {
	s.mu.Lock()
	s.messages = append([]models.MessageView(nil), messages...)
	s.mu.Unlock()
	s.notify()
}

// Messages returns a copy of the current message list, ascending by creation
// time.
func (s *ConversationStream) Messages() []models.MessageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MessageView(nil), s.messages...)
}

// Typing returns a copy of the users currently typing.
func (s *ConversationStream) Typing() []models.ChatUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatUser(nil), s.typing...)
}

// MergeOlder prepends an older page, dropping any message already known
// locally: a paginated fetch can overlap a live event that arrived while the
// fetch was in flight.
func (s *ConversationStream) MergeOlder(older []models.MessageView) {
	s.mu.Lock()
	known := make(map[primitive.ObjectID]bool, len(s.messages))
	for _, m := range s.messages {
		known[m.ID] = true
	}
	fresh := make([]models.MessageView, 0, len(older))
	for _, m := range older {
		if !known[m.ID] {
			fresh = append(fresh, m)
		}
	}
	s.messages = append(fresh, s.messages...)
	s.mu.Unlock()

	if len(fresh) > 0 {
		s.notify()
	}
}

// Close unbinds all handlers and releases the channel. Safe to call more
// than once.
func (s *ConversationStream) Close() error {
	s.sub.Unbind(models.EventNewMessage)
	s.sub.Unbind(models.EventMessageUpdate)
	s.sub.Unbind(models.EventTyping)
	s.sub.Unbind(models.EventStopTyping)
	return s.sub.Close()
}

// onNewMessage appends, unless the id is already present: a locally-confirmed
// send can race its own channel echo.
func (s *ConversationStream) onNewMessage(data json.RawMessage) {
	var m models.MessageView
	if err := json.Unmarshal(data, &m); err != nil {
		return
	}

	s.mu.Lock()
	for _, existing := range s.messages {
		if existing.ID == m.ID {
			s.mu.Unlock()
			return
		}
	}
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	s.notify()
}

func (s *ConversationStream) onMessageUpdate(data json.RawMessage) {
	var m models.MessageView
	if err := json.Unmarshal(data, &m); err != nil {
		return
	}

	s.mu.Lock()
	replaced := false
	for i, existing := range s.messages {
		if existing.ID == m.ID {
			s.messages[i] = m
			replaced = true
			break
		}
	}
	s.mu.Unlock()
	if replaced {
		s.notify()
	}
}

func (s *ConversationStream) onTyping(data json.RawMessage) {
	var p models.TypingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	s.mu.Lock()
	for _, u := range s.typing {
		if u.ID == p.User.ID {
			s.mu.Unlock()
			return
		}
	}
	s.typing = append(s.typing, p.User)
	s.mu.Unlock()
	s.notify()
}

func (s *ConversationStream) onStopTyping(data json.RawMessage) {
	var p models.StopTypingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	s.mu.Lock()
	removed := false
	for i, u := range s.typing {
		if u.ID == p.User.ID {
			s.typing = append(s.typing[:i], s.typing[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()
	if removed {
		s.notify()
	}
}

func (s *ConversationStream) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
