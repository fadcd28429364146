package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Events delivered over the channel service.
//
// Conversation channels (named by conversation id) carry in-thread events for
// whoever is currently viewing the thread. Personal channels (named by the
// account email) carry inbox-level events for a single user.
const (
	EventNewMessage    = "messages:new"   // conversation channel, MessageView
	EventMessageUpdate = "message:update" // conversation channel, MessageView
	EventTyping        = "typing"         // conversation channel, TypingPayload
	EventStopTyping    = "stop_typing"    // conversation channel, StopTypingPayload

	EventNewConversation    = "conversation:new"    // personal channel, ConversationView
	EventConversationUpdate = "conversation:update" // personal channel, ConversationPreview
	EventConversationDelete = "conversation:delete" // personal channel, ConversationView
)

// ConversationPreview is the conversation:update payload: just enough to
// refresh an inbox row and feed the unread counter.
type ConversationPreview struct {
	ID       primitive.ObjectID `json:"id"`
	Messages []MessageView      `json:"messages"`
}

// TypingPayload is the typing event payload.
type TypingPayload struct {
	ConversationID primitive.ObjectID `json:"conversationId"`
	User           ChatUser           `json:"user"`
}

// StopTypingPayload is the stop_typing event payload.
type StopTypingPayload struct {
	User ChatUser `json:"user"`
}
