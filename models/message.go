package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is the stored record. A message always has a body or an image, and
// its seen set contains the sender from the moment it is created. The seen
// set only ever grows.
type Message struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	ConversationID primitive.ObjectID   `bson:"conversationId" json:"conversationId"`
	SenderID       primitive.ObjectID   `bson:"senderId" json:"senderId"`
	Body           string               `bson:"body,omitempty" json:"body,omitempty"`
	Image          string               `bson:"image,omitempty" json:"image,omitempty"`
	SeenIDs        []primitive.ObjectID `bson:"seen" json:"seen"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
}

func (m Message) RecordID() primitive.ObjectID { return m.ID }

// SeenBy reports whether the given ChatUser is in the seen set.
func (m Message) SeenBy(id primitive.ObjectID) bool {
	for _, sid := range m.SeenIDs {
		if sid == id {
			return true
		}
	}
	return false
}

// MessageView is the client-facing shape with sender and seen resolved per
// the query depth.
type MessageView struct {
	ID             primitive.ObjectID `json:"id"`
	ConversationID primitive.ObjectID `json:"conversationId"`
	Sender         Ref[ChatUser]      `json:"sender"`
	Body           string             `json:"body,omitempty"`
	Image          string             `json:"image,omitempty"`
	Seen           []Ref[ChatUser]    `json:"seen"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// SeenBy reports whether the given ChatUser is in the seen set.
func (m MessageView) SeenBy(id primitive.ObjectID) bool {
	for _, ref := range m.Seen {
		if ref.ID() == id {
			return true
		}
	}
	return false
}

// SentBy reports whether the given ChatUser is the sender.
func (m MessageView) SentBy(id primitive.ObjectID) bool {
	return m.Sender.ID() == id
}
