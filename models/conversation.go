package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation is the stored record: participant references only, messages
// live in their own collection and point back here.
type Conversation struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string               `bson:"name,omitempty" json:"name,omitempty"`
	IsGroup       bool                 `bson:"isGroup" json:"isGroup"`
	LastMessageAt time.Time            `bson:"lastMessageAt" json:"lastMessageAt"`
	UserIDs       []primitive.ObjectID `bson:"userIds" json:"userIds"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
}

func (c Conversation) RecordID() primitive.ObjectID { return c.ID }

// HasUser reports whether the given ChatUser participates.
func (c Conversation) HasUser(id primitive.ObjectID) bool {
	for _, uid := range c.UserIDs {
		if uid == id {
			return true
		}
	}
	return false
}

// ConversationView is the client-facing shape: participants resolved per the
// query depth, and optionally a one-element Messages slice holding the latest
// message for inbox previews.
type ConversationView struct {
	ID            primitive.ObjectID `json:"id"`
	Name          string             `json:"name,omitempty"`
	IsGroup       bool               `json:"isGroup"`
	LastMessageAt time.Time          `json:"lastMessageAt"`
	Users         []Ref[ChatUser]    `json:"users"`
	Messages      []MessageView      `json:"messages,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}
