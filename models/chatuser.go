package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatUser is the messaging-side identity, one per Account. It is created
// right after the account itself and only ever mutated by profile updates.
type ChatUser struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID primitive.ObjectID `bson:"accountId" json:"accountId"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Avatar    string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func (u ChatUser) RecordID() primitive.ObjectID { return u.ID }
