package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is the authentication identity. The messaging side never references
// it directly; it references the ChatUser linked to it.
type Account struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email    string             `bson:"email" json:"email"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"` // bcrypt hash, never serialized
}

// Session is the resolved identity of the calling user, extracted from the
// session token by the auth middleware.
type Session struct {
	AccountID primitive.ObjectID
	Email     string
	Username  string
}

// RegisterRequest is the /register payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
}
