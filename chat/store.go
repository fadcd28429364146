package chat

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-convo/backend/models"
)

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks

// Store is the slice of the data store the conversation service depends on.
// *database.Store satisfies it.
type Store interface {
	ChatUserByAccount(ctx context.Context, accountID primitive.ObjectID) (*models.ChatUser, error)
	ChatUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ChatUser, error)
	ChatUsersExcept(ctx context.Context, id primitive.ObjectID) ([]models.ChatUser, error)
	UpdateChatUserProfile(ctx context.Context, id primitive.ObjectID, name, avatar string) error

	CreateConversation(ctx context.Context, conversation *models.Conversation) error
	ConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error)
	ConversationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error)
	DirectConversationsWith(ctx context.Context, a, b primitive.ObjectID) ([]models.Conversation, error)
	SetLastMessageAt(ctx context.Context, id primitive.ObjectID, t time.Time) error
	DeleteConversation(ctx context.Context, id primitive.ObjectID) error

	CreateMessage(ctx context.Context, message *models.Message) error
	LatestMessage(ctx context.Context, conversationID primitive.ObjectID) (*models.Message, error)
	MessagesByConversation(ctx context.Context, conversationID primitive.ObjectID, limit int, beforeID primitive.ObjectID) ([]models.Message, error)
	UpdateMessageSeen(ctx context.Context, messageID primitive.ObjectID, seen []primitive.ObjectID) error
}

// Broadcaster publishes an event on a named channel. *realtime.Broker
// satisfies it.
type Broadcaster interface {
	Trigger(ctx context.Context, channel, event string, payload any) error
}
