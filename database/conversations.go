package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-convo/backend/models"
)

// CreateConversation inserts a new conversation and fills in its generated id.
func (s *Store) CreateConversation(ctx context.Context, conversation *models.Conversation) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.collection("conversations").InsertOne(ctx, conversation)
	if err != nil {
		return err
	}
	conversation.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// ConversationByID returns a conversation, or nil when none exists.
func (s *Store) ConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var conversation models.Conversation
	err := s.collection("conversations").FindOne(ctx, bson.M{"_id": id}).Decode(&conversation)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ConversationsByUser returns every conversation a chat user participates in,
// most recently active first.
func (s *Store) ConversationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}})
	cursor, err := s.collection("conversations").Find(ctx, bson.M{"userIds": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// DirectConversationsWith returns every non-group conversation containing
// both users. The filter only guarantees "contains both"; the caller narrows
// to the exact pair in memory.
func (s *Store) DirectConversationsWith(ctx context.Context, a, b primitive.ObjectID) ([]models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"isGroup": false,
		"userIds": bson.M{"$all": []primitive.ObjectID{a, b}},
	}
	cursor, err := s.collection("conversations").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// SetLastMessageAt bumps the conversation's activity timestamp. Last write
// wins under concurrent senders; the field is display-only.
func (s *Store) SetLastMessageAt(ctx context.Context, id primitive.ObjectID, t time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.collection("conversations").UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"lastMessageAt": t},
	})
	return err
}

// DeleteConversation hard-deletes the record. Messages are not cascaded.
func (s *Store) DeleteConversation(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.collection("conversations").DeleteOne(ctx, bson.M{"_id": id})
	return err
}
