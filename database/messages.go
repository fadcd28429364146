package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-convo/backend/models"
)

// CreateMessage inserts a new message and fills in its generated id.
func (s *Store) CreateMessage(ctx context.Context, message *models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.collection("messages").InsertOne(ctx, message)
	if err != nil {
		return err
	}
	message.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// LatestMessage returns the newest message in a conversation, or nil when the
// conversation has none.
func (s *Store) LatestMessage(ctx context.Context, conversationID primitive.ObjectID) (*models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var message models.Message
	err := s.collection("messages").
		FindOne(ctx, bson.M{"conversationId": conversationID}, findOptions).
		Decode(&message)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// MessagesByConversation returns messages oldest first. When beforeID is set,
// only messages older than it are returned, so older pages can be fetched
// cursor-style. Sort and cursor both use _id so the pagination key is the one
// being compared; _id order is insertion order, immune to skewed createdAt
// values. limit <= 0 means no limit.
func (s *Store) MessagesByConversation(ctx context.Context, conversationID primitive.ObjectID, limit int, beforeID primitive.ObjectID) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"conversationId": conversationID}
	if !beforeID.IsZero() {
		filter["_id"] = bson.M{"$lt": beforeID}
	}

	// Fetch newest-first so the limit keeps the most recent page, then
	// reverse into ascending order.
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := s.collection("messages").Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// UpdateMessageSeen replaces the message's seen set. The caller reads, appends
// and writes back; concurrent appenders for different users can lose an
// update, which is accepted.
func (s *Store) UpdateMessageSeen(ctx context.Context, messageID primitive.ObjectID, seen []primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.collection("messages").UpdateByID(ctx, messageID, bson.M{
		"$set": bson.M{"seen": seen},
	})
	return err
}
