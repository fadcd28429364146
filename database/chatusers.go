package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-convo/backend/models"
)

// CreateChatUser inserts a new chat user and fills in its generated id.
func (s *Store) CreateChatUser(ctx context.Context, user *models.ChatUser) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.collection("chat_users").InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// ChatUserByAccount returns the chat user linked to an account, or nil when
// none exists.
func (s *Store) ChatUserByAccount(ctx context.Context, accountID primitive.ObjectID) (*models.ChatUser, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user models.ChatUser
	err := s.collection("chat_users").FindOne(ctx, bson.M{"accountId": accountID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ChatUsersByIDs returns the chat users with the given ids, in no particular
// order.
func (s *Store) ChatUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ChatUser, error) {
	if len(ids) == 0 {
		return []models.ChatUser{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.collection("chat_users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.ChatUser
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ChatUsersExcept returns every chat user but the given one, newest first.
// Feeds the "start new conversation" picker.
func (s *Store) ChatUsersExcept(ctx context.Context, id primitive.ObjectID) ([]models.ChatUser, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection("chat_users").Find(ctx, bson.M{"_id": bson.M{"$ne": id}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.ChatUser
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateChatUserProfile updates name and avatar, the only mutable fields.
func (s *Store) UpdateChatUserProfile(ctx context.Context, id primitive.ObjectID, name, avatar string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.collection("chat_users").UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"name": name, "avatar": avatar},
	})
	return err
}
