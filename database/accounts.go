package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-convo/backend/models"
)

// CreateAccount inserts a new account and fills in its generated id.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := s.collection("users").InsertOne(ctx, account)
	if err != nil {
		return err
	}
	account.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// AccountByEmail returns the account with the given email, or nil when none
// exists.
func (s *Store) AccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var account models.Account
	err := s.collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// AccountByUsername returns the account with the given username, or nil when
// none exists.
func (s *Store) AccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var account models.Account
	err := s.collection("users").FindOne(ctx, bson.M{"username": username}).Decode(&account)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
