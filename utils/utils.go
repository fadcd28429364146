package utils

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-convo/backend/models"
)

type contextKey string

// SessionKey is the context key the auth middleware stores the session under.
const SessionKey contextKey = "session"

// SessionFromContext extracts the caller's session from the request context.
func SessionFromContext(ctx context.Context) (models.Session, error) {
	sess, ok := ctx.Value(SessionKey).(models.Session)
	if !ok {
		return models.Session{}, errors.New("session not found in context")
	}
	return sess, nil
}

// GenerateJWT issues a signed session token for an account.
func GenerateJWT(account models.Account, secret string) (string, error) {
	claims := jwt.MapClaims{
		"userId":   account.ID.Hex(),
		"email":    account.Email,
		"username": account.Username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.New("failed to sign token")
	}
	return tokenString, nil
}

// SessionFromToken parses and validates a session token.
func SessionFromToken(tokenString, secret string) (models.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return models.Session{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Session{}, errors.New("invalid token claims")
	}

	userIDStr, ok := claims["userId"].(string)
	if !ok {
		return models.Session{}, errors.New("user ID not found in token claims")
	}
	accountID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return models.Session{}, errors.New("invalid user ID format in token")
	}

	email, _ := claims["email"].(string)
	username, _ := claims["username"].(string)

	return models.Session{
		AccountID: accountID,
		Email:     email,
		Username:  username,
	}, nil
}

// SortObjectIDs sorts a slice of ObjectIDs by hex string, giving participant
// sets a canonical order.
func SortObjectIDs(ids []primitive.ObjectID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Hex() < ids[j].Hex()
	})
}
