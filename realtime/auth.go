package realtime

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Personal channels are named by the account email and may only be subscribed
// with a server-issued grant tied to the subscriber's own socket.
// Conversation channels (named by conversation id) are open to any
// authenticated socket.

const grantTTL = 2 * time.Minute

// IsPrivate reports whether a channel requires an authorization grant.
// Personal channels are the email-named ones.
func IsPrivate(channel string) bool {
	return strings.Contains(channel, "@")
}

// AuthorizeChannel issues a short-lived grant binding one socket to one
// channel. The HTTP auth endpoint calls this after verifying the channel
// belongs to the session.
func AuthorizeChannel(socketID, channel, secret string) (string, error) {
	claims := jwt.MapClaims{
		"socketId": socketID,
		"channel":  channel,
		"exp":      time.Now().Add(grantTTL).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateGrant checks a grant against the subscribing socket and channel.
func ValidateGrant(grant, socketID, channel, secret string) error {
	token, err := jwt.Parse(grant, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return errors.New("invalid grant claims")
	}
	if sid, _ := claims["socketId"].(string); sid != socketID {
		return errors.New("grant issued for a different socket")
	}
	if ch, _ := claims["channel"].(string); ch != channel {
		return errors.New("grant issued for a different channel")
	}
	return nil
}
