package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-convo/backend/models"
	"go-convo/backend/utils"
)

const testSecret = "test-secret"

func newMiddleware() func(http.Handler) http.Handler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return JWT(testSecret, log)
}

func TestJWTPassesSessionToHandler(t *testing.T) {
	account := models.Account{
		ID:       primitive.NewObjectID(),
		Email:    "alice@example.com",
		Username: "alice",
	}
	token, err := utils.GenerateJWT(account, testSecret)
	require.NoError(t, err)

	var got models.Session
	handler := newMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, err = utils.SessionFromContext(r.Context())
		require.NoError(t, err)
	}))

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, account.ID, got.AccountID)
	assert.Equal(t, account.Email, got.Email)
}

func TestJWTRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
	}

	handler := newMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
