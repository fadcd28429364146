package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-convo/backend/models"
)

// startStore spins up a throwaway MongoDB and connects a Store to it.
func startStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := Connect(ctx, uri, "convo_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Disconnect(ctx))
	})
	return store
}

func seedChatUser(t *testing.T, store *Store, name string) models.ChatUser {
	t.Helper()
	user := models.ChatUser{
		AccountID: primitive.NewObjectID(),
		Name:      name,
		Email:     name + "@example.com",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.CreateChatUser(context.Background(), &user))
	return user
}

func TestStoreRoundTrips(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()

	t.Run("accounts", func(t *testing.T) {
		account := models.Account{Email: "alice@example.com", Username: "alice", Password: "hash"}
		require.NoError(t, store.CreateAccount(ctx, &account))
		require.False(t, account.ID.IsZero())

		found, err := store.AccountByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, account.ID, found.ID)

		missing, err := store.AccountByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, missing)

		// Unique index on email.
		dup := models.Account{Email: "alice@example.com", Username: "alice2", Password: "hash"}
		assert.Error(t, store.CreateAccount(ctx, &dup))
	})

	t.Run("chat users", func(t *testing.T) {
		alice := seedChatUser(t, store, "cu-alice")
		bob := seedChatUser(t, store, "cu-bob")

		found, err := store.ChatUserByAccount(ctx, alice.AccountID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, alice.ID, found.ID)

		byIDs, err := store.ChatUsersByIDs(ctx, []primitive.ObjectID{alice.ID, bob.ID})
		require.NoError(t, err)
		assert.Len(t, byIDs, 2)

		others, err := store.ChatUsersExcept(ctx, alice.ID)
		require.NoError(t, err)
		for _, u := range others {
			assert.NotEqual(t, alice.ID, u.ID)
		}
	})
}

func TestStoreConversations(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()

	alice := seedChatUser(t, store, "conv-alice")
	bob := seedChatUser(t, store, "conv-bob")
	carol := seedChatUser(t, store, "conv-carol")

	direct := models.Conversation{
		IsGroup:       false,
		UserIDs:       []primitive.ObjectID{alice.ID, bob.ID},
		LastMessageAt: time.Now().UTC().Truncate(time.Millisecond),
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.CreateConversation(ctx, &direct))

	group := models.Conversation{
		Name:          "team",
		IsGroup:       true,
		UserIDs:       []primitive.ObjectID{alice.ID, bob.ID, carol.ID},
		LastMessageAt: time.Now().UTC().Add(time.Minute).Truncate(time.Millisecond),
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.CreateConversation(ctx, &group))

	t.Run("by user sorted by activity", func(t *testing.T) {
		conversations, err := store.ConversationsByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, conversations, 2)
		assert.Equal(t, group.ID, conversations[0].ID)
		assert.Equal(t, direct.ID, conversations[1].ID)

		none, err := store.ConversationsByUser(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("direct lookup matches supersets too", func(t *testing.T) {
		// The filter only guarantees "contains both"; the group with the same
		// pair comes back as well and the service narrows it down.
		conversations, err := store.DirectConversationsWith(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		require.Len(t, conversations, 1)
		assert.Equal(t, direct.ID, conversations[0].ID)
	})

	t.Run("bump last message at", func(t *testing.T) {
		bumped := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
		require.NoError(t, store.SetLastMessageAt(ctx, direct.ID, bumped))

		found, err := store.ConversationByID(ctx, direct.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.LastMessageAt.Equal(bumped))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteConversation(ctx, group.ID))
		found, err := store.ConversationByID(ctx, group.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestStoreMessages(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()

	alice := seedChatUser(t, store, "msg-alice")
	bob := seedChatUser(t, store, "msg-bob")

	conv := models.Conversation{
		UserIDs:       []primitive.ObjectID{alice.ID, bob.ID},
		LastMessageAt: time.Now().UTC(),
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, store.CreateConversation(ctx, &conv))

	base := time.Now().UTC().Truncate(time.Millisecond)
	var messages []models.Message
	for i := 0; i < 5; i++ {
		m := models.Message{
			ConversationID: conv.ID,
			SenderID:       alice.ID,
			Body:           "message",
			SeenIDs:        []primitive.ObjectID{alice.ID},
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, store.CreateMessage(ctx, &m))
		messages = append(messages, m)
	}

	t.Run("latest", func(t *testing.T) {
		last, err := store.LatestMessage(ctx, conv.ID)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.Equal(t, messages[4].ID, last.ID)

		empty, err := store.LatestMessage(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.Nil(t, empty)
	})

	t.Run("pagination ascends and overlaps at the cursor", func(t *testing.T) {
		newest, err := store.MessagesByConversation(ctx, conv.ID, 2, primitive.NilObjectID)
		require.NoError(t, err)
		require.Len(t, newest, 2)
		assert.Equal(t, messages[3].ID, newest[0].ID)
		assert.Equal(t, messages[4].ID, newest[1].ID)

		older, err := store.MessagesByConversation(ctx, conv.ID, 2, newest[0].ID)
		require.NoError(t, err)
		require.Len(t, older, 2)
		assert.Equal(t, messages[1].ID, older[0].ID)
		assert.Equal(t, messages[2].ID, older[1].ID)
	})

	t.Run("cursor survives skewed timestamps", func(t *testing.T) {
		// Inserted last but stamped an hour early; cursor paging follows
		// insertion order, so it must neither skip nor repeat this row.
		skewed := models.Message{
			ConversationID: conv.ID,
			SenderID:       alice.ID,
			Body:           "late insert, early clock",
			SeenIDs:        []primitive.ObjectID{alice.ID},
			CreatedAt:      base.Add(-time.Hour),
		}
		require.NoError(t, store.CreateMessage(ctx, &skewed))

		all, err := store.MessagesByConversation(ctx, conv.ID, 0, primitive.NilObjectID)
		require.NoError(t, err)
		require.Len(t, all, 6)
		assert.Equal(t, skewed.ID, all[5].ID)

		page, err := store.MessagesByConversation(ctx, conv.ID, 3, primitive.NilObjectID)
		require.NoError(t, err)
		require.Len(t, page, 3)

		older, err := store.MessagesByConversation(ctx, conv.ID, 10, page[0].ID)
		require.NoError(t, err)

		var ids []primitive.ObjectID
		for _, m := range append(older, page...) {
			ids = append(ids, m.ID)
		}
		var want []primitive.ObjectID
		for _, m := range all {
			want = append(want, m.ID)
		}
		assert.Equal(t, want, ids)
	})

	t.Run("seen replace", func(t *testing.T) {
		seen := append(messages[4].SeenIDs, bob.ID)
		require.NoError(t, store.UpdateMessageSeen(ctx, messages[4].ID, seen))

		last, err := store.LatestMessage(ctx, conv.ID)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.ElementsMatch(t, []primitive.ObjectID{alice.ID, bob.ID}, last.SeenIDs)
	})
}
