package chat

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"go-convo/backend/chat/mocks"
	"go-convo/backend/models"
)

func newTestService(t *testing.T) (*Service, *mocks.MockStore, *mocks.MockBroadcaster) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	broker := mocks.NewMockBroadcaster(ctrl)

	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := NewService(store, broker, log)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store, broker
}

func chatUser(name, email string) models.ChatUser {
	return models.ChatUser{
		ID:        primitive.NewObjectID(),
		AccountID: primitive.NewObjectID(),
		Name:      name,
		Email:     email,
	}
}

func sessionFor(u models.ChatUser) models.Session {
	return models.Session{AccountID: u.AccountID, Email: u.Email, Username: u.Name}
}

func expectActor(store *mocks.MockStore, u models.ChatUser) {
	user := u
	store.EXPECT().ChatUserByAccount(gomock.Any(), u.AccountID).Return(&user, nil)
}

func TestUpdateProfileInvalidatesActorCache(t *testing.T) {
	svc, store, _ := newTestService(t)
	alice := chatUser("alice", "alice@example.com")

	expectActor(store, alice)
	store.EXPECT().UpdateChatUserProfile(gomock.Any(), alice.ID, "alicia", "avatars/alicia.png").Return(nil)

	updated, err := svc.UpdateProfile(context.Background(), sessionFor(alice), UpdateProfileInput{
		Name:   "alicia",
		Avatar: "avatars/alicia.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Name)
	assert.Equal(t, "avatars/alicia.png", updated.Avatar)

	// The cached actor was dropped: the next lookup goes back to the store.
	renamed := alice
	renamed.Name = "alicia"
	renamed.Avatar = "avatars/alicia.png"
	store.EXPECT().ChatUserByAccount(gomock.Any(), alice.AccountID).Return(&renamed, nil)

	current, err := svc.CurrentUser(context.Background(), sessionFor(alice))
	require.NoError(t, err)
	assert.Equal(t, "alicia", current.Name)
}

func TestUpdateProfileRequiresName(t *testing.T) {
	svc, _, _ := newTestService(t)
	alice := chatUser("alice", "alice@example.com")

	_, err := svc.UpdateProfile(context.Background(), sessionFor(alice), UpdateProfileInput{Avatar: "x.png"})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestCreateDirectConversation(t *testing.T) {
	svc, store, broker := newTestService(t)
	alice := chatUser("alice", "alice@example.com")
	bob := chatUser("bob", "bob@example.com")

	expectActor(store, alice)
	store.EXPECT().DirectConversationsWith(gomock.Any(), alice.ID, bob.ID).Return(nil, nil)

	var created *models.Conversation
	store.EXPECT().CreateConversation(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, c *models.Conversation) error {
			c.ID = primitive.NewObjectID()
			created = c
			return nil
		})
	store.EXPECT().ChatUsersByIDs(gomock.Any(), gomock.Any()).Return([]models.ChatUser{alice, bob}, nil)
	broker.EXPECT().Trigger(gomock.Any(), alice.Email, models.EventNewConversation, gomock.Any()).Return(nil)
	broker.EXPECT().Trigger(gomock.Any(), bob.Email, models.EventNewConversation, gomock.Any()).Return(nil)

	view, err := svc.CreateConversation(context.Background(), sessionFor(alice), CreateConversationInput{UserID: bob.ID})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.False(t, created.IsGroup)
	assert.ElementsMatch(t, []primitive.ObjectID{alice.ID, bob.ID}, created.UserIDs)
	assert.Equal(t, created.ID, view.ID)
	assert.Len(t, view.Users, 2)
}

func TestCreateDirectConversationReturnsExisting(t *testing.T) {
	svc, store, _ := newTestService(t)
	alice := chatUser("alice", "alice@example.com")
	bob := chatUser("bob", "bob@example.com")

	existing := models.Conversation{
		ID:      primitive.NewObjectID(),
		UserIDs: []primitive.ObjectID{alice.ID, bob.ID},
	}

	expectActor(store, alice)
	store.EXPECT().DirectConversationsWith(gomock.Any(), alice.ID, bob.ID).
		Return([]models.Conversation{existing}, nil)
	store.EXPECT().ChatUsersByIDs(gomock.Any(), gomock.Any()).Return([]models.ChatUser{alice, bob}, nil)

	// No CreateConversation, no publish: calling twice yields the same
	// conversation and fires no second conversation:new.
	view, err := svc.CreateConversation(context.Background(), sessionFor(alice), CreateConversationInput{UserID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, view.ID)
}

func TestCreateDirectConversationIgnoresGroupWithSamePair(t *testing.T) {
	svc, store, broker := newTestService(t)
	alice := chatUser("alice", "alice@example.com")
	bob := chatUser("bob", "bob@example.com")
	carol := chatUser("carol", "carol@example.com")

	group := models.Conversation{
		ID:      primitive.NewObjectID(),
		IsGroup: true,
		UserIDs: []primitive.ObjectID{alice.ID, bob.ID, carol.ID},
	}

	expectActor(store, alice)
	store.EXPECT().DirectConversationsWith(gomock.Any(), alice.ID, bob.ID).
		Return([]models.Conversation{group}, nil)
	store.EXPECT().CreateConversation(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, c *models.Conversation) error {
			c.ID = primitive.NewObjectID()
			return nil
		})
	store.EXPECT().ChatUsersByIDs(gomock.Any(), gomock.Any()).Return([]models.ChatUser{alice, bob}, nil)
	broker.EXPECT().Trigger(gomock.Any(), gomock.Any(), models.EventNewConversation, gomock.Any()).Return(nil).Times(2)

	view, err := svc.CreateConversation(context.Background(), sessionFor(alice), CreateConversationInput{UserID: bob.ID})
	require.NoError(t, err)
	assert.NotEqual(t, group.ID, view.ID)
}

func TestCreateDirectConversationRejectsSelf(t *testing.T) {
	svc, store, _ := newTestService(t)
	alice := chatUser("alice", "alice@example.com")

	expectActor(store, alice)

	_, err := svc.CreateConversation(context.Background(), sessionFor(alice), CreateConversationInput{UserID: alice.ID})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestCreateConversationRequiresSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateConversation(context.Background(), models.Session{}, CreateConversationInput{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateGroupConversationValidation(t *testing.T) {
	alice := chatUser("alice", "alice@example.com")
	bob := chatUser("bob", "bob@example.com")

	tests := []struct {
		name  string
		input CreateConversationInput
	}{
		{"missing name", CreateConversationInput{IsGroup: true, Members: []primitive.ObjectID{bob.ID, primitive.NewObjectID()}}},
		{"too few members", CreateConversationInput{IsGroup: true, Name: "team", Members: []primitive.ObjectID{bob.ID}}},
		{"duplicate member does not count twice", CreateConversationInput{IsGroup: true, Name: "team", Members: []primitive.ObjectID{bob.ID, bob.ID}}},
		{"actor does not count as a member", CreateConversationInput{IsGroup: true, Name: "team", Members: []primitive.ObjectID{bob.ID, alice.ID}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService(t)
			expectActor(store, alice)

			_, err := svc.CreateConversation(context.Background(), sessionFor(alice), tt.input)
			assert.ErrorIs(t, err, ErrBadRequest)
		})
	}
}

func TestCreateGroupConversationDeduplicatesMembers(t *testing.T) {
	svc, store, broker := newTestService(t)
	alice := chatUser("alice", "alice@example.com")
	bob := chatUser("bob", "bob@example.com")
	carol := chatUser("carol", "carol@example.com")

	expectActor(store, alice)

	var created *models.Conversation
	store.EXPECT().CreateConversation(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, c *models.Conversation) error {
			c.ID = primitive.NewObjectID()
			created = c
			return nil
		})
	store.EXPECT().ChatUsersByIDs(gomock.Any(), gomock.Any()).Return([]models.ChatUser{alice, bob, carol}, nil)
	broker.EXPECT().Trigger(gomock.Any(), gomock.Any(), models.EventNewConversation, gomock.Any()).Return(nil).Times(3)

	// bob twice, plus the actor who is implicit.
	in := CreateConversationInput{
		IsGroup: true,
		Name:    "team",
		Members: []primitive.ObjectID{bob.ID, bob.ID, carol.ID, alice.ID},
	}
	_, err := svc.CreateConversation(context.Background(), sessionFor(alice), in)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.ElementsMatch(t, []primitive.ObjectID{alice.ID, bob.ID, carol.ID}, created.UserIDs)
}

func TestSendMessagePublishesInOrder(t *testing.T) {
	svc, store, broker := newTestService(t)
	alice := chatUser("alice", "alice@example.com")
	bob := chatUser("bob", "bob@example.com")

	conv := models.Conversation{
		ID:      primitive.NewObjectID(),
		UserIDs: []primitive.ObjectID{alice.ID, bob.ID},
	}

	expectActor(store, alice)
	c := conv
	store.EXPECT().ConversationByID(gomock.Any(), conv.ID).Return(&c, nil).Times(2)

	var created *models.Message
	store.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, m *models.Message) error {
			m.ID = primitive.NewObjectID()
			created = m
			return nil
		})
	store.EXPECT().SetLastMessageAt(gomock.Any(), conv.ID, gomock.Any()).Return(nil)
	store.EXPECT().ChatUsersByIDs(gomock.Any(), conv.UserIDs).Return([]models.ChatUser{alice, bob}, nil)

	// The thread event goes out before any inbox preview.
	gomock.InOrder(
		broker.EXPECT().Trigger(gomock.Any(), conv.ID.Hex(), models.EventNewMessage, gomock.Any()).Return(nil),
		broker.EXPECT().Trigger(gomock.Any(), alice.Email, models.EventConversationUpdate, gomock.Any()).Return(nil),
		broker.EXPECT().Trigger(gomock.Any(), bob.Email, models.EventConversationUpdate, gomock.Any()).Return(nil),
	)

	view, err := svc.SendMessage(context.Background(), sessionFor(alice), SendMessageInput{
		ConversationID: conv.ID,
		Body:           "hello",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, []primitive.ObjectID{alice.ID}, created.SeenIDs)
	assert.Equal(t, alice.ID, created.SenderID)
	assert.True(t, view.SentBy(alice.ID))
	assert.True(t, view.SeenBy(alice.ID))
}

func TestSendMessageRequiresBodyOrImage(t *testing.T) {
	svc, _, _ := newTestService(t)
	alice := chatUser("alice", "alice@example.com")

	_, err := svc.SendMessage(context.Background(), sessionFor(alice), SendMessageInput{
		ConversationID: primitive.NewObjectID(),
	})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestSendMessageUnknownConversation(t *testing.T) {
	svc, store, _ := newTestService(t)
	alice := chatUser("alice", "alice@example.com")
	convID := primitive.NewObjectID()

	expectActor(store, alice)
	store.EXPECT().ConversationByID(gomock.Any(), convID).Return(nil, nil)

	_, err := svc.SendMessage(context.Background(), sessionFor(alice), SendMessageInput{
		ConversationID: convID,
		Body:           "hello",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendMessageSurvivesPublishFailure(t *testing.T) {
	svc, store, broker := newTestService(t)
	alice := chatUser("alice", "alice@example.com")

	conv := models.Conversation{ID: primitive.NewObjectID(), UserIDs: []primitive.ObjectID{alice.ID}}

	expectActor(store, alice)
	c := conv
	store.EXPECT().ConversationByID(gomock.Any(), conv.ID).Return(&c, nil).Times(2)
	store.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, m *models.Message) error {
			m.ID = primitive.NewObjectID()
			return nil
		})
	store.EXPECT().SetLastMessageAt(gomock.Any(), conv.ID, gomock.Any()).Return(nil)
	store.EXPECT().ChatUsersByIDs(gomock.Any(), conv.UserIDs).Return([]models.ChatUser{alice}, nil)
	broker.EXPECT().Trigger(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("redis down")).Times(2)

	// The write landed; a lost broadcast must not fail the command.
	view, err := svc.SendMessage(context.Background(), sessionFor(alice), SendMessageInput{
		ConversationID: conv.ID,
		Body:           "hello",
	})
	require.NoError(t, err)
	assert.NotNil(t, view)
}

func TestMarkMessageSeenAppendsActor(t *testing.T) {
	svc, store, broker := newTestService(t)
	alice := chatUser("alice", "alice@example.com")
	bob := chatUser("bob", "bob@example.com")

	conv := models.Conversation{ID: primitive.NewObjectID(), UserIDs: []primitive.ObjectID{alice.ID, bob.ID}}
	last := models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: conv.ID,
		SenderID:       bob.ID,
		Body:           "hi",
		SeenIDs:        []primitive.ObjectID{bob.ID},
	}

	expectActor(store, alice)
	c := conv
	store.EXPECT().ConversationByID(gomock.Any(), conv.ID).Return(&c, nil)
	m := last
	store.EXPECT().LatestMessage(gomock.Any(), conv.ID).Return(&m, nil)
	store.EXPECT().ChatUsersByIDs(gomock.Any(), gomock.Any()).Return([]models.ChatUser{bob}, nil)
	store.EXPECT().UpdateMessageSeen(gomock.Any(), last.ID, []primitive.ObjectID{bob.ID, alice.ID}).Return(nil)

	gomock.InOrder(
		broker.EXPECT().Trigger(gomock.Any(), alice.Email, models.EventConversationUpdate, gomock.Any()).Return(nil),
		broker.EXPECT().Trigger(gomock.Any(), conv.ID.Hex(), models.EventMessageUpdate, gomock.Any()).Return(nil),
	)

	view, err := svc.MarkMessageSeen(context.Background(), sessionFor(alice), conv.ID)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.True(t, view.SeenBy(alice.ID))
	assert.True(t, view.SeenBy(bob.ID))
}

func TestMarkMessageSeenAlreadySeenIsNoOp(t *testing.T) {
	svc, store, _ := newTestService(t)
	alice := chatUser("alice", "alice@example.com")
	bob := chatUser("bob", "bob@example.com")

	conv := models.Conversation{ID: primitive.NewObjectID(), UserIDs: []primitive.ObjectID{alice.ID, bob.ID}}
	last := models.Message{
		ID:       primitive.NewObjectID(),
		SenderID: bob.ID,
		SeenIDs:  []primitive.ObjectID{bob.ID, alice.ID},
	}

	expectActor(store, alice)
	c := conv
	store.EXPECT().ConversationByID(gomock.Any(), conv.ID).Return(&c, nil)
	m := last
	store.EXPECT().LatestMessage(gomock.Any(), conv.ID).Return(&m, nil)
	store.EXPECT().ChatUsersByIDs(gomock.Any(), gomock.Any()).Return([]models.ChatUser{alice, bob}, nil)

	// No write, no publish.
	view, err := svc.MarkMessageSeen(context.Background(), sessionFor(alice), conv.ID)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.True(t, view.SeenBy(alice.ID))
}

func TestMarkMessageSeenEmptyConversation(t *testing.T) {
	svc, store, _ := newTestService(t)
	alice := chatUser("alice", "alice@example.com")
	conv := models.Conversation{ID: primitive.NewObjectID(), UserIDs: []primitive.ObjectID{alice.ID}}

	expectActor(store, alice)
	c := conv
	store.EXPECT().ConversationByID(gomock.Any(), conv.ID).Return(&c, nil)
	store.EXPECT().LatestMessage(gomock.Any(), conv.ID).Return(nil, nil)

	view, err := svc.MarkMessageSeen(context.Background(), sessionFor(alice), conv.ID)
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestDeleteConversationRequiresMembership(t *testing.T) {
	svc, store, _ := newTestService(t)
	alice := chatUser("alice", "alice@example.com")
	bob := chatUser("bob", "bob@example.com")
	carol := chatUser("carol", "carol@example.com")

	conv := models.Conversation{ID: primitive.NewObjectID(), UserIDs: []primitive.ObjectID{bob.ID, carol.ID}}

	expectActor(store, alice)
	c := conv
	store.EXPECT().ConversationByID(gomock.Any(), conv.ID).Return(&c, nil)

	_, err := svc.DeleteConversation(context.Background(), sessionFor(alice), conv.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteConversationNotifiesPriorParticipants(t *testing.T) {
	svc, store, broker := newTestService(t)
	alice := chatUser("alice", "alice@example.com")
	bob := chatUser("bob", "bob@example.com")

	conv := models.Conversation{ID: primitive.NewObjectID(), UserIDs: []primitive.ObjectID{alice.ID, bob.ID}}

	expectActor(store, alice)
	c := conv
	store.EXPECT().ConversationByID(gomock.Any(), conv.ID).Return(&c, nil)

	// Participants are resolved before the record is gone.
	gomock.InOrder(
		store.EXPECT().ChatUsersByIDs(gomock.Any(), gomock.Any()).Return([]models.ChatUser{alice, bob}, nil),
		store.EXPECT().DeleteConversation(gomock.Any(), conv.ID).Return(nil),
	)
	broker.EXPECT().Trigger(gomock.Any(), alice.Email, models.EventConversationDelete, gomock.Any()).Return(nil)
	broker.EXPECT().Trigger(gomock.Any(), bob.Email, models.EventConversationDelete, gomock.Any()).Return(nil)

	view, err := svc.DeleteConversation(context.Background(), sessionFor(alice), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, view.ID)
}

func TestTypingRelays(t *testing.T) {
	svc, store, broker := newTestService(t)
	alice := chatUser("alice", "alice@example.com")
	convID := primitive.NewObjectID()

	expectActor(store, alice)
	broker.EXPECT().Trigger(gomock.Any(), convID.Hex(), models.EventTyping, models.TypingPayload{
		ConversationID: convID,
		User:           alice,
	}).Return(nil)

	require.NoError(t, svc.SendTyping(context.Background(), sessionFor(alice), convID))

	// Second call hits the actor cache; only the broker sees it.
	broker.EXPECT().Trigger(gomock.Any(), convID.Hex(), models.EventStopTyping, models.StopTypingPayload{
		User: alice,
	}).Return(nil)
	require.NoError(t, svc.StopTyping(context.Background(), sessionFor(alice), convID))
}
