package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-convo/backend/models"
)

func preview(conversationID primitive.ObjectID, m models.MessageView) models.ConversationPreview {
	return models.ConversationPreview{
		ID:       conversationID,
		Messages: []models.MessageView{m},
	}
}

func TestUnreadCounterIncrementsOnOthersMessages(t *testing.T) {
	subs := newFakeSubscriber()
	alice := testUser("alice")
	bob := testUser("bob")
	convID := primitive.NewObjectID()

	var reported []int
	counter, err := OpenUnreadCounter(subs, alice.Email, alice.ID, 0, func(n int) { reported = append(reported, n) })
	require.NoError(t, err)
	defer counter.Close()

	m := testMessage(convID, bob, "hi", time.Now())
	subs.emit(t, alice.Email, models.EventConversationUpdate, preview(convID, m))

	assert.Equal(t, 1, counter.Count())
	assert.Equal(t, []int{1}, reported)
}

func TestUnreadCounterIgnoresOwnMessages(t *testing.T) {
	subs := newFakeSubscriber()
	alice := testUser("alice")
	convID := primitive.NewObjectID()

	counter, err := OpenUnreadCounter(subs, alice.Email, alice.ID, 0, nil)
	require.NoError(t, err)
	defer counter.Close()

	m := testMessage(convID, alice, "mine", time.Now())
	subs.emit(t, alice.Email, models.EventConversationUpdate, preview(convID, m))

	assert.Equal(t, 0, counter.Count())
}

func TestUnreadCounterDecrementsWhenSeen(t *testing.T) {
	subs := newFakeSubscriber()
	alice := testUser("alice")
	bob := testUser("bob")
	convID := primitive.NewObjectID()

	counter, err := OpenUnreadCounter(subs, alice.Email, alice.ID, 2, nil)
	require.NoError(t, err)
	defer counter.Close()

	// bob's message, now seen by alice
	m := testMessage(convID, bob, "hi", time.Now(), alice)
	subs.emit(t, alice.Email, models.EventConversationUpdate, preview(convID, m))

	assert.Equal(t, 1, counter.Count())
}

func TestUnreadCounterFloorsAtZero(t *testing.T) {
	subs := newFakeSubscriber()
	alice := testUser("alice")
	bob := testUser("bob")
	convID := primitive.NewObjectID()

	counter, err := OpenUnreadCounter(subs, alice.Email, alice.ID, 0, nil)
	require.NoError(t, err)
	defer counter.Close()

	m := testMessage(convID, bob, "hi", time.Now(), alice)
	subs.emit(t, alice.Email, models.EventConversationUpdate, preview(convID, m))
	subs.emit(t, alice.Email, models.EventConversationUpdate, preview(convID, m))

	assert.Equal(t, 0, counter.Count())
}

// The inbox and the unread counter share the personal channel; each holds its
// own scope, so closing one must not detach the other.
func TestUnreadCounterCloseLeavesInboxAttached(t *testing.T) {
	subs := newFakeSubscriber()
	alice := testUser("alice")
	bob := testUser("bob")

	seed := testConversation("", time.Now().Add(-time.Hour), alice, bob)
	inbox, err := OpenInbox(subs, alice.Email, []models.ConversationView{seed}, nil)
	require.NoError(t, err)
	defer inbox.Close()

	counter, err := OpenUnreadCounter(subs, alice.Email, alice.ID, 0, nil)
	require.NoError(t, err)

	// Both scopes see events while both are open.
	m := testMessage(seed.ID, bob, "hi", time.Now())
	subs.emit(t, alice.Email, models.EventConversationUpdate, preview(seed.ID, m))
	assert.Equal(t, 1, counter.Count())

	require.NoError(t, counter.Close())

	c := testConversation("", time.Now(), alice, bob)
	subs.emit(t, alice.Email, models.EventNewConversation, c)

	got := inbox.Conversations()
	require.Len(t, got, 2, "inbox must keep receiving after the counter closes")
	assert.Equal(t, c.ID, got[0].ID)
}
