// Package chat implements the conversation command and read layers: every
// operation validates input, mutates the data store and publishes the
// resulting events to the channel service.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-convo/backend/cache"
	"go-convo/backend/models"
	"go-convo/backend/utils"
)

const actorCacheTTL = 30 * time.Second

// Service is the conversation service. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	store  Store
	broker Broadcaster
	actors *cache.TTL[string, models.ChatUser]
	log    *logrus.Logger
	now    func() time.Time
}

// NewService wires the service to its collaborators.
func NewService(store Store, broker Broadcaster, log *logrus.Logger) *Service {
	return &Service{
		store:  store,
		broker: broker,
		actors: cache.New[string, models.ChatUser](actorCacheTTL, time.Now),
		log:    log,
		now:    time.Now,
	}
}

// resolveActor maps the session onto its ChatUser, through a short TTL cache
// since every operation starts with this lookup.
func (s *Service) resolveActor(ctx context.Context, actor models.Session) (*models.ChatUser, error) {
	if actor.AccountID.IsZero() {
		return nil, ErrUnauthorized
	}

	key := actor.AccountID.Hex()
	if cached, ok := s.actors.Get(key); ok {
		return &cached, nil
	}

	user, err := s.store.ChatUserByAccount(ctx, actor.AccountID)
	if err != nil {
		return nil, internal(err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no chat user for account %s", ErrNotFound, key)
	}
	s.actors.Set(key, *user)
	return user, nil
}

// UpdateProfileInput carries the mutable ChatUser fields.
type UpdateProfileInput struct {
	Name   string
	Avatar string
}

// UpdateProfile changes the actor's display name and avatar, invalidating the
// cached actor entry so the next operation sees the new profile.
func (s *Service) UpdateProfile(ctx context.Context, actor models.Session, in UpdateProfileInput) (*models.ChatUser, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}

	self, err := s.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateChatUserProfile(ctx, self.ID, in.Name, in.Avatar); err != nil {
		return nil, internal(err)
	}
	s.actors.Invalidate(actor.AccountID.Hex())

	updated := *self
	updated.Name = in.Name
	updated.Avatar = in.Avatar

	s.log.WithField("chat_user_id", self.ID.Hex()).Info("Profile updated")
	return &updated, nil
}

// CreateConversationInput selects the direct path (UserID) or the group path
// (IsGroup with Name and Members, actor excluded).
type CreateConversationInput struct {
	UserID  primitive.ObjectID
	IsGroup bool
	Name    string
	Members []primitive.ObjectID
}

// CreateConversation creates a direct or group conversation and announces it
// on every participant's personal channel. Creating a direct conversation
// with the same counterpart twice returns the existing one.
func (s *Service) CreateConversation(ctx context.Context, actor models.Session, in CreateConversationInput) (*models.ConversationView, error) {
	self, err := s.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	if in.IsGroup {
		return s.createGroupConversation(ctx, self, in)
	}
	return s.createDirectConversation(ctx, self, in.UserID)
}

func (s *Service) createGroupConversation(ctx context.Context, self *models.ChatUser, in CreateConversationInput) (*models.ConversationView, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: group conversation requires a name", ErrBadRequest)
	}

	// Validate on the deduplicated set including the actor, not the raw
	// member list: duplicates or a self-mention must not shrink a group below
	// 3 participants.
	userIDs := dedupeIDs(append(append([]primitive.ObjectID{}, in.Members...), self.ID))
	if len(userIDs) < 3 {
		return nil, fmt.Errorf("%w: group conversation requires at least 2 other members", ErrBadRequest)
	}
	utils.SortObjectIDs(userIDs)

	now := s.now()
	conversation := &models.Conversation{
		Name:          in.Name,
		IsGroup:       true,
		UserIDs:       userIDs,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	if err := s.store.CreateConversation(ctx, conversation); err != nil {
		return nil, internal(err)
	}

	view, participants, err := s.conversationView(ctx, *conversation)
	if err != nil {
		return nil, err
	}

	s.publishToParticipants(ctx, participants, models.EventNewConversation, view)

	s.log.WithFields(logrus.Fields{
		"conversation_id": conversation.ID.Hex(),
		"participants":    len(userIDs),
	}).Info("Group conversation created")

	return view, nil
}

func (s *Service) createDirectConversation(ctx context.Context, self *models.ChatUser, other primitive.ObjectID) (*models.ConversationView, error) {
	if other.IsZero() {
		return nil, fmt.Errorf("%w: userId is required", ErrBadRequest)
	}
	if other == self.ID {
		return nil, fmt.Errorf("%w: cannot start a conversation with yourself", ErrBadRequest)
	}

	// The store filter only guarantees "contains both"; narrow to the exact
	// pair here so a group with these two members does not shadow the direct
	// conversation.
	existing, err := s.store.DirectConversationsWith(ctx, self.ID, other)
	if err != nil {
		return nil, internal(err)
	}
	for _, c := range existing {
		if isExactPair(c.UserIDs, self.ID, other) {
			view, _, err := s.conversationView(ctx, c)
			return view, err
		}
	}

	userIDs := []primitive.ObjectID{self.ID, other}
	utils.SortObjectIDs(userIDs)

	now := s.now()
	conversation := &models.Conversation{
		IsGroup:       false,
		UserIDs:       userIDs,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	if err := s.store.CreateConversation(ctx, conversation); err != nil {
		return nil, internal(err)
	}

	view, participants, err := s.conversationView(ctx, *conversation)
	if err != nil {
		return nil, err
	}

	s.publishToParticipants(ctx, participants, models.EventNewConversation, view)

	s.log.WithField("conversation_id", conversation.ID.Hex()).Info("Direct conversation created")
	return view, nil
}

// DeleteConversation hard-deletes a conversation the actor participates in
// and announces the deletion to every prior participant. Messages are left
// behind; only the conversation record goes.
func (s *Service) DeleteConversation(ctx context.Context, actor models.Session, conversationID primitive.ObjectID) (*models.ConversationView, error) {
	self, err := s.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	conversation, err := s.store.ConversationByID(ctx, conversationID)
	if err != nil {
		return nil, internal(err)
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID.Hex())
	}
	if !conversation.HasUser(self.ID) {
		return nil, fmt.Errorf("%w: not a participant", ErrForbidden)
	}

	// Resolve participants before the record disappears.
	view, participants, err := s.conversationView(ctx, *conversation)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteConversation(ctx, conversationID); err != nil {
		return nil, internal(err)
	}

	s.publishToParticipants(ctx, participants, models.EventConversationDelete, view)

	s.log.WithField("conversation_id", conversationID.Hex()).Info("Conversation deleted")
	return view, nil
}

// SendMessageInput carries a new message; Body or Image must be set.
type SendMessageInput struct {
	ConversationID primitive.ObjectID
	Body           string
	Image          string
}

// SendMessage persists the message with the sender pre-seeded into its seen
// set, bumps the conversation's activity timestamp, then publishes: first
// messages:new on the conversation channel for anyone viewing the thread,
// then conversation:update on each participant's personal channel for inbox
// previews. Subscribers of both must tolerate either arriving first.
func (s *Service) SendMessage(ctx context.Context, actor models.Session, in SendMessageInput) (*models.MessageView, error) {
	if in.Body == "" && in.Image == "" {
		return nil, fmt.Errorf("%w: message requires a body or an image", ErrBadRequest)
	}

	self, err := s.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	conversation, err := s.store.ConversationByID(ctx, in.ConversationID)
	if err != nil {
		return nil, internal(err)
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, in.ConversationID.Hex())
	}

	message := &models.Message{
		ConversationID: in.ConversationID,
		SenderID:       self.ID,
		Body:           in.Body,
		Image:          in.Image,
		SeenIDs:        []primitive.ObjectID{self.ID},
		CreatedAt:      s.now(),
	}
	if err := s.store.CreateMessage(ctx, message); err != nil {
		return nil, internal(err)
	}
	if err := s.store.SetLastMessageAt(ctx, in.ConversationID, message.CreatedAt); err != nil {
		return nil, internal(err)
	}

	view := viewMessage(*message, map[primitive.ObjectID]models.ChatUser{self.ID: *self})

	s.publish(ctx, in.ConversationID.Hex(), models.EventNewMessage, view)

	// Re-fetch the participant list: membership may have changed since the
	// conversation was loaded.
	current, err := s.store.ConversationByID(ctx, in.ConversationID)
	if err != nil {
		return nil, internal(err)
	}
	if current != nil {
		participants, err := s.store.ChatUsersByIDs(ctx, current.UserIDs)
		if err != nil {
			return nil, internal(err)
		}
		preview := models.ConversationPreview{
			ID:       in.ConversationID,
			Messages: []models.MessageView{view},
		}
		s.publishToParticipants(ctx, participants, models.EventConversationUpdate, preview)
	}

	s.log.WithFields(logrus.Fields{
		"conversation_id": in.ConversationID.Hex(),
		"message_id":      message.ID.Hex(),
	}).Info("Message sent")

	return &view, nil
}

// MarkMessageSeen appends the actor to the seen set of the conversation's
// latest message. Only the latest message carries seen state; call sites
// invoke this on every open and on every arrival, which covers the common
// read-while-viewing case without one write per historical message. Already
// seen is a no-op. Returns nil when the conversation has no messages.
func (s *Service) MarkMessageSeen(ctx context.Context, actor models.Session, conversationID primitive.ObjectID) (*models.MessageView, error) {
	self, err := s.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	conversation, err := s.store.ConversationByID(ctx, conversationID)
	if err != nil {
		return nil, internal(err)
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID.Hex())
	}

	last, err := s.store.LatestMessage(ctx, conversationID)
	if err != nil {
		return nil, internal(err)
	}
	if last == nil {
		return nil, nil
	}

	users, err := s.usersFor(ctx, append(append([]primitive.ObjectID{}, last.SeenIDs...), last.SenderID))
	if err != nil {
		return nil, err
	}

	if last.SeenBy(self.ID) {
		view := viewMessage(*last, users)
		return &view, nil
	}

	// Read-modify-write: two users racing here can lose an append. Accepted;
	// the next MarkMessageSeen from the loser repairs it.
	last.SeenIDs = append(last.SeenIDs, self.ID)
	if err := s.store.UpdateMessageSeen(ctx, last.ID, last.SeenIDs); err != nil {
		return nil, internal(err)
	}

	users[self.ID] = *self
	view := viewMessage(*last, users)

	preview := models.ConversationPreview{
		ID:       conversationID,
		Messages: []models.MessageView{view},
	}
	if self.Email != "" {
		s.publish(ctx, self.Email, models.EventConversationUpdate, preview)
	}
	s.publish(ctx, conversationID.Hex(), models.EventMessageUpdate, view)

	return &view, nil
}

// SendTyping relays a typing indicator on the conversation channel. Nothing
// is persisted and the server never expires it; the subscriber's own idle
// timer ends it.
func (s *Service) SendTyping(ctx context.Context, actor models.Session, conversationID primitive.ObjectID) error {
	self, err := s.resolveActor(ctx, actor)
	if err != nil {
		return err
	}
	payload := models.TypingPayload{ConversationID: conversationID, User: *self}
	return internal(s.broker.Trigger(ctx, conversationID.Hex(), models.EventTyping, payload))
}

// StopTyping relays the end of a typing indicator.
func (s *Service) StopTyping(ctx context.Context, actor models.Session, conversationID primitive.ObjectID) error {
	self, err := s.resolveActor(ctx, actor)
	if err != nil {
		return err
	}
	payload := models.StopTypingPayload{User: *self}
	return internal(s.broker.Trigger(ctx, conversationID.Hex(), models.EventStopTyping, payload))
}

// publish triggers an event, logging instead of failing the command: the
// mutation already happened and delivery is to currently-connected
// subscribers only anyway.
func (s *Service) publish(ctx context.Context, channel, event string, payload any) {
	if err := s.broker.Trigger(ctx, channel, event, payload); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"channel": channel,
			"event":   event,
		}).Warn("Failed to publish event")
	}
}

// publishToParticipants fans an event out to every participant's personal
// channel, skipping participants without a resolvable email.
func (s *Service) publishToParticipants(ctx context.Context, participants []models.ChatUser, event string, payload any) {
	for _, p := range participants {
		if p.Email == "" {
			continue
		}
		s.publish(ctx, p.Email, event, payload)
	}
}

func dedupeIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func isExactPair(ids []primitive.ObjectID, a, b primitive.ObjectID) bool {
	if len(ids) != 2 {
		return false
	}
	return (ids[0] == a && ids[1] == b) || (ids[0] == b && ids[1] == a)
}
