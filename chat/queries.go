package chat

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-convo/backend/models"
)

// Conversations returns every conversation the actor participates in, most
// recently active first, each with its latest message attached as a
// one-element Messages slice. One latest-message query runs per conversation;
// fine at inbox scale.
func (s *Service) Conversations(ctx context.Context, actor models.Session) ([]models.ConversationView, error) {
	self, err := s.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	conversations, err := s.store.ConversationsByUser(ctx, self.ID)
	if err != nil {
		return nil, internal(err)
	}

	views := make([]models.ConversationView, 0, len(conversations))
	for _, c := range conversations {
		view, _, err := s.conversationView(ctx, c)
		if err != nil {
			return nil, err
		}

		last, err := s.store.LatestMessage(ctx, c.ID)
		if err != nil {
			return nil, internal(err)
		}
		if last != nil {
			users, err := s.usersFor(ctx, append(append([]primitive.ObjectID{}, last.SeenIDs...), last.SenderID))
			if err != nil {
				return nil, err
			}
			view.Messages = []models.MessageView{viewMessage(*last, users)}
		}
		views = append(views, *view)
	}
	return views, nil
}

// Conversation returns one conversation with participants populated. Any
// authenticated caller who knows the id can read it; membership is not
// checked here.
func (s *Service) Conversation(ctx context.Context, actor models.Session, id primitive.ObjectID) (*models.ConversationView, error) {
	if _, err := s.resolveActor(ctx, actor); err != nil {
		return nil, err
	}

	conversation, err := s.store.ConversationByID(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, id.Hex())
	}

	view, _, err := s.conversationView(ctx, *conversation)
	return view, err
}

// Messages returns a conversation's messages oldest first with sender and
// seen populated. limit and beforeID page older history; limit <= 0 returns
// everything.
func (s *Service) Messages(ctx context.Context, actor models.Session, conversationID primitive.ObjectID, limit int, beforeID primitive.ObjectID) ([]models.MessageView, error) {
	if _, err := s.resolveActor(ctx, actor); err != nil {
		return nil, err
	}

	messages, err := s.store.MessagesByConversation(ctx, conversationID, limit, beforeID)
	if err != nil {
		return nil, internal(err)
	}

	var ids []primitive.ObjectID
	for _, m := range messages {
		ids = append(ids, m.SenderID)
		ids = append(ids, m.SeenIDs...)
	}
	users, err := s.usersFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, viewMessage(m, users))
	}
	return views, nil
}

// Users returns every chat user except the actor's own, for the new
// conversation picker.
func (s *Service) Users(ctx context.Context, actor models.Session) ([]models.ChatUser, error) {
	self, err := s.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	users, err := s.store.ChatUsersExcept(ctx, self.ID)
	if err != nil {
		return nil, internal(err)
	}
	return users, nil
}

// CurrentUser returns the actor's own ChatUser.
func (s *Service) CurrentUser(ctx context.Context, actor models.Session) (*models.ChatUser, error) {
	return s.resolveActor(ctx, actor)
}

// UnreadCount computes the seed for the client-side unread counter: the
// number of conversations whose latest message was sent by someone else and
// not yet seen by the actor.
func (s *Service) UnreadCount(ctx context.Context, actor models.Session) (int, error) {
	self, err := s.resolveActor(ctx, actor)
	if err != nil {
		return 0, err
	}

	conversations, err := s.store.ConversationsByUser(ctx, self.ID)
	if err != nil {
		return 0, internal(err)
	}

	count := 0
	for _, c := range conversations {
		last, err := s.store.LatestMessage(ctx, c.ID)
		if err != nil {
			return 0, internal(err)
		}
		if last != nil && last.SenderID != self.ID && !last.SeenBy(self.ID) {
			count++
		}
	}
	return count, nil
}
