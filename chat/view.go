package chat

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-convo/backend/models"
)

// usersFor loads the given chat users into a lookup map.
func (s *Service) usersFor(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.ChatUser, error) {
	users, err := s.store.ChatUsersByIDs(ctx, dedupeIDs(ids))
	if err != nil {
		return nil, internal(err)
	}
	byID := make(map[primitive.ObjectID]models.ChatUser, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// conversationView populates a conversation's participants and returns them
// alongside the view for fan-out publishing.
func (s *Service) conversationView(ctx context.Context, c models.Conversation) (*models.ConversationView, []models.ChatUser, error) {
	byID, err := s.usersFor(ctx, c.UserIDs)
	if err != nil {
		return nil, nil, err
	}

	view := models.ConversationView{
		ID:            c.ID,
		Name:          c.Name,
		IsGroup:       c.IsGroup,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
		Users:         make([]models.Ref[models.ChatUser], 0, len(c.UserIDs)),
	}

	participants := make([]models.ChatUser, 0, len(byID))
	for _, id := range c.UserIDs {
		if u, ok := byID[id]; ok {
			view.Users = append(view.Users, models.RefValue(u))
			participants = append(participants, u)
		} else {
			// Dangling reference; keep it as a bare id.
			view.Users = append(view.Users, models.RefID[models.ChatUser](id))
		}
	}
	return &view, participants, nil
}

// viewMessage shapes a stored message, resolving sender and seen references
// against the supplied lookup. Missing users stay bare ids.
func viewMessage(m models.Message, usersByID map[primitive.ObjectID]models.ChatUser) models.MessageView {
	view := models.MessageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Body:           m.Body,
		Image:          m.Image,
		CreatedAt:      m.CreatedAt,
		Seen:           make([]models.Ref[models.ChatUser], 0, len(m.SeenIDs)),
	}

	if u, ok := usersByID[m.SenderID]; ok {
		view.Sender = models.RefValue(u)
	} else {
		view.Sender = models.RefID[models.ChatUser](m.SenderID)
	}

	for _, id := range m.SeenIDs {
		if u, ok := usersByID[id]; ok {
			view.Seen = append(view.Seen, models.RefValue(u))
		} else {
			view.Seen = append(view.Seen, models.RefID[models.ChatUser](id))
		}
	}
	return view
}
