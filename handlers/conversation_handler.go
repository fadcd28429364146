package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-convo/backend/chat"
	"go-convo/backend/models"
	"go-convo/backend/utils"
)

// session pulls the authenticated session out of the request, relying on the
// JWT middleware having run.
func (a *API) session(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	sess, err := utils.SessionFromContext(r.Context())
	if err != nil {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return models.Session{}, false
	}
	return sess, true
}

// pathID parses the {id} path variable.
func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		sendJSONError(w, "Invalid conversation ID", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}

// CurrentUser returns the caller's chat profile.
func (a *API) CurrentUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	user, err := a.chat.CurrentUser(r.Context(), sess)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// UpdateProfile changes the caller's display name and avatar.
func (a *API) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := a.chat.UpdateProfile(r.Context(), sess, chat.UpdateProfileInput{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		a.serviceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, user)
}

// Users lists every chat user except the caller.
func (a *API) Users(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	users, err := a.chat.Users(r.Context(), sess)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, users)
}

// ListConversations returns the caller's inbox, most recently active first.
func (a *API) ListConversations(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	views, err := a.chat.Conversations(r.Context(), sess)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, views)
}

type createConversationRequest struct {
	UserID  string   `json:"userId"`
	IsGroup bool     `json:"isGroup"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// CreateConversation starts a direct or group conversation.
func (a *API) CreateConversation(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	in := chat.CreateConversationInput{IsGroup: req.IsGroup, Name: req.Name}
	if req.UserID != "" {
		id, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			sendJSONError(w, "Invalid user ID", http.StatusBadRequest)
			return
		}
		in.UserID = id
	}
	for _, m := range req.Members {
		id, err := primitive.ObjectIDFromHex(m)
		if err != nil {
			sendJSONError(w, "Invalid member ID", http.StatusBadRequest)
			return
		}
		in.Members = append(in.Members, id)
	}

	view, err := a.chat.CreateConversation(r.Context(), sess, in)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, view)
}

// GetConversation returns one conversation with participants populated.
func (a *API) GetConversation(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	view, err := a.chat.Conversation(r.Context(), sess, id)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, view)
}

// DeleteConversation removes a conversation the caller participates in.
func (a *API) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	view, err := a.chat.DeleteConversation(r.Context(), sess, id)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, view)
}

// ListMessages pages a conversation's history; limit and before page older
// messages, no limit returns everything.
func (a *API) ListMessages(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			sendJSONError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	beforeID := primitive.NilObjectID
	if raw := r.URL.Query().Get("before"); raw != "" {
		parsed, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			sendJSONError(w, "Invalid before cursor", http.StatusBadRequest)
			return
		}
		beforeID = parsed
	}

	views, err := a.chat.Messages(r.Context(), sess, id, limit, beforeID)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, views)
}

type sendMessageRequest struct {
	Body  string `json:"body"`
	Image string `json:"image"`
}

// SendMessage posts a message to a conversation.
func (a *API) SendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	view, err := a.chat.SendMessage(r.Context(), sess, chat.SendMessageInput{
		ConversationID: id,
		Body:           req.Body,
		Image:          req.Image,
	})
	if err != nil {
		a.serviceError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, view)
}

// MarkSeen records that the caller has seen the conversation's latest
// message. Responds 200 with no view when the conversation is empty.
func (a *API) MarkSeen(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	view, err := a.chat.MarkMessageSeen(r.Context(), sess, id)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	if view == nil {
		sendJSON(w, http.StatusOK, map[string]string{"message": "No messages to mark"})
		return
	}
	sendJSON(w, http.StatusOK, view)
}

// Typing relays a typing indicator to the conversation channel.
func (a *API) Typing(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.chat.SendTyping(r.Context(), sess, id); err != nil {
		a.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StopTyping relays the end of a typing indicator.
func (a *API) StopTyping(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.chat.StopTyping(r.Context(), sess, id); err != nil {
		a.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnreadCount returns the seed for the client-side unread counter.
func (a *API) UnreadCount(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	count, err := a.chat.UnreadCount(r.Context(), sess)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]int{"count": count})
}
