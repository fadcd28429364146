// Package handlers exposes the conversation service over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"go-convo/backend/chat"
	"go-convo/backend/database"
	"go-convo/backend/middleware"
	"go-convo/backend/models"
	"go-convo/backend/realtime"
)

// API bundles the handler dependencies.
type API struct {
	store  *database.Store
	chat   *chat.Service
	hub    *realtime.Hub
	secret string
	log    *logrus.Logger
}

// NewAPI wires the HTTP surface to its collaborators.
func NewAPI(store *database.Store, chatSvc *chat.Service, hub *realtime.Hub, secret string, log *logrus.Logger) *API {
	return &API{
		store:  store,
		chat:   chatSvc,
		hub:    hub,
		secret: secret,
		log:    log,
	}
}

// Routes registers every endpoint on the router. Everything below the public
// block requires a session token.
func (a *API) Routes(router *mux.Router) {
	router.HandleFunc("/health", a.Health).Methods("GET")
	router.HandleFunc("/register", a.Register).Methods("POST")
	router.HandleFunc("/login", a.Login).Methods("POST")
	router.HandleFunc("/ws", a.ServeWS).Methods("GET")

	authed := router.NewRoute().Subrouter()
	authed.Use(middleware.JWT(a.secret, a.log))
	authed.HandleFunc("/me", a.CurrentUser).Methods("GET")
	authed.HandleFunc("/me", a.UpdateProfile).Methods("PATCH")
	authed.HandleFunc("/users", a.Users).Methods("GET")
	authed.HandleFunc("/conversations", a.ListConversations).Methods("GET")
	authed.HandleFunc("/conversations", a.CreateConversation).Methods("POST")
	authed.HandleFunc("/conversations/{id}", a.GetConversation).Methods("GET")
	authed.HandleFunc("/conversations/{id}", a.DeleteConversation).Methods("DELETE")
	authed.HandleFunc("/conversations/{id}/messages", a.ListMessages).Methods("GET")
	authed.HandleFunc("/conversations/{id}/messages", a.SendMessage).Methods("POST")
	authed.HandleFunc("/conversations/{id}/seen", a.MarkSeen).Methods("POST")
	authed.HandleFunc("/conversations/{id}/typing", a.Typing).Methods("POST")
	authed.HandleFunc("/conversations/{id}/typing/stop", a.StopTyping).Methods("POST")
	authed.HandleFunc("/unread-count", a.UnreadCount).Methods("GET")
	authed.HandleFunc("/realtime/auth", a.AuthorizeChannel).Methods("POST")
}

// Health reports liveness.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sendJSON writes a JSON response.
func sendJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// sendJSONError sends a JSON error response.
func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, statusCode, models.ErrorResponse{Message: message})
}

// serviceError maps a chat domain error onto its HTTP status. Internal causes
// stay out of the response body.
func (a *API) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrUnauthorized):
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, chat.ErrForbidden):
		sendJSONError(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, chat.ErrNotFound):
		sendJSONError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, chat.ErrBadRequest):
		sendJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		a.log.WithError(err).Error("Request failed")
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}
