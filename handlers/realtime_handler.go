package handlers

import (
	"encoding/json"
	"net/http"

	"go-convo/backend/realtime"
	"go-convo/backend/utils"
)

type channelAuthRequest struct {
	SocketID string `json:"socket_id"`
	Channel  string `json:"channel_name"`
}

// AuthorizeChannel issues a grant for a private channel subscription. A
// session may only be granted its own personal channel; conversation channels
// never reach this endpoint because they require no grant.
func (a *API) AuthorizeChannel(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	var req channelAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.SocketID == "" || req.Channel == "" {
		sendJSONError(w, "socket_id and channel_name are required", http.StatusBadRequest)
		return
	}

	if !realtime.IsPrivate(req.Channel) || req.Channel != sess.Email {
		a.log.WithField("channel", req.Channel).Warn("Rejected channel authorization")
		sendJSONError(w, "Forbidden", http.StatusForbidden)
		return
	}

	grant, err := realtime.AuthorizeChannel(req.SocketID, req.Channel, a.secret)
	if err != nil {
		a.log.WithError(err).Error("Failed to sign channel grant")
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(w, http.StatusOK, map[string]string{"auth": grant})
}

// ServeWS authenticates the socket and hands it to the hub. Browsers cannot
// set headers on WebSocket upgrades, so the session token rides a query
// parameter.
func (a *API) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	if _, err := utils.SessionFromToken(token, a.secret); err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	a.hub.HandleWS(w, r)
}
