package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Ping period; must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum control frame size allowed from the peer.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Events sent to sockets about their own subscriptions.
const (
	eventSubscribed        = "subscription_succeeded"
	eventSubscriptionError = "subscription_error"
)

// command is the control frame a socket sends to manage its subscriptions.
type command struct {
	Action  string `json:"action"` // "subscribe" or "unsubscribe"
	Channel string `json:"channel"`
	Auth    string `json:"auth,omitempty"`
}

type client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan Envelope
	socketID string
	channels map[string]bool // owned by the hub loop
}

type subscriptionRequest struct {
	client  *client
	channel string
}

// Hub tracks connected sockets and their channel subscriptions, and forwards
// envelopes arriving from Redis to every local subscriber of the envelope's
// channel.
type Hub struct {
	secret string
	log    *logrus.Logger

	register    chan *client
	unregister  chan *client
	subscribe   chan subscriptionRequest
	unsubscribe chan subscriptionRequest
	deliver     chan Envelope

	clients   map[*client]bool
	byChannel map[string]map[*client]bool
}

// NewHub creates a hub validating private-channel grants with secret.
func NewHub(secret string, log *logrus.Logger) *Hub {
	return &Hub{
		secret:      secret,
		log:         log,
		register:    make(chan *client),
		unregister:  make(chan *client),
		subscribe:   make(chan subscriptionRequest),
		unsubscribe: make(chan subscriptionRequest),
		deliver:     make(chan Envelope, 256),
		clients:     make(map[*client]bool),
		byChannel:   make(map[string]map[*client]bool),
	}
}

// Run is the hub's event loop. All subscription state is owned here.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.log.WithField("socket_id", c.socketID).Debug("Socket connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.dropClient(c)
			}

		case req := <-h.subscribe:
			if !h.clients[req.client] {
				continue
			}
			if h.byChannel[req.channel] == nil {
				h.byChannel[req.channel] = make(map[*client]bool)
			}
			h.byChannel[req.channel][req.client] = true
			req.client.channels[req.channel] = true
			req.client.trySend(Envelope{Channel: req.channel, Event: eventSubscribed})

		case req := <-h.unsubscribe:
			h.removeSubscription(req.client, req.channel)

		case env := <-h.deliver:
			for c := range h.byChannel[env.Channel] {
				if !c.trySend(env) {
					h.dropClient(c)
				}
			}
		}
	}
}

func (h *Hub) dropClient(c *client) {
	delete(h.clients, c)
	for channel := range c.channels {
		h.removeSubscription(c, channel)
	}
	close(c.send)
	h.log.WithField("socket_id", c.socketID).Debug("Socket disconnected")
}

func (h *Hub) removeSubscription(c *client, channel string) {
	if subs, ok := h.byChannel[channel]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.byChannel, channel)
		}
	}
	delete(c.channels, channel)
}

// ConsumeRedis pumps published envelopes from Redis into the hub until ctx is
// cancelled. Per-channel publish order is preserved: one subscriber
// connection feeds one ordered loop.
func (h *Hub) ConsumeRedis(ctx context.Context, rdb *redis.Client) {
	pubsub := rdb.PSubscribe(ctx, channelPattern)
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.log.WithError(err).Warn("Dropping malformed envelope from Redis")
				continue
			}
			h.deliver <- env
		}
	}
}

// HandleWS upgrades the request and services the socket until it closes.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	socketID := r.URL.Query().Get("socket_id")
	if socketID == "" {
		socketID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("Failed to upgrade to WebSocket")
		return
	}

	c := &client{
		hub:      h,
		conn:     conn,
		send:     make(chan Envelope, 256),
		socketID: socketID,
		channels: make(map[string]bool),
	}
	h.register <- c

	go c.writePump()
	c.readPump()
}

// trySend queues an envelope without blocking the hub loop. A full buffer
// means the socket is too slow to keep; the caller drops it.
func (c *client) trySend(env Envelope) bool {
	select {
	case c.send <- env:
		return true
	default:
		return false
	}
}

// readPump consumes control frames until the socket closes.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, p, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.hub.log.WithError(err).Debug("Socket read error")
			}
			return
		}

		var cmd command
		if err := json.Unmarshal(p, &cmd); err != nil {
			c.hub.log.WithError(err).Debug("Ignoring malformed control frame")
			continue
		}

		switch cmd.Action {
		case "subscribe":
			if IsPrivate(cmd.Channel) {
				if err := ValidateGrant(cmd.Auth, c.socketID, cmd.Channel, c.hub.secret); err != nil {
					c.hub.log.WithError(err).WithFields(logrus.Fields{
						"socket_id": c.socketID,
						"channel":   cmd.Channel,
					}).Warn("Rejected private channel subscription")
					c.trySend(Envelope{Channel: cmd.Channel, Event: eventSubscriptionError})
					continue
				}
			}
			c.hub.subscribe <- subscriptionRequest{client: c, channel: cmd.Channel}
		case "unsubscribe":
			c.hub.unsubscribe <- subscriptionRequest{client: c, channel: cmd.Channel}
		}
	}
}

// writePump forwards queued envelopes to the socket and keeps it alive with
// pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			raw, err := json.Marshal(env)
			if err != nil {
				c.hub.log.WithError(err).Warn("Failed to marshal envelope")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
