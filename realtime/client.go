package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// AuthFunc fetches an authorization grant for subscribing this socket to a
// private channel, typically by calling the server's auth endpoint.
type AuthFunc func(socketID, channel string) (string, error)

// WSClient is the subscribe side of the channel service: one WebSocket
// connection multiplexing any number of channel subscriptions. On a dropped
// connection it redials with backoff and resubscribes everything that was
// live, so handlers keep firing without the owner noticing beyond the gap.
type WSClient struct {
	url    string
	authFn AuthFunc
	log    *logrus.Logger

	socketID string

	mu     sync.Mutex
	conn   *websocket.Conn
	subs   map[string][]*wsSubscription
	closed bool
}

// NewWSClient prepares a client for the given ws:// URL. authFn may be nil
// when only public channels will be used.
func NewWSClient(url string, authFn AuthFunc, log *logrus.Logger) *WSClient {
	return &WSClient{
		url:      url,
		authFn:   authFn,
		log:      log,
		socketID: uuid.NewString(),
		subs:     make(map[string][]*wsSubscription),
	}
}

// SocketID identifies this connection to the channel auth endpoint.
func (c *WSClient) SocketID() string { return c.socketID }

// Connect dials the hub and starts the read loop.
func (c *WSClient) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url+"?socket_id="+c.socketID, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// Close tears the connection down. Subscriptions are not individually
// unsubscribed; the server drops them with the socket.
func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Subscribe claims a channel and returns a scoped subscription. Every call
// gets its own scope with its own handlers, so two views sharing a channel
// cannot tear each other down; the wire subscription is opened by the first
// scope and closed when the last one closes.
func (c *WSClient) Subscribe(channel string) (Subscription, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.New("realtime client is closed")
	}
	sub := &wsSubscription{
		client:   c,
		channel:  channel,
		handlers: make(map[string][]Handler),
	}
	first := len(c.subs[channel]) == 0
	c.subs[channel] = append(c.subs[channel], sub)
	conn := c.conn
	c.mu.Unlock()

	if first {
		if err := c.sendSubscribe(conn, channel); err != nil {
			c.removeScope(sub)
			return nil, err
		}
	}
	return sub, nil
}

// removeScope detaches a scope from its channel, reporting whether it was the
// channel's last.
func (c *WSClient) removeScope(sub *wsSubscription) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	scopes := c.subs[sub.channel]
	for i, s := range scopes {
		if s == sub {
			scopes = append(scopes[:i], scopes[i+1:]...)
			break
		}
	}
	if len(scopes) == 0 {
		delete(c.subs, sub.channel)
		return true
	}
	c.subs[sub.channel] = scopes
	return false
}

func (c *WSClient) sendSubscribe(conn *websocket.Conn, channel string) error {
	if conn == nil {
		return errors.New("realtime client is not connected")
	}

	cmd := command{Action: "subscribe", Channel: channel}
	if IsPrivate(channel) {
		if c.authFn == nil {
			return errors.New("private channel requires an auth func")
		}
		auth, err := c.authFn(c.socketID, channel)
		if err != nil {
			return err
		}
		cmd.Auth = auth
	}
	return c.writeJSON(conn, cmd)
}

func (c *WSClient) sendUnsubscribe(channel string) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}
	if err := c.writeJSON(conn, command{Action: "unsubscribe", Channel: channel}); err != nil {
		c.log.WithError(err).WithField("channel", channel).Debug("Failed to send unsubscribe")
	}
}

// writeJSON serializes writes; gorilla connections allow one writer at a time.
func (c *WSClient) writeJSON(conn *websocket.Conn, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return conn.WriteJSON(v)
}

func (c *WSClient) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return
			}
			c.log.WithError(err).Info("Connection lost, reconnecting")
			c.reconnect()
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.log.WithError(err).Debug("Ignoring malformed frame")
			continue
		}

		c.mu.Lock()
		scopes := append([]*wsSubscription(nil), c.subs[env.Channel]...)
		c.mu.Unlock()
		for _, sub := range scopes {
			sub.dispatch(env.Event, env.Data)
		}
	}
}

// reconnect redials with exponential backoff and resubscribes every live
// channel, fetching fresh grants for private ones.
func (c *WSClient) reconnect() {
	delay := reconnectBaseDelay
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		time.Sleep(delay)
		if delay *= 2; delay > reconnectMaxDelay {
			delay = reconnectMaxDelay
		}

		conn, _, err := websocket.DefaultDialer.Dial(c.url+"?socket_id="+c.socketID, nil)
		if err != nil {
			c.log.WithError(err).Debug("Redial failed")
			continue
		}

		c.mu.Lock()
		c.conn = conn
		channels := make([]string, 0, len(c.subs))
		for channel := range c.subs {
			channels = append(channels, channel)
		}
		c.mu.Unlock()

		ok := true
		for _, channel := range channels {
			if err := c.sendSubscribe(conn, channel); err != nil {
				c.log.WithError(err).WithField("channel", channel).Warn("Resubscribe failed")
				ok = false
				break
			}
		}
		if !ok {
			conn.Close()
			continue
		}

		c.log.Info("Reconnected")
		go c.readLoop(conn)
		return
	}
}

// wsSubscription implements Subscription over a WSClient.
type wsSubscription struct {
	client  *WSClient
	channel string

	mu       sync.Mutex
	handlers map[string][]Handler

	closeOnce sync.Once
}

func (s *wsSubscription) Bind(event string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[event] = append(s.handlers[event], h)
}

func (s *wsSubscription) Unbind(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handlers, event)
}

// Close drops this scope's handlers and detaches it. The channel itself is
// only unsubscribed when no other scope still holds it. Safe to call more
// than once; only the first call does anything.
func (s *wsSubscription) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.handlers = make(map[string][]Handler)
		s.mu.Unlock()

		if s.client.removeScope(s) {
			s.client.sendUnsubscribe(s.channel)
		}
	})
	return nil
}

func (s *wsSubscription) dispatch(event string, data json.RawMessage) {
	s.mu.Lock()
	handlers := append([]Handler(nil), s.handlers[event]...)
	s.mu.Unlock()
	for _, h := range handlers {
		h(data)
	}
}
