// Package realtime is the channel service: named channels carrying named
// events, published through Redis and fanned out to WebSocket subscribers.
// Delivery reaches currently-connected subscribers only; there is no offline
// queue. Within one channel a given subscriber sees events in publish order;
// across channels nothing is guaranteed.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	channelPrefix  = "rt:"
	channelPattern = channelPrefix + "*"
)

// Envelope is the wire frame for every event: the channel it belongs to, the
// event name and the raw payload.
type Envelope struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Broker is the publish side of the channel service.
type Broker struct {
	rdb *redis.Client
	log *logrus.Logger
}

// NewBroker wraps a Redis client.
func NewBroker(rdb *redis.Client, log *logrus.Logger) *Broker {
	return &Broker{rdb: rdb, log: log}
}

// Trigger publishes an event on a named channel.
func (b *Broker) Trigger(ctx context.Context, channel, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(Envelope{Channel: channel, Event: event, Data: data})
	if err != nil {
		return err
	}

	if err := b.rdb.Publish(ctx, channelPrefix+channel, raw).Err(); err != nil {
		return err
	}

	b.log.WithFields(logrus.Fields{
		"channel": channel,
		"event":   event,
	}).Debug("Event published")
	return nil
}
