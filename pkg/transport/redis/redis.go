// Package redis exposes an application's storage ports as Redis pub/sub
// channels so that other processes can save and load the document.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/retail-ai-inc/storagebridge/pkg/port"
	"github.com/sirupsen/logrus"
)

type RedisTransport struct {
	client *goredis.Client
	prefix string
	app    *port.App
	logger *logrus.Logger
}

func NewRedisTransport(client *goredis.Client, prefix string, app *port.App, logger *logrus.Logger) *RedisTransport {
	return &RedisTransport{
		client: client,
		prefix: prefix,
		app:    app,
		logger: logger,
	}
}

// Channel returns the Redis channel bound to the named port.
func (r *RedisTransport) Channel(portName string) string {
	return r.prefix + portName
}

// inboundChannels lists the channels whose messages are fed into ports.
func (r *RedisTransport) inboundChannels() []string {
	var channels []string
	if r.app.SaveToStorage != nil {
		channels = append(channels, r.Channel(r.app.SaveToStorage.Name()))
	}
	if r.app.LoadFromStorage != nil {
		channels = append(channels, r.Channel(r.app.LoadFromStorage.Name()))
	}
	return channels
}

// Run relays messages until ctx is done or the subscription closes.
func (r *RedisTransport) Run(ctx context.Context) error {
	if r.app.LoadedFromStorage != nil {
		channel := r.Channel(r.app.LoadedFromStorage.Name())
		sub := r.app.LoadedFromStorage.Subscribe(func(ctx context.Context, v string) error {
			return r.client.Publish(ctx, channel, v).Err()
		})
		defer sub.Cancel()
		r.logger.Infof("[Redis] Publishing load responses to channel=%s", channel)
	}

	channels := r.inboundChannels()
	if len(channels) == 0 {
		r.logger.Warn("[Redis] No inbound ports to subscribe to.")
		<-ctx.Done()
		return nil
	}

	pubsub := r.client.Subscribe(ctx, channels...)
	defer pubsub.Close()
	// Wait for the subscription confirmation so messages published after Run
	// starts are not missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe to %v: %w", channels, err)
	}
	r.logger.Infof("[Redis] Subscribed to channels=%v", channels)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("[Redis] Transport shutting down.")
			return nil
		case msg, ok := <-ch:
			if !ok {
				r.logger.Warn("[Redis] Subscription channel closed unexpectedly.")
				return nil
			}
			if err := r.route(msg); err != nil {
				r.logger.Errorf("[Redis] Failed to relay message from channel=%s: %v", msg.Channel, err)
			}
		}
	}
}

func (r *RedisTransport) route(msg *goredis.Message) error {
	switch {
	case r.app.SaveToStorage != nil && msg.Channel == r.Channel(r.app.SaveToStorage.Name()):
		r.logger.Debugf("[Redis] Save message on channel=%s length=%d", msg.Channel, len(msg.Payload))
		return r.app.SaveToStorage.Send(msg.Payload)
	case r.app.LoadFromStorage != nil && msg.Channel == r.Channel(r.app.LoadFromStorage.Name()):
		r.logger.Debugf("[Redis] Load request on channel=%s", msg.Channel)
		return r.app.LoadFromStorage.Send(port.Unit{})
	default:
		return fmt.Errorf("no port bound to channel %s", msg.Channel)
	}
}
