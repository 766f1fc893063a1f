// Package bridge connects an application's storage ports to a durable
// key-value medium.
//
// The application declares up to three ports: a save port carrying the
// document to persist, a load-request port with no payload, and a
// load-response port on which the stored document is sent back. The bridge
// keeps no state of its own; the document lives in the medium under one
// fixed key.
package bridge

import (
	"context"
	"errors"

	"github.com/retail-ai-inc/storagebridge/pkg/port"
	"github.com/retail-ai-inc/storagebridge/pkg/state"
	"github.com/sirupsen/logrus"
)

// DefaultKey is the key the document is stored under.
const DefaultKey = "storage"

// ErrNoResponsePort is returned by a load request when the application
// declares a load-request port but no load-response port.
var ErrNoResponsePort = errors.New("bridge: application has no load response port")

// Host is the application handle passed to Init. Ports returns nil when the
// application exposes no ports at all.
type Host interface {
	Ports() *port.App
}

type StorageBridge struct {
	store  state.StateStore
	key    string
	logger *logrus.Logger

	response *port.Port[string]
	subs     []*port.Subscription
}

type Option func(*StorageBridge)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(b *StorageBridge) {
		if key != "" {
			b.key = key
		}
	}
}

func New(store state.StateStore, logger *logrus.Logger, opts ...Option) *StorageBridge {
	b := &StorageBridge{
		store:  store,
		key:    DefaultKey,
		logger: logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *StorageBridge) Key() string {
	return b.key
}

// Init subscribes to whichever of the save and load-request ports the host
// exposes. Missing ports are skipped. Wiring is complete when Init returns.
func (b *StorageBridge) Init(ctx context.Context, host Host) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var app *port.App
	if host != nil {
		app = host.Ports()
	}
	if app == nil {
		b.logger.Warn("[Bridge] Application exposes no ports, nothing to wire.")
		return nil
	}

	if app.SaveToStorage != nil {
		b.subs = append(b.subs, app.SaveToStorage.Subscribe(b.OnSave))
		b.logger.WithField("port", app.SaveToStorage.Name()).Info("[Bridge] Subscribed to save port")
	}
	if app.LoadFromStorage != nil {
		b.response = app.LoadedFromStorage
		b.subs = append(b.subs, app.LoadFromStorage.Subscribe(b.OnLoadRequest))
		b.logger.WithField("port", app.LoadFromStorage.Name()).Info("[Bridge] Subscribed to load request port")
		if b.response == nil {
			b.logger.Warn("[Bridge] Load request port has no matching response port; load requests will fail.")
		}
	}
	return nil
}

// OnSave replaces the stored document with value. Storage errors are
// returned as is.
func (b *StorageBridge) OnSave(ctx context.Context, value string) error {
	return b.store.Set(ctx, b.key, value)
}

// OnLoadRequest sends the stored document, or "" when none has been saved,
// on the load-response port. Responses carry no request correlation.
func (b *StorageBridge) OnLoadRequest(ctx context.Context, _ port.Unit) error {
	if b.response == nil {
		return ErrNoResponsePort
	}
	value, ok, err := b.store.Get(ctx, b.key)
	if err != nil {
		return err
	}
	if !ok {
		value = ""
	}
	return b.response.Send(value)
}

// Close removes the subscriptions made by Init. The medium is left open.
func (b *StorageBridge) Close() {
	for _, s := range b.subs {
		s.Cancel()
	}
	b.subs = nil
	b.response = nil
}
