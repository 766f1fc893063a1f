package port

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Unit is the payload of messages that carry no data.
type Unit struct{}

type Handler[T any] func(ctx context.Context, v T) error

// Subscription is the handle returned by Port.Subscribe.
type Subscription struct {
	ID     uuid.UUID
	Port   string
	cancel func()
	once   sync.Once
}

// Cancel detaches the handler. Messages already queued for it still run.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

type subscriber[T any] struct {
	id uuid.UUID
	h  Handler[T]
}

// Port is a named message pathway whose deliveries are scheduled on a Loop.
type Port[T any] struct {
	name string
	loop *Loop

	mu   sync.Mutex
	subs []subscriber[T]
}

func New[T any](loop *Loop, name string) *Port[T] {
	return &Port[T]{name: name, loop: loop}
}

func (p *Port[T]) Name() string {
	return p.name
}

func (p *Port[T]) Subscribe(h Handler[T]) *Subscription {
	id := uuid.New()
	p.mu.Lock()
	p.subs = append(p.subs, subscriber[T]{id: id, h: h})
	p.mu.Unlock()

	return &Subscription{
		ID:     id,
		Port:   p.name,
		cancel: func() { p.unsubscribe(id) },
	}
}

func (p *Port[T]) unsubscribe(id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.subs {
		if s.id == id {
			p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
			return
		}
	}
}

func (p *Port[T]) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Send queues v for every current subscriber. A port without subscribers
// drops the message.
func (p *Port[T]) Send(v T) error {
	p.mu.Lock()
	subs := make([]subscriber[T], len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	for _, s := range subs {
		h := s.h
		err := p.loop.enqueue(event{
			port: p.name,
			fn:   func(ctx context.Context) error { return h(ctx, v) },
		})
		if err != nil {
			return err
		}
	}
	return nil
}
