package port

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrLoopClosed is returned by Send once the loop has stopped running.
var ErrLoopClosed = errors.New("port: event loop closed")

// ErrorHandler receives every error returned by a port handler.
type ErrorHandler func(port string, err error)

type event struct {
	port string
	fn   func(ctx context.Context) error
}

// Loop dispatches port messages one at a time, in the order they were sent.
// Each handler runs to completion before the next message is taken.
type Loop struct {
	logger  *logrus.Logger
	onError ErrorHandler

	mu     sync.Mutex
	queue  []event
	closed bool
	wake   chan struct{}
}

type Option func(*Loop)

// WithErrorHandler replaces the default handler, which logs the error.
func WithErrorHandler(h ErrorHandler) Option {
	return func(l *Loop) {
		l.onError = h
	}
}

func NewLoop(logger *logrus.Logger, opts ...Option) *Loop {
	l := &Loop{
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
	l.onError = l.logError
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loop) logError(port string, err error) {
	l.logger.WithError(err).WithField("port", port).Error("[Loop] Port handler failed")
}

func (l *Loop) enqueue(ev event) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.queue = append(l.queue, ev)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

func (l *Loop) next() (event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return event{}, false
	}
	ev := l.queue[0]
	l.queue[0] = event{}
	l.queue = l.queue[1:]
	return ev, true
}

// Pending reports the number of queued messages.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) dispatch(ctx context.Context, ev event) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("handler panic: %v", r)
			}
		}()
		return ev.fn(ctx)
	}()
	if err != nil {
		l.onError(ev.port, err)
	}
}

// Drain runs queued messages, including those queued by the handlers it
// runs, until the queue is empty. It must not be called while Run is active.
func (l *Loop) Drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, ok := l.next()
		if !ok {
			return nil
		}
		l.dispatch(ctx, ev)
	}
}

// Run dispatches messages until ctx is done. Messages still queued at that
// point are dropped and later sends fail with ErrLoopClosed.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("[Loop] Event loop started.")
	defer func() {
		l.mu.Lock()
		l.closed = true
		dropped := len(l.queue)
		l.queue = nil
		l.mu.Unlock()
		l.logger.WithField("dropped", dropped).Info("[Loop] Event loop stopped.")
	}()

	for {
		if err := l.Drain(ctx); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
	}
}
