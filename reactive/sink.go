package reactive

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
)

type sink[T any] struct {
	initial int64
	refill  int64
	next    func(T) error

	mu  sync.Mutex
	sub Subscription
	// calling is held while next runs, so wait can outlast a running call.
	calling sync.Mutex
	stopped atomic.Bool
	once    sync.Once
	done    chan struct{}
	err     error
}

func newSink[T any](initial, refill int64, next func(T) error) *sink[T] {
	return &sink[T]{initial: initial, refill: refill, next: next, done: make(chan struct{})}
}

func (s *sink[T]) OnSubscribe(sub Subscription) {
	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	sub.Request(s.initial)
}

func (s *sink[T]) OnNext(v T) {
	s.calling.Lock()
	if s.stopped.Load() {
		s.calling.Unlock()
		return
	}
	err := s.next(v)
	s.calling.Unlock()
	if err != nil {
		s.cancel()
		s.finish(err)
		return
	}
	if s.refill > 0 {
		s.subscription().Request(s.refill)
	}
}

func (s *sink[T]) OnError(err error) {
	s.finish(err)
}

func (s *sink[T]) OnComplete() {
	s.finish(nil)
}

func (s *sink[T]) subscription() Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub
}

func (s *sink[T]) cancel() {
	s.stopped.Store(true)
	if sub := s.subscription(); sub != nil {
		sub.Cancel()
	}
}

func (s *sink[T]) finish(err error) {
	s.once.Do(func() {
		s.err = err
		close(s.done)
	})
}

func (s *sink[T]) wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		s.cancel()
		s.calling.Lock()
		s.calling.Unlock()
		return ctx.Err()
	}
}

// Collect subscribes to p with unbounded demand and returns every item it
// publishes, or the error that terminated it.
func Collect[T any](ctx context.Context, p Publisher[T]) ([]T, error) {
	var items []T
	s := newSink(math.MaxInt64, 0, func(v T) error {
		items = append(items, v)
		return nil
	})
	p.Subscribe(s)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return items, nil
}

// ForEach subscribes to p and calls fn for every item, requesting one item
// at a time. An error from fn cancels the subscription and is returned.
func ForEach[T any](ctx context.Context, p Publisher[T], fn func(T) error) error {
	return ForEachWindow(ctx, p, 1, fn)
}

// ForEachWindow is ForEach with up to window items requested ahead of fn.
// Each item fn consumes is replaced by a new request, so a mapping
// publisher upstream keeps window transforms in flight.
//
// fn may run on a publisher goroutine. ForEachWindow does not return while a
// call to fn is running, and fn is not called after it returns.
func ForEachWindow[T any](ctx context.Context, p Publisher[T], window int64, fn func(T) error) error {
	s := newSink(max(1, window), 1, fn)
	p.Subscribe(s)
	return s.wait(ctx)
}
