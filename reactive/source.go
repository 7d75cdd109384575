package reactive

import (
	"context"
	"sync"
	"sync/atomic"
)

// emitter is the subscription behind the built-in sources. A dedicated
// goroutine emits items as demand arrives, so Request never calls back into
// the subscriber.
type emitter[T any] struct {
	sub     Subscriber[T]
	demand  demandCounter
	invalid atomic.Bool
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newEmitter[T any](sub Subscriber[T]) *emitter[T] {
	return &emitter[T]{
		sub:  sub,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (e *emitter[T]) Request(n int64) {
	if n <= 0 {
		e.invalid.Store(true)
	} else {
		e.demand.add(n)
	}
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *emitter[T]) Cancel() {
	e.once.Do(func() { close(e.done) })
}

func (e *emitter[T]) cancelled() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// await blocks until one unit of demand is available. It returns false
// once the subscription is cancelled or has failed; failures have already
// been signalled.
func (e *emitter[T]) await(ctx context.Context) bool {
	for {
		if e.invalid.Load() {
			e.Cancel()
			e.sub.OnError(ErrInvalidDemand)
			return false
		}
		if e.cancelled() {
			return false
		}
		if e.demand.take() {
			return true
		}
		select {
		case <-e.wake:
		case <-e.done:
			return false
		case <-ctx.Done():
			e.Cancel()
			e.sub.OnError(ctx.Err())
			return false
		}
	}
}

type slicePublisher[T any] struct {
	items []T
}

// FromSlice publishes items in order, then completes. Every subscriber gets
// its own pass over the items.
func FromSlice[T any](items ...T) Publisher[T] {
	return &slicePublisher[T]{items: items}
}

func (p *slicePublisher[T]) Subscribe(sub Subscriber[T]) {
	e := newEmitter(sub)
	sub.OnSubscribe(e)
	go func() {
		for _, item := range p.items {
			if !e.await(context.Background()) {
				return
			}
			sub.OnNext(item)
		}
		if !e.cancelled() {
			e.Cancel()
			sub.OnComplete()
		}
	}()
}

type channelPublisher[T any] struct {
	ctx context.Context
	ch  <-chan T
}

// FromChannel publishes the values received from ch. It completes when ch
// is closed and fails with ctx.Err() when ctx ends first. The channel is
// meant for a single subscriber.
func FromChannel[T any](ctx context.Context, ch <-chan T) Publisher[T] {
	return &channelPublisher[T]{ctx: ctx, ch: ch}
}

func (p *channelPublisher[T]) Subscribe(sub Subscriber[T]) {
	e := newEmitter(sub)
	sub.OnSubscribe(e)
	go func() {
		for {
			if !e.await(p.ctx) {
				return
			}
			select {
			case v, ok := <-p.ch:
				if !ok {
					e.Cancel()
					sub.OnComplete()
					return
				}
				sub.OnNext(v)
			case <-e.done:
				return
			case <-p.ctx.Done():
				e.Cancel()
				sub.OnError(p.ctx.Err())
				return
			}
		}
	}()
}
