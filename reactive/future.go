package reactive

import (
	"context"
	"fmt"
	"sync"
)

// Future is the eventual result of an asynchronous computation. It settles
// exactly once, with a value or with an error.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	settled   bool
	value     T
	err       error
	callbacks []func(T, error)
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Promise is the write side of a Future.
type Promise[T any] struct {
	future *Future[T]
}

func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{future: newFuture[T]()}
}

func (p *Promise[T]) Future() *Future[T] {
	return p.future
}

// Resolve settles the future with v. It reports false if the future was
// already settled.
func (p *Promise[T]) Resolve(v T) bool {
	return p.future.complete(v, nil)
}

// Reject settles the future with err. It reports false if the future was
// already settled.
func (p *Promise[T]) Reject(err error) bool {
	var zero T
	return p.future.complete(zero, err)
}

// Completed returns a future that already holds v.
func Completed[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.complete(v, nil)
	return f
}

// Failed returns a future that already holds err.
func Failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.complete(zero, err)
	return f
}

// Async runs fn on exec and returns its eventual result. A panic in fn
// settles the future with an error.
func Async[T any](exec Executor, fn func() (T, error)) *Future[T] {
	p := NewPromise[T]()
	exec.Execute(func() {
		defer func() {
			if r := recover(); r != nil {
				p.Reject(fmt.Errorf("reactive: task panicked: %v", r))
			}
		}()
		v, err := fn()
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(v)
	})
	return p.Future()
}

func (f *Future[T]) complete(v T, err error) bool {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return false
	}
	f.settled = true
	f.value, f.err = v, err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(v, err)
	}
	return true
}

// OnComplete registers fn to run once the future settles. If it already has,
// fn runs immediately on the calling goroutine; otherwise it runs on the
// goroutine that settles the future.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	f.mu.Lock()
	if !f.settled {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	fn(v, err)
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx ends.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
