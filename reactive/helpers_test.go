package reactive

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	waitTimeout = 2 * time.Second
	quietPeriod = 50 * time.Millisecond
)

type eventKind int

const (
	eventNext eventKind = iota
	eventError
	eventComplete
)

type event[T any] struct {
	kind  eventKind
	value T
	err   error
}

// recorder is a Subscriber that forwards every signal to a channel.
type recorder[T any] struct {
	initial int64
	events  chan event[T]

	mu  sync.Mutex
	sub Subscription
}

func newRecorder[T any](initial int64) *recorder[T] {
	return &recorder[T]{initial: initial, events: make(chan event[T], 256)}
}

func (r *recorder[T]) OnSubscribe(s Subscription) {
	r.mu.Lock()
	r.sub = s
	r.mu.Unlock()
	if r.initial != 0 {
		s.Request(r.initial)
	}
}

func (r *recorder[T]) OnNext(v T)        { r.events <- event[T]{kind: eventNext, value: v} }
func (r *recorder[T]) OnError(err error) { r.events <- event[T]{kind: eventError, err: err} }
func (r *recorder[T]) OnComplete()       { r.events <- event[T]{kind: eventComplete} }

func (r *recorder[T]) subscription() Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sub
}

func (r *recorder[T]) next(t *testing.T) event[T] {
	t.Helper()
	select {
	case e := <-r.events:
		return e
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a signal")
		return event[T]{}
	}
}

func (r *recorder[T]) expectNext(t *testing.T, want T) {
	t.Helper()
	e := r.next(t)
	if e.kind != eventNext {
		t.Fatalf("signal = %v (err %v), want OnNext(%v)", e.kind, e.err, want)
	}
	require.Equal(t, want, e.value)
}

func (r *recorder[T]) expectComplete(t *testing.T) {
	t.Helper()
	if e := r.next(t); e.kind != eventComplete {
		t.Fatalf("signal = %v (value %v, err %v), want OnComplete", e.kind, e.value, e.err)
	}
}

func (r *recorder[T]) expectError(t *testing.T) error {
	t.Helper()
	e := r.next(t)
	if e.kind != eventError {
		t.Fatalf("signal = %v (value %v), want OnError", e.kind, e.value)
	}
	return e.err
}

func (r *recorder[T]) expectQuiet(t *testing.T) {
	t.Helper()
	select {
	case e := <-r.events:
		t.Fatalf("unexpected signal %v (value %v, err %v)", e.kind, e.value, e.err)
	case <-time.After(quietPeriod):
	}
}

// call is one invocation of a manual mapper.
type call struct {
	input   int
	promise *Promise[int]
}

// manualMapper returns futures the test settles by hand.
func manualMapper(calls chan<- call) MapFunc[int, int] {
	return func(n int) *Future[int] {
		p := NewPromise[int]()
		calls <- call{input: n, promise: p}
		return p.Future()
	}
}

func receiveCalls(t *testing.T, calls <-chan call, n int) []call {
	t.Helper()
	got := make([]call, 0, n)
	for range n {
		select {
		case c := <-calls:
			got = append(got, c)
		case <-time.After(waitTimeout):
			t.Fatalf("received %d mapper calls, want %d", len(got), n)
		}
	}
	return got
}

// spyPublisher counts the requests and cancellations its subscribers send.
type spyPublisher[T any] struct {
	Publisher[T]
	requested atomic.Int64
	cancels   atomic.Int32
}

func (p *spyPublisher[T]) Subscribe(sub Subscriber[T]) {
	p.Publisher.Subscribe(&spySubscriber[T]{Subscriber: sub, spy: p})
}

type spySubscriber[T any] struct {
	Subscriber[T]
	spy *spyPublisher[T]
}

func (s *spySubscriber[T]) OnSubscribe(sub Subscription) {
	s.Subscriber.OnSubscribe(&spySubscription[T]{Subscription: sub, spy: s.spy})
}

type spySubscription[T any] struct {
	Subscription
	spy *spyPublisher[T]
}

func (s *spySubscription[T]) Request(n int64) {
	s.spy.requested.Add(n)
	s.Subscription.Request(n)
}

func (s *spySubscription[T]) Cancel() {
	s.spy.cancels.Add(1)
	s.Subscription.Cancel()
}
