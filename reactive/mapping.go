package reactive

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// MapFunc transforms one upstream item into the future of a downstream item.
type MapFunc[U, D any] func(U) *Future[D]

// MappingPublisher applies an asynchronous transform to every item of an
// upstream publisher.
//
// The unordered variant emits results as their futures settle. The ordered
// variant emits them in upstream order, holding early results back until
// everything before them has been emitted. Either way the first failed
// transform cancels the upstream and terminates the stream with its error;
// results that settle afterwards are dropped.
//
// An upstream error is delivered once no transform is in flight. The
// unordered variant then delivers it without waiting for demand, dropping
// results held back for lack of it. The ordered variant delivers it in
// upstream position, after every result ahead of it.
//
// The ordered variant buffers every in-flight item, so memory grows with the
// number of items requested but not yet emitted.
type MappingPublisher[U, D any] struct {
	upstream Publisher[U]
	mapper   MapFunc[U, D]
	ordered  bool
}

func NewMappingPublisher[U, D any](upstream Publisher[U], mapper MapFunc[U, D]) *MappingPublisher[U, D] {
	return &MappingPublisher[U, D]{upstream: upstream, mapper: mapper}
}

func NewOrderedMappingPublisher[U, D any](upstream Publisher[U], mapper MapFunc[U, D]) *MappingPublisher[U, D] {
	return &MappingPublisher[U, D]{upstream: upstream, mapper: mapper, ordered: true}
}

// Ordered reports whether results are emitted in upstream order.
func (p *MappingPublisher[U, D]) Ordered() bool {
	return p.ordered
}

func (p *MappingPublisher[U, D]) Subscribe(sub Subscriber[D]) {
	p.upstream.Subscribe(&mapping[U, D]{
		downstream: sub,
		mapper:     p.mapper,
		ordered:    p.ordered,
	})
}

type entryState int

const (
	entryPending entryState = iota
	entryOK
	entryFailed
)

type entry[D any] struct {
	state entryState
	value D
	err   error
	// upstream marks the error as coming from the upstream itself, which
	// has already terminated and must not be cancelled.
	upstream bool
}

// mapping subscribes to the upstream and serves as the downstream's
// subscription.
type mapping[U, D any] struct {
	downstream Subscriber[D]
	mapper     MapFunc[U, D]
	ordered    bool

	cancelOnce sync.Once
	draining   atomic.Bool

	mu            sync.Mutex
	upstream      Subscription
	queue         []*entry[D]
	demand        int64
	inFlight      int
	upstreamDone  bool
	upstreamErr   error
	invalidDemand bool
	terminated    bool
}

func (m *mapping[U, D]) OnSubscribe(s Subscription) {
	m.mu.Lock()
	m.upstream = s
	m.mu.Unlock()
	m.downstream.OnSubscribe(m)
}

func (m *mapping[U, D]) OnNext(item U) {
	m.mu.Lock()
	if m.terminated {
		m.mu.Unlock()
		return
	}
	var e *entry[D]
	if m.ordered {
		e = &entry[D]{}
		m.queue = append(m.queue, e)
	}
	m.inFlight++
	m.mu.Unlock()

	m.apply(item).OnComplete(func(v D, err error) {
		m.settle(e, v, err)
	})
}

func (m *mapping[U, D]) OnError(err error) {
	m.mu.Lock()
	if m.terminated {
		m.mu.Unlock()
		return
	}
	m.upstreamDone = true
	if m.ordered {
		m.queue = append(m.queue, &entry[D]{state: entryFailed, err: err, upstream: true})
	} else {
		m.upstreamErr = err
	}
	m.mu.Unlock()
	m.drain()
}

func (m *mapping[U, D]) OnComplete() {
	m.mu.Lock()
	m.upstreamDone = true
	m.mu.Unlock()
	m.drain()
}

func (m *mapping[U, D]) Request(n int64) {
	m.mu.Lock()
	if m.terminated {
		m.mu.Unlock()
		return
	}
	if n <= 0 {
		m.invalidDemand = true
		m.mu.Unlock()
		m.drain()
		return
	}
	m.demand = addDemand(m.demand, n)
	up := m.upstream
	m.mu.Unlock()

	up.Request(n)
	m.drain()
}

func (m *mapping[U, D]) Cancel() {
	m.mu.Lock()
	if m.terminated {
		m.mu.Unlock()
		return
	}
	m.terminate()
	m.mu.Unlock()
	log.Debug("mapping subscription cancelled")
	m.cancelUpstream()
}

// apply runs the mapper, turning a panic or a nil future into a failed one.
func (m *mapping[U, D]) apply(item U) (f *Future[D]) {
	defer func() {
		if r := recover(); r != nil {
			f = Failed[D](fmt.Errorf("reactive: mapper panicked: %v", r))
		}
	}()
	f = m.mapper(item)
	if f == nil {
		f = Failed[D](errors.New("reactive: mapper returned a nil future"))
	}
	return f
}

func (m *mapping[U, D]) settle(e *entry[D], v D, err error) {
	m.mu.Lock()
	m.inFlight--
	if m.terminated {
		m.mu.Unlock()
		return
	}
	if e == nil {
		e = &entry[D]{}
		if err != nil {
			// Emitted ahead of anything still waiting for demand.
			m.queue = []*entry[D]{e}
		} else {
			m.queue = append(m.queue, e)
		}
	}
	if err != nil {
		e.state, e.err = entryFailed, err
	} else {
		e.state, e.value = entryOK, v
	}
	m.mu.Unlock()
	m.drain()
}

// drain emits whatever can be emitted. Only one goroutine drains at a time;
// the others leave their work to it. The check after releasing ownership
// picks up work that arrived while the owner was finishing.
func (m *mapping[U, D]) drain() {
	for {
		if !m.draining.CompareAndSwap(false, true) {
			return
		}
		m.drainLoop()
		m.draining.Store(false)
		if !m.hasWork() {
			return
		}
	}
}

func (m *mapping[U, D]) drainLoop() {
	for {
		m.mu.Lock()
		if m.terminated {
			m.mu.Unlock()
			return
		}
		if m.invalidDemand {
			m.terminate()
			m.mu.Unlock()
			m.cancelUpstream()
			m.downstream.OnError(ErrInvalidDemand)
			return
		}
		if len(m.queue) > 0 {
			head := m.queue[0]
			switch {
			case head.state == entryFailed:
				m.terminate()
				m.mu.Unlock()
				if !head.upstream {
					m.cancelUpstream()
				}
				m.downstream.OnError(head.err)
				return
			case head.state == entryOK && m.demand > 0:
				m.queue[0] = nil
				m.queue = m.queue[1:]
				if m.demand != math.MaxInt64 {
					m.demand--
				}
				m.mu.Unlock()
				m.downstream.OnNext(head.value)
				continue
			}
		}
		if m.upstreamErr != nil && m.inFlight == 0 {
			err := m.upstreamErr
			m.terminate()
			m.mu.Unlock()
			m.downstream.OnError(err)
			return
		}
		if len(m.queue) == 0 && m.upstreamDone && m.inFlight == 0 {
			m.terminate()
			m.mu.Unlock()
			m.downstream.OnComplete()
			return
		}
		m.mu.Unlock()
		return
	}
}

func (m *mapping[U, D]) hasWork() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.terminated:
		return false
	case m.invalidDemand:
		return true
	case m.upstreamErr != nil && m.inFlight == 0:
		return true
	case len(m.queue) > 0:
		head := m.queue[0]
		return head.state == entryFailed || (head.state == entryOK && m.demand > 0)
	default:
		return m.upstreamDone && m.inFlight == 0
	}
}

// terminate must be called with mu held.
func (m *mapping[U, D]) terminate() {
	m.terminated = true
	m.queue = nil
}

func (m *mapping[U, D]) cancelUpstream() {
	m.cancelOnce.Do(func() {
		m.mu.Lock()
		up := m.upstream
		m.mu.Unlock()
		if up != nil {
			up.Cancel()
		}
	})
}
