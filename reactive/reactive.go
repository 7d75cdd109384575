// Package reactive implements the push/pull publisher protocol used to
// deliver results incrementally, along with the futures and executors that
// feed it.
//
// The protocol follows reactive streams: a Subscriber receives OnSubscribe,
// then at most as many OnNext signals as it has requested, then exactly one
// of OnError or OnComplete. Signals to one subscriber never overlap.
package reactive

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("gqlfront.reactive")

// ErrInvalidDemand is signalled when a subscriber requests zero or fewer
// items.
var ErrInvalidDemand = errors.New("reactive: request must be positive")

type Publisher[T any] interface {
	Subscribe(Subscriber[T])
}

type Subscriber[T any] interface {
	OnSubscribe(Subscription)
	OnNext(T)
	OnError(error)
	OnComplete()
}

type Subscription interface {
	// Request adds n to the outstanding demand. Demand saturates at
	// math.MaxInt64, which means unbounded.
	Request(n int64)
	Cancel()
}

func addDemand(current, n int64) int64 {
	sum := current + n
	if sum < current {
		return math.MaxInt64
	}
	return sum
}

// demandCounter is a saturating counter shared between goroutines.
type demandCounter struct {
	n atomic.Int64
}

func (d *demandCounter) add(n int64) {
	for {
		old := d.n.Load()
		if d.n.CompareAndSwap(old, addDemand(old, n)) {
			return
		}
	}
}

// take consumes one unit of demand if there is any.
func (d *demandCounter) take() bool {
	for {
		old := d.n.Load()
		if old <= 0 {
			return false
		}
		if d.n.CompareAndSwap(old, old-1) {
			return true
		}
	}
}
