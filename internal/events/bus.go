// Package events carries data-change notifications from the store to the
// views that render derived data.
package events

import (
	"sync"
	"sync/atomic"

	"github.com/ramanasai/streak/internal/records"
)

type Op string

const (
	OpAdded   Op = "added"
	OpDeleted Op = "deleted"
)

// Change is published after a write has committed.
type Change struct {
	Kind    records.Kind
	Op      Op
	ID      string
	Version uint64
}

const subscriberBuffer = 16

// Bus is a small publish/subscribe hub. Publish never blocks: when a
// subscriber falls behind, its oldest pending change is dropped.
type Bus struct {
	mu      sync.Mutex
	subs    map[int]chan Change
	nextID  int
	version atomic.Uint64
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Change)}
}

// Subscribe returns a channel of changes and a cancel func that closes it.
func (b *Bus) Subscribe() (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Change, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish stamps c with the next data version and fans it out.
func (b *Bus) Publish(c Change) Change {
	c.Version = b.version.Add(1)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- c:
			default:
			}
		}
	}
	return c
}

// Version is the number of changes published so far.
func (b *Bus) Version() uint64 { return b.version.Load() }
