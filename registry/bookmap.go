// Package registry holds the engine's two process-wide, concurrently
// readable lookup structures: BookMap (instrument → OrderBook) and
// OrderMap (exchangeId → Order). Both publish fully-constructed
// values via compare-and-swap so readers never observe a partially
// built book or order.
package registry

import (
	"errors"
	"hash/fnv"
	"sync/atomic"

	"github.com/hqpro/clobengine/domain/orderbook"
)

// ErrCapacityExceeded is returned by GetOrCreate when every slot in
// the table is occupied by a different instrument.
var ErrCapacityExceeded = errors.New("registry: bookmap is at capacity")

// DefaultMaxInstruments is the default fixed upper bound for a
// BookMap's open-addressed table.
const DefaultMaxInstruments = 1024

type bookEntry struct {
	instrument string
	book       *orderbook.OrderBook
}

// BookMap is a fixed-capacity, open-addressed instrument→OrderBook
// table. Lookups are lock-free; inserts are lock-free with a
// compare-and-swap retry on collision with an in-flight publish.
// Once a slot is published, the book it holds is immutable for the
// life of the process.
type BookMap struct {
	slots []atomic.Pointer[bookEntry]
}

// NewBookMap constructs a BookMap with room for capacity distinct
// instruments.
func NewBookMap(capacity int) *BookMap {
	if capacity <= 0 {
		capacity = DefaultMaxInstruments
	}
	return &BookMap{slots: make([]atomic.Pointer[bookEntry], capacity)}
}

func (m *BookMap) bucket(instrument string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(instrument))
	return int(h.Sum32()) % len(m.slots)
}

// Get performs a lock-free, read-only lookup.
func (m *BookMap) Get(instrument string) (*orderbook.OrderBook, bool) {
	n := len(m.slots)
	start := m.bucket(instrument)
	for i := 0; i < n; i++ {
		e := m.slots[(start+i)%n].Load()
		if e == nil {
			return nil, false
		}
		if e.instrument == instrument {
			return e.book, true
		}
	}
	return nil, false
}

// GetOrCreate returns the existing book for instrument, or
// constructs and publishes a new one (notifying it via listener) if
// none exists yet. Repeated calls for the same instrument name always
// return the same *OrderBook.
func (m *BookMap) GetOrCreate(instrument string, listener orderbook.Listener) (*orderbook.OrderBook, error) {
	if book, ok := m.Get(instrument); ok {
		return book, nil
	}

	n := len(m.slots)
	start := m.bucket(instrument)
	for i := 0; i < n; i++ {
		slot := &m.slots[(start+i)%n]
		e := slot.Load()
		if e != nil {
			if e.instrument == instrument {
				return e.book, nil
			}
			continue
		}

		// Construct fully before publishing: readers must never see a
		// half-built book.
		candidate := &bookEntry{instrument: instrument, book: orderbook.NewOrderBook(instrument, listener)}
		if slot.CompareAndSwap(nil, candidate) {
			return candidate.book, nil
		}
		// Lost the race for this slot — re-check what won it before
		// moving on to the next probe position.
		if winner := slot.Load(); winner != nil && winner.instrument == instrument {
			return winner.book, nil
		}
	}
	return nil, ErrCapacityExceeded
}

// Instruments returns a snapshot of every instrument name currently
// published.
func (m *BookMap) Instruments() []string {
	var out []string
	for i := range m.slots {
		if e := m.slots[i].Load(); e != nil {
			out = append(out, e.instrument)
		}
	}
	return out
}
