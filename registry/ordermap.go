package registry

import "sync/atomic"

// DefaultOrderMapBuckets is the default bucket count for an OrderMap.
const DefaultOrderMapBuckets = 1 << 16

// orderRef is anything that carries a process-wide, immutable
// exchangeId. domain/orderbook.Order satisfies this; kept as a small
// interface here (rather than importing *orderbook.Order directly)
// so the map stays reusable for anything with the same identity
// shape, matching the spec's description of OrderMap as a generic
// exchange-id→Order association.
type orderRef interface {
	GetExchangeID() uint64
}

type orderNode[T orderRef] struct {
	value T
	next  atomic.Pointer[orderNode[T]]
}

// OrderMap is a concurrent, append-only exchangeId→T map. It never
// removes an entry: cancelled and filled orders stay queryable by id
// for the life of the process. Buckets are singly-linked lists with
// CAS-prepend at the head, so readers never observe a torn node.
type OrderMap[T orderRef] struct {
	buckets []atomic.Pointer[orderNode[T]]
}

// NewOrderMap constructs an OrderMap with the given fixed bucket
// count.
func NewOrderMap[T orderRef](buckets int) *OrderMap[T] {
	if buckets <= 0 {
		buckets = DefaultOrderMapBuckets
	}
	return &OrderMap[T]{buckets: make([]atomic.Pointer[orderNode[T]], buckets)}
}

// Add publishes value, visible to concurrent readers from the point
// this call returns. Duplicate exchangeIds are a programmer error,
// not detected here.
func (m *OrderMap[T]) Add(value T) {
	head := &m.buckets[value.GetExchangeID()%uint64(len(m.buckets))]
	node := &orderNode[T]{value: value}
	for {
		old := head.Load()
		node.next.Store(old)
		if head.CompareAndSwap(old, node) {
			return
		}
	}
}

// Get walks the target bucket and returns the first entry whose id
// matches, or the zero value and false.
func (m *OrderMap[T]) Get(exchangeID uint64) (T, bool) {
	var zero T
	head := &m.buckets[exchangeID%uint64(len(m.buckets))]
	for n := head.Load(); n != nil; n = n.next.Load() {
		if n.value.GetExchangeID() == exchangeID {
			return n.value, true
		}
	}
	return zero, false
}

// All walks every bucket and returns every entry; debug/introspection
// use only, not on any hot path.
func (m *OrderMap[T]) All() []T {
	var out []T
	for i := range m.buckets {
		for n := m.buckets[i].Load(); n != nil; n = n.next.Load() {
			out = append(out, n.value)
		}
	}
	return out
}
