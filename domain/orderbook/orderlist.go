package orderbook

import "github.com/hqpro/clobengine/price"

// OrderList is a FIFO queue of resting orders at one price. Each
// order carries its own handle (next/prev/list), attached once at
// push_back and detached on remove, so cancellation never needs to
// search the level.
type OrderList struct {
	price price.Price
	head  *Order
	tail  *Order
	count int
}

func newOrderList(p price.Price) *OrderList {
	return &OrderList{price: p}
}

func (l *OrderList) empty() bool {
	return l.head == nil
}

func (l *OrderList) front() *Order {
	return l.head
}

// pushBack appends order to the tail and attaches its handle.
// Precondition: order is not currently resting on any list.
func (l *OrderList) pushBack(o *Order) {
	if o.onList {
		panic("orderbook: order is already resting on a list")
	}
	o.list = l
	o.prev = l.tail
	o.next = nil
	if l.tail != nil {
		l.tail.next = o
	} else {
		l.head = o
	}
	l.tail = o
	o.onList = true
	l.count++
}

// remove detaches order from the list in O(1) using its handle.
// Fatal if the handle is not live on this list — that is a book
// invariant breach, not a user-level failure.
func (l *OrderList) remove(o *Order) {
	if !o.onList || o.list != l {
		panic("orderbook: remove of an order whose handle is not live on this list")
	}
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next, o.prev, o.list = nil, nil, nil
	o.onList = false
	l.count--
}

// iterate walks the level head-to-tail, in submission order.
func (l *OrderList) iterate(fn func(*Order)) {
	for o := l.head; o != nil; o = o.next {
		fn(o)
	}
}
