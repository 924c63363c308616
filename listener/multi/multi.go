// Package multi fans a single Listener callback out to several
// sub-listeners, so a caller can combine e.g. zaplog and kafka.
package multi

import "github.com/hqpro/clobengine/domain/orderbook"

// Listener dispatches every callback to each of its members in
// order, synchronously. Per the engine's listener contract, this
// call runs on the caller's goroutine while the book lock is held —
// each member must itself be cheap or internally asynchronous.
type Listener struct {
	members []orderbook.Listener
}

// New combines members into a single fan-out Listener.
func New(members ...orderbook.Listener) *Listener {
	return &Listener{members: members}
}

func (l *Listener) OnOrder(o *orderbook.Order) {
	for _, m := range l.members {
		m.OnOrder(o)
	}
}

func (l *Listener) OnTrade(t *orderbook.Trade) {
	for _, m := range l.members {
		m.OnTrade(t)
	}
}
