package orderbook

// Listener is the engine's only notification sink: two points only,
// any order-state change visible to the outside world, and every
// trade execution.
//
// Both methods are invoked synchronously on the caller's goroutine
// while the owning OrderBook's writer lock is held. Implementations
// must not call back into the Exchange or any OrderBook from within
// onOrder/onTrade — doing so on the same goroutine deadlocks against
// the very lock the callback is running under. Long-running work
// should be handed off to a queue the listener manages itself.
type Listener interface {
	OnOrder(o *Order)
	OnTrade(t *Trade)
}

// NopListener discards every event; useful as a default when the
// caller has not wired a real sink.
type NopListener struct{}

func (NopListener) OnOrder(*Order) {}
func (NopListener) OnTrade(*Trade) {}
