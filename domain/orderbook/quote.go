package orderbook

// QuoteOrders is a pair of optional resting orders identified by
// (sessionId, quoteId) — a named, re-armable two-sided quote. The
// factory passed to OrderBook.Quote builds both orders up front;
// Quote re-arms a side in place and never creates one, so a nil side
// with a non-zero target quantity panics.
type QuoteOrders struct {
	SessionID string
	QuoteID   string
	Bid       *Order
	Ask       *Order
}

type quoteKey struct {
	sessionID string
	quoteID   string
}
