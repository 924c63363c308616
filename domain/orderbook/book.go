package orderbook

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hqpro/clobengine/price"
)

// OrderBook is the single-writer matching kernel for one instrument.
// It owns both PriceLevels ladders, the book-wide writer lock, and
// the quote bookkeeping table; every mutating method and every
// snapshot read takes that lock for its whole duration, so the
// matching loop never has to reason about concurrent readers.
type OrderBook struct {
	mu sync.Mutex

	instrument string
	bids       *PriceLevels
	asks       *PriceLevels
	quotes     map[quoteKey]*QuoteOrders
	listener   Listener
}

// NewOrderBook constructs an empty book for instrument, notifying
// listener of every order and trade event it produces thereafter.
func NewOrderBook(instrument string, listener Listener) *OrderBook {
	if listener == nil {
		listener = NopListener{}
	}
	return &OrderBook{
		instrument: instrument,
		bids:       newPriceLevels(Buy),
		asks:       newPriceLevels(Sell),
		quotes:     make(map[quoteKey]*QuoteOrders),
		listener:   listener,
	}
}

func (b *OrderBook) Instrument() string { return b.instrument }

func (b *OrderBook) ladder(side Side) *PriceLevels {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

// PlaceNewOrder runs alloc (which must allocate an exchangeId,
// construct the Order, and publish it into OrderMap) and then inserts
// the resulting order into this book, all under a single acquisition
// of the book's writer lock — this is what gives the engine's
// "allocate id, publish, insert" sequencing its linearisability for a
// single instrument.
func (b *OrderBook) PlaceNewOrder(alloc func() *Order) *Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	o := alloc()
	b.insertOrderLocked(o)
	return o
}

// insertOrderLocked requires the caller hold b.mu.
func (b *OrderBook) insertOrderLocked(o *Order) {
	if o == nil || o.Remaining.Sign() <= 0 {
		return
	}
	b.ladder(o.Side).insert(o)
	b.listener.OnOrder(o)
	b.matchOrdersLocked(o.Side)
}

// matchOrdersLocked requires the caller hold b.mu. aggressorSide is
// the side whose insertion or re-arm just triggered this pass.
func (b *OrderBook) matchOrdersLocked(aggressorSide Side) {
	for {
		bid := b.bids.front()
		ask := b.asks.front()
		if bid == nil || ask == nil {
			break
		}
		if bid.CurrentPrice.LessThan(ask.CurrentPrice) {
			break
		}

		qty := decimal.Min(bid.Remaining, ask.Remaining)

		var aggressor, passive *Order
		if aggressorSide == Buy {
			aggressor, passive = bid, ask
		} else {
			aggressor, passive = ask, bid
		}
		tradePrice := passive.CurrentPrice

		bid.fill(qty, tradePrice)
		ask.fill(qty, tradePrice)

		trade := &Trade{
			ExecID:    newExecID(),
			Price:     tradePrice,
			Quantity:  qty,
			Aggressor: aggressor,
			Passive:   passive,
		}

		if !bid.Active() {
			b.bids.remove(bid)
		}
		if !ask.Active() {
			b.asks.remove(ask)
		}

		b.listener.OnOrder(bid)
		b.listener.OnOrder(ask)
		b.listener.OnTrade(trade)
	}

	// A market order never rests: if the aggressor side's best order
	// is still a market order after the loop above gave up (either
	// ladder emptied or the spread no longer crosses), its residual
	// quantity is cancelled outright.
	ladder := b.ladder(aggressorSide)
	if residual := ladder.front(); residual != nil && residual.IsMarket() {
		ladder.remove(residual)
		residual.cancel()
		b.listener.OnOrder(residual)
	}
}

// Cancel removes order from its resting ladder and marks it
// terminal. Returns false without mutating state if order is nil or
// already not resting (already filled, already cancelled, or never
// inserted) — cancellation of an already-terminal order is a
// user-level failure, not a fatal one.
func (b *OrderBook) Cancel(o *Order) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if o == nil || !o.onList {
		return false
	}
	b.ladder(o.Side).remove(o)
	o.cancel()
	b.listener.OnOrder(o)
	return true
}

// GetQuotes looks up the QuoteOrders bucket for (sessionID, quoteID),
// calling factory to build a brand-new one (and its two underlying
// orders) the first time this pair is seen. factory typically also
// allocates exchangeIds and publishes the new orders into OrderMap;
// it runs under the book's lock so a concurrent quote on the same
// key can never race the first construction.
func (b *OrderBook) GetQuotes(sessionID, quoteID string, factory func() *QuoteOrders) *QuoteOrders {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.getQuotesLocked(sessionID, quoteID, factory)
}

func (b *OrderBook) getQuotesLocked(sessionID, quoteID string, factory func() *QuoteOrders) *QuoteOrders {
	key := quoteKey{sessionID, quoteID}
	if qo, ok := b.quotes[key]; ok {
		return qo
	}
	qo := factory()
	b.quotes[key] = qo
	return qo
}

// Quote atomically re-arms a two-sided quote: either side currently
// resting is pulled from its ladder; any side whose target quantity
// is non-zero is reset, re-inserted, and matched with itself as
// aggressor. A target quantity of zero leaves that side pulled.
func (b *OrderBook) Quote(sessionID, quoteID string, factory func() *QuoteOrders, bidPrice price.Price, bidQty decimal.Decimal, askPrice price.Price, askQty decimal.Decimal) *QuoteOrders {
	b.mu.Lock()
	defer b.mu.Unlock()

	qo := b.getQuotesLocked(sessionID, quoteID, factory)

	if qo.Bid != nil && qo.Bid.onList {
		b.bids.remove(qo.Bid)
	}
	if qo.Ask != nil && qo.Ask.onList {
		b.asks.remove(qo.Ask)
	}

	if bidQty.Sign() > 0 {
		qo.Bid.rearm(bidPrice, bidQty)
		b.bids.insert(qo.Bid)
		b.listener.OnOrder(qo.Bid)
		b.matchOrdersLocked(Buy)
	}
	if askQty.Sign() > 0 {
		qo.Ask.rearm(askPrice, askQty)
		b.asks.insert(qo.Ask)
		b.listener.OnOrder(qo.Ask)
		b.matchOrdersLocked(Sell)
	}

	return qo
}

// SnapshotOrder returns a consistent, read-only copy of o's current
// state, taken under this book's lock — the lock o rests under (or,
// if o is already terminal, last rested under).
func (b *OrderBook) SnapshotOrder(o *Order) OrderSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return o.Snapshot()
}

// Snapshot returns a consistent, read-only copy of this book.
func (b *OrderBook) Snapshot() BookSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := BookSnapshot{Instrument: b.instrument}
	b.bids.forEach(func(l *OrderList) {
		snap.Bids = append(snap.Bids, levelSnapshot(l))
	})
	b.asks.forEach(func(l *OrderList) {
		snap.Asks = append(snap.Asks, levelSnapshot(l))
	})
	return snap
}

func levelSnapshot(l *OrderList) PriceLevelSnapshot {
	total := decimal.Zero
	var ids []uint64
	l.iterate(func(o *Order) {
		total = total.Add(o.Remaining)
		ids = append(ids, o.ExchangeID)
	})
	return PriceLevelSnapshot{Price: l.price, TotalRemaining: total, ContributingIDs: ids}
}
