// Package exchange provides the engine's single public entry point:
// Exchange is the only place that allocates exchangeIds, routes
// operations to the right instrument's OrderBook, and publishes
// orders into the process-wide OrderMap before they can match.
package exchange

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hqpro/clobengine/domain/orderbook"
	"github.com/hqpro/clobengine/idgen"
	"github.com/hqpro/clobengine/price"
	"github.com/hqpro/clobengine/registry"
)

// Config wires the fixed capacities of the engine's two lookup
// structures. Built as a literal struct and passed to New — no config
// file, no env var parsing, matching how the rest of this module is
// wired.
type Config struct {
	MaxInstruments  int
	OrderMapBuckets int
}

// Exchange is the engine's only write entry point.
type Exchange struct {
	books    *registry.BookMap
	orders   *registry.OrderMap[*orderbook.Order]
	ids      *idgen.Sequencer
	listener orderbook.Listener
}

// New constructs an Exchange. listener is shared across every book
// the exchange ever creates; a nil listener discards every event.
func New(cfg Config, listener orderbook.Listener) *Exchange {
	if listener == nil {
		listener = orderbook.NopListener{}
	}
	return &Exchange{
		books:    registry.NewBookMap(cfg.MaxInstruments),
		orders:   registry.NewOrderMap[*orderbook.Order](cfg.OrderMapBuckets),
		ids:      idgen.New(),
		listener: listener,
	}
}

// submit runs the engine's common submit sequence: locate-or-create
// the book, then — all under that book's writer lock — allocate an
// id, build the order, publish it into OrderMap, and insert it.
func (e *Exchange) submit(instrument string, build func(exchangeID uint64) *orderbook.Order) (uint64, bool) {
	if instrument == "" {
		return 0, false
	}
	book, err := e.books.GetOrCreate(instrument, e.listener)
	if err != nil {
		return 0, false
	}
	placed := book.PlaceNewOrder(func() *orderbook.Order {
		o := build(e.ids.Next())
		e.orders.Add(o)
		return o
	})
	return placed.ExchangeID, true
}

// SubmitLimit routes a limit order. orderID is the caller's own
// opaque identifier, carried through for later correlation; it may
// be empty.
func (e *Exchange) SubmitLimit(sessionID, instrument string, side orderbook.Side, p price.Price, qty decimal.Decimal, orderID string) (uint64, bool) {
	if qty.Sign() <= 0 {
		return 0, false
	}
	return e.submit(instrument, func(exchangeID uint64) *orderbook.Order {
		return orderbook.NewLimitOrder(sessionID, orderID, instrument, side, exchangeID, p, qty, time.Now())
	})
}

// SubmitMarket routes a market order.
func (e *Exchange) SubmitMarket(sessionID, instrument string, side orderbook.Side, qty decimal.Decimal, orderID string) (uint64, bool) {
	if qty.Sign() <= 0 {
		return 0, false
	}
	return e.submit(instrument, func(exchangeID uint64) *orderbook.Order {
		return orderbook.NewMarketOrder(sessionID, orderID, instrument, side, exchangeID, qty, time.Now())
	})
}

// Quote re-arms a two-sided quote identified by (sessionID, quoteId),
// creating its underlying order pair the first time this pair is
// seen. Returns false only when instrument is invalid or the BookMap
// is at capacity.
func (e *Exchange) Quote(sessionID, instrument, quoteID string, bidPrice price.Price, bidQty decimal.Decimal, askPrice price.Price, askQty decimal.Decimal) bool {
	if instrument == "" {
		return false
	}
	book, err := e.books.GetOrCreate(instrument, e.listener)
	if err != nil {
		return false
	}
	factory := func() *orderbook.QuoteOrders {
		bid := orderbook.NewLimitOrder(sessionID, "", instrument, orderbook.Buy, e.ids.Next(), price.Zero, decimal.Zero, time.Now())
		ask := orderbook.NewLimitOrder(sessionID, "", instrument, orderbook.Sell, e.ids.Next(), price.Zero, decimal.Zero, time.Now())
		e.orders.Add(bid)
		e.orders.Add(ask)
		return &orderbook.QuoteOrders{SessionID: sessionID, QuoteID: quoteID, Bid: bid, Ask: ask}
	}
	book.Quote(sessionID, quoteID, factory, bidPrice, bidQty, askPrice, askQty)
	return true
}

// Cancel locates order by id, validates session ownership, and routes
// the cancel to its book. Returns false — without touching the book —
// if the id is unknown, the session doesn't match, or the order is
// already terminal.
func (e *Exchange) Cancel(exchangeID uint64, sessionID string) bool {
	o, ok := e.orders.Get(exchangeID)
	if !ok || o.SessionID != sessionID {
		return false
	}
	book, ok := e.books.Get(o.Instrument)
	if !ok {
		return false
	}
	return book.Cancel(o)
}

// GetOrder returns a consistent snapshot of the order with the given
// id, taken under its instrument's book lock.
func (e *Exchange) GetOrder(exchangeID uint64) (orderbook.OrderSnapshot, bool) {
	o, ok := e.orders.Get(exchangeID)
	if !ok {
		return orderbook.OrderSnapshot{}, false
	}
	if book, ok := e.books.Get(o.Instrument); ok {
		return book.SnapshotOrder(o), true
	}
	return o.Snapshot(), true
}

// Book returns a consistent snapshot of instrument's order book, or
// false if the instrument is unknown.
func (e *Exchange) Book(instrument string) (orderbook.BookSnapshot, bool) {
	book, ok := e.books.Get(instrument)
	if !ok {
		return orderbook.BookSnapshot{}, false
	}
	return book.Snapshot(), true
}

// Instruments lists every instrument the exchange has ever routed an
// order or quote for.
func (e *Exchange) Instruments() []string {
	return e.books.Instruments()
}

// AllOrders returns a snapshot of every order ever submitted, filled
// or not, cancelled or not — OrderMap never forgets.
func (e *Exchange) AllOrders() []orderbook.OrderSnapshot {
	all := e.orders.All()
	out := make([]orderbook.OrderSnapshot, 0, len(all))
	for _, o := range all {
		if book, ok := e.books.Get(o.Instrument); ok {
			out = append(out, book.SnapshotOrder(o))
			continue
		}
		out = append(out, o.Snapshot())
	}
	return out
}
