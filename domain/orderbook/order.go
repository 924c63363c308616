package orderbook

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hqpro/clobengine/price"
)

// Side is the side of the book an order rests on or matches against.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Order is the engine's single mutable unit of execution state. Its
// identity fields are set once at construction (or, for a quote's
// underlying pair, re-armed as a whole under the owning book's
// lock); its execution fields mutate as fills accrue.
//
// An Order is owned by exactly one OrderMap bucket for the life of
// the process; while resting it is additionally referenced — never
// owned — by exactly one OrderList, via the handle fields at the
// bottom of this struct.
type Order struct {
	SessionID     string
	OrderID       string
	Instrument    string
	Side          Side
	ExchangeID    uint64
	TimeSubmitted time.Time
	IsQuote       bool

	// OriginalPrice/OriginalQuantity are fixed at the order's first
	// construction. CurrentPrice/CurrentQuantity are the live values
	// the ladder and matching loop operate on; for a plain limit or
	// market order they never diverge from the original. A quote
	// re-arm mutates only Current*, leaving Original* as a record of
	// how the underlying pair was first created.
	OriginalPrice    price.Price
	OriginalQuantity decimal.Decimal
	CurrentPrice     price.Price
	CurrentQuantity  decimal.Decimal

	Remaining decimal.Decimal
	Filled    decimal.Decimal
	CumQty    decimal.Decimal
	AvgPrice  price.Price

	// intrusive FIFO handle, owned uniquely by this Order.
	next, prev *Order
	list       *OrderList
	onList     bool
}

// NewLimitOrder constructs a resting-capable limit order with fresh
// execution state.
func NewLimitOrder(sessionID, orderID, instrument string, side Side, exchangeID uint64, p price.Price, qty decimal.Decimal, submitted time.Time) *Order {
	return &Order{
		SessionID:        sessionID,
		OrderID:          orderID,
		Instrument:       instrument,
		Side:             side,
		ExchangeID:       exchangeID,
		TimeSubmitted:    submitted,
		OriginalPrice:    p,
		OriginalQuantity: qty,
		CurrentPrice:     p,
		CurrentQuantity:  qty,
		Remaining:        qty,
		Filled:           decimal.Zero,
		CumQty:           decimal.Zero,
		AvgPrice:         price.Zero,
	}
}

// NewMarketOrder constructs a market order: its price is the ±inf
// sentinel matching its side, and it never rests past the matching
// loop that processes it.
func NewMarketOrder(sessionID, orderID, instrument string, side Side, exchangeID uint64, qty decimal.Decimal, submitted time.Time) *Order {
	p := price.MarketBuyPrice()
	if side == Sell {
		p = price.MarketSellPrice()
	}
	return NewLimitOrder(sessionID, orderID, instrument, side, exchangeID, p, qty, submitted)
}

// IsMarket reports whether this order's price is a ±inf sentinel.
func (o *Order) IsMarket() bool {
	return o.CurrentPrice.IsMarket()
}

// GetExchangeID satisfies registry.orderRef so *Order can be stored
// directly in an OrderMap, keyed by its own immutable id.
func (o *Order) GetExchangeID() uint64 {
	return o.ExchangeID
}

// Active reports whether the order still has quantity resting.
func (o *Order) Active() bool {
	return o.Remaining.Sign() > 0
}

// IsFilled reports whether the order ran to completion.
func (o *Order) IsFilled() bool {
	return o.Remaining.IsZero() && o.Filled.Equal(o.CurrentQuantity)
}

// IsCancelled reports whether the order ended with quantity unfilled.
func (o *Order) IsCancelled() bool {
	return o.Remaining.IsZero() && o.Filled.LessThan(o.CurrentQuantity)
}

// fill applies a single match of qty at tradePrice, updating the
// running VWAP (avg*cum + p*q) / (cum+q).
func (o *Order) fill(qty decimal.Decimal, tradePrice price.Price) {
	o.Remaining = o.Remaining.Sub(qty)
	o.Filled = o.Filled.Add(qty)

	newCum := o.CumQty.Add(qty)
	numerator := o.AvgPrice.Mul(o.CumQty).Add(tradePrice.Mul(qty))
	o.AvgPrice = numerator.Div(newCum)
	o.CumQty = newCum
}

// rearm resets all four execution fields atomically (called only
// while the owning book's writer lock is held, as part of quote())
// and sets this incarnation's current price/quantity.
func (o *Order) rearm(p price.Price, qty decimal.Decimal) {
	o.CurrentPrice = p
	o.CurrentQuantity = qty
	o.Remaining = qty
	o.Filled = decimal.Zero
	o.CumQty = decimal.Zero
	o.AvgPrice = price.Zero
}

// cancel marks the order terminal without touching its ladder
// membership; callers are responsible for unlinking it from its
// OrderList before or after calling cancel.
func (o *Order) cancel() {
	o.Remaining = decimal.Zero
}

// Snapshot returns a read-only value copy of this order's current
// state, safe to hand to a caller outside the book lock.
func (o *Order) Snapshot() OrderSnapshot {
	return OrderSnapshot{
		SessionID:        o.SessionID,
		OrderID:          o.OrderID,
		Instrument:       o.Instrument,
		Side:             o.Side,
		ExchangeID:       o.ExchangeID,
		TimeSubmitted:    o.TimeSubmitted,
		IsQuote:          o.IsQuote,
		OriginalPrice:    o.OriginalPrice,
		OriginalQuantity: o.OriginalQuantity,
		CurrentPrice:     o.CurrentPrice,
		CurrentQuantity:  o.CurrentQuantity,
		Remaining:        o.Remaining,
		Filled:           o.Filled,
		CumQty:           o.CumQty,
		AvgPrice:         o.AvgPrice,
		IsActive:         o.Active(),
		IsFilled:         o.IsFilled(),
		IsCancelled:      o.IsCancelled(),
	}
}

// OrderSnapshot is a pure value copy of an Order's fields at the
// moment of read.
type OrderSnapshot struct {
	SessionID        string
	OrderID          string
	Instrument       string
	Side             Side
	ExchangeID       uint64
	TimeSubmitted    time.Time
	IsQuote          bool
	OriginalPrice    price.Price
	OriginalQuantity decimal.Decimal
	CurrentPrice     price.Price
	CurrentQuantity  decimal.Decimal
	Remaining        decimal.Decimal
	Filled           decimal.Decimal
	CumQty           decimal.Decimal
	AvgPrice         price.Price

	IsActive    bool
	IsFilled    bool
	IsCancelled bool
}
