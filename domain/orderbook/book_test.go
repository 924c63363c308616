package orderbook

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hqpro/clobengine/price"
)

// recordingListener captures every callback for scenario assertions.
type recordingListener struct {
	orders []*Order
	trades []*Trade
}

func (r *recordingListener) OnOrder(o *Order) { r.orders = append(r.orders, o) }
func (r *recordingListener) OnTrade(t *Trade) { r.trades = append(r.trades, t) }

type idFactory struct{ next uint64 }

func (f *idFactory) alloc() uint64 { f.next++; return f.next }

func mkLimit(ids *idFactory, session, instrument string, side Side, p, qty int64) *Order {
	return NewLimitOrder(session, "", instrument, side, ids.alloc(), price.NewFromInt(p), decimal.NewFromInt(qty), time.Now())
}

func mkMarket(ids *idFactory, session, instrument string, side Side, qty int64) *Order {
	return NewMarketOrder(session, "", instrument, side, ids.alloc(), decimal.NewFromInt(qty), time.Now())
}

// S1 — simple fill.
func TestScenarioS1SimpleFill(t *testing.T) {
	l := &recordingListener{}
	b := NewOrderBook("X", l)
	ids := &idFactory{}

	buy := mkLimit(ids, "s1", "X", Buy, 100, 10)
	b.PlaceNewOrder(func() *Order { return buy })

	sell := mkLimit(ids, "s2", "X", Sell, 75, 10)
	b.PlaceNewOrder(func() *Order { return sell })

	if len(l.trades) != 1 {
		t.Fatalf("expected exactly one trade, got %d", len(l.trades))
	}
	tr := l.trades[0]
	if !tr.Price.Equal(price.NewFromInt(100)) || !tr.Quantity.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected trade price/qty: %s/%s", tr.Price, tr.Quantity)
	}
	if tr.Aggressor != sell || tr.Passive != buy {
		t.Fatalf("expected sell to be aggressor, buy passive")
	}
	if !buy.IsFilled() || !sell.IsFilled() {
		t.Fatalf("expected both sides terminal-filled")
	}
	snap := b.Snapshot()
	if len(snap.Bids) != 0 || len(snap.Asks) != 0 {
		t.Fatalf("expected both ladders empty after full fill")
	}
}

// S2 — partial fill.
func TestScenarioS2PartialFill(t *testing.T) {
	l := &recordingListener{}
	b := NewOrderBook("X", l)
	ids := &idFactory{}

	buy := mkLimit(ids, "s1", "X", Buy, 100, 20)
	b.PlaceNewOrder(func() *Order { return buy })
	sell := mkLimit(ids, "s2", "X", Sell, 75, 10)
	b.PlaceNewOrder(func() *Order { return sell })

	if len(l.trades) != 1 {
		t.Fatalf("expected one trade")
	}
	if !sell.IsFilled() || sell.Filled.IntPart() != 10 {
		t.Fatalf("expected sell fully filled at qty 10")
	}
	if !buy.Active() || buy.Remaining.IntPart() != 10 || buy.Filled.IntPart() != 10 {
		t.Fatalf("expected buy resting with remaining=10 filled=10, got remaining=%s filled=%s", buy.Remaining, buy.Filled)
	}
	snap := b.Snapshot()
	if len(snap.Bids) != 1 || !snap.Bids[0].TotalRemaining.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected one bid level with remaining 10")
	}
	if len(snap.Asks) != 0 {
		t.Fatalf("expected empty ask ladder")
	}
}

// S3 — cancel.
func TestScenarioS3Cancel(t *testing.T) {
	l := &recordingListener{}
	b := NewOrderBook("X", l)
	ids := &idFactory{}

	buy := mkLimit(ids, "owner", "X", Buy, 100, 20)
	b.PlaceNewOrder(func() *Order { return buy })

	if ok := b.Cancel(buy); !ok {
		t.Fatalf("expected first cancel to succeed")
	}
	if ok := b.Cancel(buy); ok {
		t.Fatalf("expected second cancel on the same order to fail")
	}
	if len(l.orders) != 2 {
		t.Fatalf("expected two onOrder events (create, cancel), got %d", len(l.orders))
	}
	if len(b.Snapshot().Bids) != 0 {
		t.Fatalf("expected empty bid ladder after cancel")
	}
}

// S4 — cancel with wrong session is exercised at the exchange facade
// (session ownership is not this package's concern — OrderBook.Cancel
// operates on an already-resolved *Order); see exchange package tests.

// S5 — market sweep of multiple levels.
func TestScenarioS5MarketSweep(t *testing.T) {
	l := &recordingListener{}
	b := NewOrderBook("X", l)
	ids := &idFactory{}

	sell1 := mkLimit(ids, "s1", "X", Sell, 100, 20)
	b.PlaceNewOrder(func() *Order { return sell1 })
	sell2 := mkLimit(ids, "s2", "X", Sell, 200, 20)
	b.PlaceNewOrder(func() *Order { return sell2 })

	marketBuy := mkMarket(ids, "buyer", "X", Buy, 30)
	b.PlaceNewOrder(func() *Order { return marketBuy })

	if len(l.trades) != 2 {
		t.Fatalf("expected two trades, got %d", len(l.trades))
	}
	if !l.trades[0].Price.Equal(price.NewFromInt(100)) || !l.trades[0].Quantity.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected first trade")
	}
	if !l.trades[1].Price.Equal(price.NewFromInt(200)) || !l.trades[1].Quantity.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected second trade")
	}
	if sell2.Remaining.IntPart() != 10 {
		t.Fatalf("expected sell2 remaining 10, got %s", sell2.Remaining)
	}
	if len(b.Snapshot().Bids) != 0 {
		t.Fatalf("expected empty bid ladder")
	}
	if !marketBuy.IsFilled() {
		t.Fatalf("expected market buy to be fully filled with no residual cancel")
	}
}

// S6 — one-sided market.
func TestScenarioS6OneSidedMarket(t *testing.T) {
	l := &recordingListener{}
	b := NewOrderBook("X", l)
	ids := &idFactory{}

	marketBuy := mkMarket(ids, "buyer", "X", Buy, 30)
	b.PlaceNewOrder(func() *Order { return marketBuy })

	if len(l.trades) != 0 {
		t.Fatalf("expected no trades on an empty book")
	}
	if len(l.orders) != 2 {
		t.Fatalf("expected create+cancel onOrder events, got %d", len(l.orders))
	}
	if !marketBuy.IsCancelled() {
		t.Fatalf("expected the unfillable market order to end cancelled")
	}
	if len(b.Snapshot().Bids) != 0 {
		t.Fatalf("expected empty bid ladder")
	}
}

// S7 — quote re-arm.
func TestScenarioS7QuoteRearm(t *testing.T) {
	l := &recordingListener{}
	b := NewOrderBook("X", l)
	ids := &idFactory{}

	factory := func() *QuoteOrders {
		return &QuoteOrders{
			SessionID: "s",
			QuoteID:   "q",
			Bid:       NewLimitOrder("s", "", "X", Buy, ids.alloc(), price.Zero, decimal.Zero, time.Now()),
			Ask:       NewLimitOrder("s", "", "X", Sell, ids.alloc(), price.Zero, decimal.Zero, time.Now()),
		}
	}

	b.Quote("s", "q", factory, price.NewFromInt(100), decimal.NewFromInt(10), price.NewFromInt(101), decimal.NewFromInt(20))
	snap := b.Snapshot()
	assertLevel(t, snap.Bids, 100, 10)
	assertLevel(t, snap.Asks, 101, 20)

	b.Quote("s", "q", factory, price.NewFromInt(100), decimal.NewFromInt(20), price.NewFromInt(101), decimal.NewFromInt(30))
	snap = b.Snapshot()
	assertLevel(t, snap.Bids, 100, 20)
	assertLevel(t, snap.Asks, 101, 30)

	b.Quote("s", "q", factory, price.NewFromInt(100), decimal.Zero, price.NewFromInt(101), decimal.NewFromInt(30))
	snap = b.Snapshot()
	if len(snap.Bids) != 0 {
		t.Fatalf("expected bid side pulled")
	}
	assertLevel(t, snap.Asks, 101, 30)

	b.Quote("s", "q", factory, price.NewFromInt(100), decimal.Zero, price.NewFromInt(101), decimal.Zero)
	snap = b.Snapshot()
	if len(snap.Bids) != 0 || len(snap.Asks) != 0 {
		t.Fatalf("expected both sides pulled")
	}
}

func assertLevel(t *testing.T, levels []PriceLevelSnapshot, wantPrice, wantQty int64) {
	t.Helper()
	if len(levels) != 1 {
		t.Fatalf("expected exactly one level, got %d", len(levels))
	}
	if !levels[0].Price.Equal(price.NewFromInt(wantPrice)) {
		t.Fatalf("expected price %d, got %s", wantPrice, levels[0].Price)
	}
	if !levels[0].TotalRemaining.Equal(decimal.NewFromInt(wantQty)) {
		t.Fatalf("expected qty %d, got %s", wantQty, levels[0].TotalRemaining)
	}
}

// S8 — price-time priority.
func TestScenarioS8PriceTimePriority(t *testing.T) {
	l := &recordingListener{}
	b := NewOrderBook("X", l)
	ids := &idFactory{}

	buy1 := mkLimit(ids, "b1", "X", Buy, 100, 10)
	b.PlaceNewOrder(func() *Order { return buy1 })
	buy2 := mkLimit(ids, "b2", "X", Buy, 100, 10)
	b.PlaceNewOrder(func() *Order { return buy2 })
	buy3 := mkLimit(ids, "b3", "X", Buy, 200, 30)
	b.PlaceNewOrder(func() *Order { return buy3 })

	sell := mkLimit(ids, "seller", "X", Sell, 100, 25)
	b.PlaceNewOrder(func() *Order { return sell })

	if len(l.trades) != 1 {
		t.Fatalf("expected exactly one trade, got %d", len(l.trades))
	}
	tr := l.trades[0]
	if !tr.Price.Equal(price.NewFromInt(200)) || !tr.Quantity.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("unexpected trade: price=%s qty=%s", tr.Price, tr.Quantity)
	}
	if tr.Passive != buy3 {
		t.Fatalf("expected the 200-priced buy to be the passive counterparty")
	}
	if !sell.IsFilled() {
		t.Fatalf("expected the sell to be fully filled")
	}
	if buy3.Remaining.IntPart() != 5 {
		t.Fatalf("expected best bid remaining 5, got %s", buy3.Remaining)
	}

	snap := b.Snapshot()
	assertLevel(t, snap.Bids[:1], 200, 5)
	if len(snap.Bids) != 2 {
		t.Fatalf("expected two remaining bid levels, got %d", len(snap.Bids))
	}
	assertLevel(t, snap.Bids[1:], 100, 20)
}

func TestNoZeroQuantityOrderMutatesBook(t *testing.T) {
	l := &recordingListener{}
	b := NewOrderBook("X", l)
	ids := &idFactory{}

	rejected := mkLimit(ids, "s", "X", Buy, 100, 0)
	b.PlaceNewOrder(func() *Order { return rejected })

	if len(l.orders) != 0 {
		t.Fatalf("expected no onOrder event for a non-positive quantity submission")
	}
	if len(b.Snapshot().Bids) != 0 {
		t.Fatalf("expected no state change for a non-positive quantity submission")
	}
}
