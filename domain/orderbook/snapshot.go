package orderbook

import (
	"github.com/shopspring/decimal"

	"github.com/hqpro/clobengine/price"
)

// PriceLevelSnapshot is one aggregated rung of a BookSnapshot: the
// total resting quantity at a price and the exchangeIds contributing
// to it, in priority (FIFO) order.
type PriceLevelSnapshot struct {
	Price           price.Price
	TotalRemaining  decimal.Decimal
	ContributingIDs []uint64
}

// BookSnapshot is a consistent, read-only copy of one instrument's
// order book at the moment of read.
type BookSnapshot struct {
	Instrument string
	Bids       []PriceLevelSnapshot
	Asks       []PriceLevelSnapshot
}
