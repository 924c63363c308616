package orderbook

import (
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/hqpro/clobengine/price"
)

// execSequencer issues the monotonic execId carried by every Trade.
// Package-level because exec ids are process-wide, like exchangeIds,
// not scoped to a single book.
var execSequencer atomic.Uint64

func newExecID() uint64 {
	return execSequencer.Add(1)
}

// Trade is an immutable record of one match: the passive order's
// price, the matched quantity, and references to both participants.
type Trade struct {
	ExecID    uint64
	Price     price.Price
	Quantity  decimal.Decimal
	Aggressor *Order
	Passive   *Order
}
