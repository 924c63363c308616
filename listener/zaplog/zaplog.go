// Package zaplog is a Listener that logs every order and trade event
// through a structured zap.Logger.
package zaplog

import (
	"go.uber.org/zap"

	"github.com/hqpro/clobengine/domain/orderbook"
)

// Listener logs every callback at debug level for order events and
// info level for trades — trades are the interesting business event,
// order churn is noise most of the time but useful when debugging a
// specific instrument.
type Listener struct {
	log *zap.Logger
}

// New wraps log as an orderbook.Listener.
func New(log *zap.Logger) *Listener {
	return &Listener{log: log}
}

func (l *Listener) OnOrder(o *orderbook.Order) {
	l.log.Debug("order event",
		zap.Uint64("exchangeId", o.ExchangeID),
		zap.String("instrument", o.Instrument),
		zap.String("side", o.Side.String()),
		zap.String("remaining", o.Remaining.String()),
		zap.String("filled", o.Filled.String()),
		zap.Bool("active", o.Active()),
	)
}

func (l *Listener) OnTrade(t *orderbook.Trade) {
	l.log.Info("trade executed",
		zap.Uint64("execId", t.ExecID),
		zap.String("price", t.Price.String()),
		zap.String("quantity", t.Quantity.String()),
		zap.Uint64("aggressorId", t.Aggressor.ExchangeID),
		zap.Uint64("passiveId", t.Passive.ExchangeID),
	)
}
