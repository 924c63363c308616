// Command engine-demo wires a logger, an Exchange, and a scripted
// sequence of submits, quotes, and cancels against a couple of
// instruments, printing the resulting book snapshots. It is the
// in-process equivalent of a smoke test you can read top to bottom.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hqpro/clobengine/domain/orderbook"
	"github.com/hqpro/clobengine/exchange"
	"github.com/hqpro/clobengine/listener/kafka"
	"github.com/hqpro/clobengine/listener/multi"
	"github.com/hqpro/clobengine/listener/zaplog"
	"github.com/hqpro/clobengine/price"
)

func main() {
	// ---------------- Logging ----------------

	zapLog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("zap init failed: %v", err)
	}
	defer zapLog.Sync()

	members := []orderbook.Listener{zaplog.New(zapLog)}

	// ---------------- Optional Kafka sink ----------------

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		kl, err := kafka.New(strings.Split(brokers, ","), "clobengine.events")
		if err != nil {
			log.Fatalf("kafka listener init failed: %v", err)
		}
		defer kl.Close()
		members = append(members, kl)
	}

	// ---------------- Exchange ----------------

	ex := exchange.New(exchange.Config{
		MaxInstruments:  64,
		OrderMapBuckets: 1 << 12,
	}, multi.New(members...))

	// ---------------- Scripted sequence ----------------

	session := uuid.NewString()

	ex.SubmitLimit(session, "AAPL", orderbook.Buy, price.NewFromInt(100), decimal.NewFromInt(10), uuid.NewString())
	ex.SubmitLimit(session, "AAPL", orderbook.Buy, price.NewFromInt(100), decimal.NewFromInt(10), uuid.NewString())
	ex.SubmitLimit(session, "AAPL", orderbook.Buy, price.NewFromInt(200), decimal.NewFromInt(30), uuid.NewString())
	sellID, _ := ex.SubmitLimit(session, "AAPL", orderbook.Sell, price.NewFromInt(100), decimal.NewFromInt(25), uuid.NewString())

	ex.Quote(session, "MSFT", "mm-1", price.NewFromInt(400), decimal.NewFromInt(10), price.NewFromInt(401), decimal.NewFromInt(15))

	cancelID, _ := ex.SubmitLimit(session, "MSFT", orderbook.Buy, price.NewFromInt(399), decimal.NewFromInt(5), "")
	ex.Cancel(cancelID, session)

	if snap, ok := ex.GetOrder(sellID); ok {
		fmt.Printf("sell order %d: remaining=%s filled=%s\n", sellID, snap.Remaining, snap.Filled)
	}

	for _, instrument := range ex.Instruments() {
		book, _ := ex.Book(instrument)
		fmt.Printf("%s bids=%v asks=%v\n", instrument, renderLevels(book.Bids), renderLevels(book.Asks))
	}
}

func renderLevels(levels []orderbook.PriceLevelSnapshot) string {
	parts := make([]string, 0, len(levels))
	for _, l := range levels {
		parts = append(parts, fmt.Sprintf("(%s,%s)", l.Price, l.TotalRemaining))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
