// Package kafka is a Listener that publishes order and trade events
// to a Kafka topic, fire-and-forget, using a synchronous sarama
// producer. Adapted from the teacher's exit-WAL-driven broadcaster:
// the replay/ack bookkeeping that drove it is dropped (persistence is
// out of scope here) but the "encode event, synchronously produce"
// shape is kept.
package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/hqpro/clobengine/domain/orderbook"
)

// event is the wire shape published for both order and trade
// callbacks; Type distinguishes which.
type event struct {
	Type        string `json:"type"`
	ExchangeID  uint64 `json:"exchangeId,omitempty"`
	Instrument  string `json:"instrument,omitempty"`
	Side        string `json:"side,omitempty"`
	Remaining   string `json:"remaining,omitempty"`
	Filled      string `json:"filled,omitempty"`
	ExecID      uint64 `json:"execId,omitempty"`
	Price       string `json:"price,omitempty"`
	Quantity    string `json:"quantity,omitempty"`
	AggressorID uint64 `json:"aggressorId,omitempty"`
	PassiveID   uint64 `json:"passiveId,omitempty"`
}

// Listener publishes every callback to a single Kafka topic.
type Listener struct {
	producer sarama.SyncProducer
	topic    string
}

// New dials brokers and returns a Listener publishing to topic.
func New(brokers []string, topic string) (*Listener, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka listener: %w", err)
	}
	return &Listener{producer: producer, topic: topic}, nil
}

func (l *Listener) publish(e event) {
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: l.topic,
		Value: sarama.ByteEncoder(payload),
	}
	// The send is synchronous: it blocks the calling goroutine, and
	// with it the book lock the caller holds, until the brokers
	// acknowledge or sarama gives up after Retry.Max retries. The
	// result is discarded.
	_, _, _ = l.producer.SendMessage(msg)
}

func (l *Listener) OnOrder(o *orderbook.Order) {
	l.publish(event{
		Type:       "order",
		ExchangeID: o.ExchangeID,
		Instrument: o.Instrument,
		Side:       o.Side.String(),
		Remaining:  o.Remaining.String(),
		Filled:     o.Filled.String(),
	})
}

func (l *Listener) OnTrade(t *orderbook.Trade) {
	l.publish(event{
		Type:        "trade",
		ExecID:      t.ExecID,
		Price:       t.Price.String(),
		Quantity:    t.Quantity.String(),
		AggressorID: t.Aggressor.ExchangeID,
		PassiveID:   t.Passive.ExchangeID,
	})
}

// Close releases the underlying producer.
func (l *Listener) Close() error {
	return l.producer.Close()
}
