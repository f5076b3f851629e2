// Package kafka publishes order lifecycle events.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"myMarketplace/domain"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OrderEventPublisher struct {
	writer messageWriter
}

func NewOrderEventPublisher(brokers []string, topic string) *OrderEventPublisher {
	return &OrderEventPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			WriteTimeout:           5 * time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish writes the event keyed by order id so events of one order stay ordered.
func (p *OrderEventPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}

	return nil
}

func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.OrderEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
