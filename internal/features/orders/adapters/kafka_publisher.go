package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ozon-orders/internal/features/orders/domain"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// newOrderEvent is the JSON value of a published message.
type newOrderEvent struct {
	ProfileID     string          `json:"profile_id"`
	PostingNumber string          `json:"posting_number"`
	OrderID       int64           `json:"order_id,omitempty"`
	Status        string          `json:"status"`
	InProcessAt   *time.Time      `json:"in_process_at,omitempty"`
	Posting       json.RawMessage `json:"posting"`
}

// KafkaPublisher implements ports.OrderPublisher with one message per order, keyed by posting number.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

// Publish writes order to the topic.
func (p *KafkaPublisher) Publish(ctx context.Context, order domain.NewOrder) error {
	msg, err := buildMessage(order)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish posting %s: %w", order.Posting.PostingNumber, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func buildMessage(order domain.NewOrder) (kafka.Message, error) {
	p := order.Posting

	event := newOrderEvent{
		ProfileID:     string(order.Profile),
		PostingNumber: p.PostingNumber,
		OrderID:       p.OrderID,
		Status:        p.Status,
		Posting:       p.Raw,
	}
	if !p.InProcessAt.IsZero() {
		t := p.InProcessAt.UTC()
		event.InProcessAt = &t
	}

	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode posting %s: %w", p.PostingNumber, err)
	}

	return kafka.Message{
		Key:   []byte(p.PostingNumber),
		Value: value,
		Headers: []kafka.Header{
			{Key: "profile_id", Value: []byte(order.Profile)},
			{Key: "event", Value: []byte("ozon.order.new")},
		},
	}, nil
}
