package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes ledger events to one topic, keyed by account so that a
// partition sees an account's events in order.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

var _ portssvc.LedgerEventPublisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.AccountID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write ledger event to kafka: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
