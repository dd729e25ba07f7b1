package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher emits storefront events on the shared topic exchange.
type Publisher struct {
	ch        publishChannel
	sequences SequenceRepository
	now       func() time.Time
}

func NewPublisher(conn *amqp.Connection, sequences SequenceRepository) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareTopology(ch); err != nil {
		_ = ch.Close()
		return nil, err
	}
	return &Publisher{ch: ch, sequences: sequences, now: time.Now}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *order.Order, meta EnvelopeMetadata) error {
	seq, err := p.sequences.NextSequence(ctx, OrderPlacedPartition)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	env := BuildOrderPlaced(o, seq, meta, p.now())
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", OrderPlacedEventName, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		OrderPlacedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     env.EventID,
			CorrelationId: meta.CorrelationID,
			Timestamp:     env.OccurredAt,
			Type:          OrderPlacedEventName,
			Body:          body,
		},
	)
}
