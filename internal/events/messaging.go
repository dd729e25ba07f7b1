package events

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// The storefront only publishes. Consumers bind their own queues to
// EventsExchange by routing key.
const (
	EventsExchange        = "ecommerce.events"
	OrderPlacedRoutingKey = "storefront.order.placed.v1"
	storefrontProducer    = "storefront-go"
)

// Dial connects to the broker under the storefront's connection name.
func Dial(url string) (*amqp.Connection, error) {
	props := amqp.NewConnectionProperties()
	props.SetClientConnectionName(storefrontProducer)

	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat:  10 * time.Second,
		Dial:       amqp.DefaultDial(10 * time.Second),
		Properties: props,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	return conn, nil
}

type exchangeDeclarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
}

// declareTopology creates the durable topic exchange order events are sent to.
func declareTopology(ch exchangeDeclarer) error {
	const durable = true
	if err := ch.ExchangeDeclare(EventsExchange, amqp.ExchangeTopic, durable, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", EventsExchange, err)
	}
	return nil
}
