package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
)

// Broker is a throwaway RabbitMQ reached the same way the service reaches it.
type Broker struct {
	URL  string
	Conn *amqp.Connection
}

// StartRabbitMQ launches a broker and connects through events.Dial.
func StartRabbitMQ(t *testing.T) *Broker {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	host, port := startContainer(ctx, t, testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		ExposedPorts: []string{"5672/tcp"},
		Env: map[string]string{
			"RABBITMQ_DEFAULT_USER": testUser,
			"RABBITMQ_DEFAULT_PASS": testPassword,
		},
		WaitingFor: wait.ForListeningPort("5672/tcp").WithStartupTimeout(startupTimeout),
	}, "5672")

	url := fmt.Sprintf("amqp://%s:%s@%s:%s/", testUser, testPassword, host, port)
	conn, err := events.Dial(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &Broker{URL: url, Conn: conn}
}
