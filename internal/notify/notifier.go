// Package notify tells the shop owner that a new order arrived.
package notify

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

// ErrNotConfigured is returned by Multi when no channel is set up.
var ErrNotConfigured = errors.New("no notification channel configured")

// Notification is the body of POST /notify.
type Notification struct {
	OrderID       string       `json:"orderId"`
	CustomerPhone string       `json:"customerPhone"`
	Address       string       `json:"address"`
	Items         []order.Item `json:"items"`
	TotalPrice    float64      `json:"totalPrice"`
}

func FromOrder(o *order.Order) Notification {
	return Notification{
		OrderID:       o.ID,
		CustomerPhone: o.CustomerPhone,
		Address:       o.FullDeliveryAddress,
		Items:         o.Items,
		TotalPrice:    o.TotalPrice,
	}
}

// Message is the text sent to the owner.
func (n Notification) Message() string {
	return fmt.Sprintf("New Order Received! \nOrder ID: %s \nCustomer phone: %s \nAddress: %s \nLog in to confirm it",
		n.OrderID, n.CustomerPhone, n.Address)
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Multi sends through every channel concurrently. Each channel runs to the end
// on its own; Notify reports the first failure.
type Multi struct {
	channels []Notifier
}

func NewMulti(channels ...Notifier) *Multi {
	m := &Multi{}
	for _, c := range channels {
		if c != nil {
			m.channels = append(m.channels, c)
		}
	}
	return m
}

func (m *Multi) Configured() bool {
	return len(m.channels) > 0
}

func (m *Multi) Notify(ctx context.Context, n Notification) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	var g errgroup.Group
	for _, c := range m.channels {
		g.Go(func() error {
			return c.Notify(ctx, n)
		})
	}
	return g.Wait()
}
