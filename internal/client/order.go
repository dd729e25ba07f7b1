package client

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

// OrderClient stores orders through POST /orders.
type OrderClient struct {
	base *Client
}

func NewOrderClient(base *Client) *OrderClient {
	return &OrderClient{base: base}
}

// Create sends o and overwrites it with the stored order.
func (c *OrderClient) Create(ctx context.Context, o *order.Order) error {
	var created order.Order
	if err := c.base.doJSON(ctx, http.MethodPost, "/orders", "", nil, o, &created); err != nil {
		return err
	}
	*o = created
	return nil
}
