package client

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
)

// NotifyClient asks the storefront to alert the owner through POST /notify.
type NotifyClient struct {
	base   *Client
	logger *log.Logger
}

func NewNotifyClient(base *Client, logger *log.Logger) *NotifyClient {
	return &NotifyClient{base: base, logger: logger}
}

func (c *NotifyClient) Notify(ctx context.Context, n notify.Notification) error {
	var body struct {
		Success bool   `json:"success"`
		Warning string `json:"warning"`
		Error   string `json:"error"`
	}
	if err := c.base.doJSON(ctx, http.MethodPost, "/notify", "", nil, n, &body); err != nil {
		return err
	}
	if !body.Success {
		return fmt.Errorf("notify order %s: %s", n.OrderID, body.Error)
	}
	if body.Warning != "" && c.logger != nil {
		c.logger.Printf("notify order %s: %s", n.OrderID, body.Warning)
	}
	return nil
}
