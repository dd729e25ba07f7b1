package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a snapshot of a cart line at the time the order was placed.
type Item struct {
	Name     string  `json:"name"`
	Size     string  `json:"size"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

type Order struct {
	ID                  string    `json:"orderId"`
	CustomerPhone       string    `json:"customerPhone"`
	FullDeliveryAddress string    `json:"fullDeliveryAddress"`
	Items               []Item    `json:"cartItems"`
	TotalPrice          float64   `json:"totalPrice"`
	Status              Status    `json:"status"`
	CreatedAt           time.Time `json:"createdAt"`
}

// ItemsTotal folds price times quantity over the items.
func ItemsTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Validate checks a submitted order before it is stored.
func (o *Order) Validate() error {
	var problems []string
	if strings.TrimSpace(o.CustomerPhone) == "" {
		problems = append(problems, "customerPhone is required")
	}
	if strings.TrimSpace(o.FullDeliveryAddress) == "" {
		problems = append(problems, "fullDeliveryAddress is required")
	}
	if len(o.Items) == 0 {
		problems = append(problems, "cartItems must not be empty")
	}
	for i, it := range o.Items {
		if it.Quantity < 1 {
			problems = append(problems, fmt.Sprintf("cartItems[%d]: quantity must be at least 1", i))
		}
		if it.Price < 0 {
			problems = append(problems, fmt.Sprintf("cartItems[%d]: price must not be negative", i))
		}
	}
	if len(problems) == 0 {
		want := ItemsTotal(o.Items).Round(2)
		if !decimal.NewFromFloat(o.TotalPrice).Round(2).Equal(want) {
			problems = append(problems, fmt.Sprintf("totalPrice %.2f does not match items total %s", o.TotalPrice, want.StringFixed(2)))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
