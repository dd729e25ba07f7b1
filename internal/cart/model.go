package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

var (
	ErrNotPurchasable = errors.New("product has no sizes and cannot be added to the cart")
	ErrUnknownSize    = errors.New("product does not offer this size")
)

// Line is one entry of the cart. It is identified by product id and size label.
// Product is a copy taken when the line was added and is never refreshed.
type Line struct {
	Product      catalog.Product `json:"product"`
	SelectedSize catalog.Size    `json:"selectedSize"`
	Quantity     int             `json:"quantity"`
}

func (l Line) matches(productID, size string) bool {
	return l.Product.ID == productID && l.SelectedSize.Size == size
}

func (l Line) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.SelectedSize.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SelectSize resolves a size label against the product's offered sizes.
func SelectSize(p catalog.Product, label string) (catalog.Size, error) {
	if !p.Purchasable() {
		return catalog.Size{}, fmt.Errorf("%s: %w", p.ID, ErrNotPurchasable)
	}
	sz, ok := p.Size(label)
	if !ok {
		return catalog.Size{}, fmt.Errorf("%s %q: %w", p.ID, label, ErrUnknownSize)
	}
	return sz, nil
}

// Total folds price times quantity over the lines.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func snapshot(p catalog.Product) catalog.Product {
	cp := p
	if p.Sizes != nil {
		cp.Sizes = make([]catalog.Size, len(p.Sizes))
		copy(cp.Sizes, p.Sizes)
	}
	return cp
}
