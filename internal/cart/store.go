package cart

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/localstore"
)

// Store is the shopper's cart. Every mutation rewrites the persisted "cart" key
// while holding the lock, so concurrent callers are applied in call order.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	storage localstore.Storage
	logger  *log.Logger
}

// Open rehydrates the cart from storage. Corrupt data never fails Open: an
// unreadable value is removed and invalid entries are dropped and written back.
func Open(ctx context.Context, storage localstore.Storage, logger *log.Logger) (*Store, error) {
	s := &Store{storage: storage, logger: logger}

	raw, ok, err := storage.GetItem(ctx, localstore.KeyCart)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return s, nil
	}

	lines, dropped, err := DecodeLines(raw)
	if err != nil {
		logger.Printf("discarding unreadable cart: %v", err)
		if err := storage.RemoveItem(ctx, localstore.KeyCart); err != nil {
			logger.Printf("remove unreadable cart: %v", err)
		}
		return s, nil
	}

	s.lines = lines
	if dropped > 0 {
		logger.Printf("dropped %d invalid cart entries", dropped)
		if err := s.persistLocked(ctx); err != nil {
			logger.Printf("rewrite cleaned cart: %v", err)
		}
	}
	return s, nil
}

// Add merges into an existing line with the same product and size, or appends.
func (s *Store) Add(ctx context.Context, p catalog.Product, size catalog.Size, quantity int) error {
	quantity = max(1, quantity)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].matches(p.ID, size.Size) {
			s.lines[i].Quantity += quantity
			return s.persistLocked(ctx)
		}
	}

	s.lines = append(s.lines, Line{
		Product:      snapshot(p),
		SelectedSize: size,
		Quantity:     quantity,
	})
	return s.persistLocked(ctx)
}

// Remove deletes the matching line. Absent lines are ignored.
func (s *Store) Remove(ctx context.Context, productID, size string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].matches(productID, size) {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return s.persistLocked(ctx)
		}
	}
	return nil
}

// UpdateQuantity sets the quantity of the matching line, floored at 1.
// Absent lines are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID, size string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].matches(productID, size) {
			s.lines[i].Quantity = max(1, quantity)
			return s.persistLocked(ctx)
		}
	}
	return nil
}

// Clear empties the cart and deletes the persisted key.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	if err := s.storage.RemoveItem(ctx, localstore.KeyCart); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Settle takes the ordered lines out of the cart once their order is stored.
// Quantities added after the order snapshot stay in the cart; the persisted key
// is deleted when nothing is left.
func (s *Store) Settle(ctx context.Context, ordered []Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	for _, l := range s.lines {
		for _, o := range ordered {
			if l.matches(o.Product.ID, o.SelectedSize.Size) {
				l.Quantity -= o.Quantity
			}
		}
		if l.Quantity > 0 {
			kept = append(kept, l)
		}
	}
	s.lines = kept

	if len(s.lines) > 0 {
		return s.persistLocked(ctx)
	}
	s.lines = nil
	if err := s.storage.RemoveItem(ctx, localstore.KeyCart); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	for i, l := range s.lines {
		l.Product = snapshot(l.Product)
		out[i] = l
	}
	return out
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.lines)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

func (s *Store) persistLocked(ctx context.Context) error {
	raw, err := EncodeLines(s.lines)
	if err != nil {
		return err
	}
	if err := s.storage.SetItem(ctx, localstore.KeyCart, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
