package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/localstore"
)

// Holder keeps the signed-in user for a client process and mirrors it to the
// "user" storage key.
type Holder struct {
	mu      sync.RWMutex
	user    *User
	storage localstore.Storage
}

// LoadHolder restores the persisted user. A value without string id, email and
// role fields is removed.
func LoadHolder(ctx context.Context, storage localstore.Storage, logger *log.Logger) (*Holder, error) {
	h := &Holder{storage: storage}

	raw, ok, err := storage.GetItem(ctx, localstore.KeyUser)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return h, nil
	}

	u, valid := decodeUser(raw)
	if !valid {
		logger.Printf("discarding invalid persisted user")
		if err := storage.RemoveItem(ctx, localstore.KeyUser); err != nil {
			logger.Printf("remove invalid user: %v", err)
		}
		return h, nil
	}
	h.user = &u
	return h, nil
}

func (h *Holder) Current() *User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return nil
	}
	u := *h.user
	return &u
}

func (h *Holder) Set(ctx context.Context, u User) error {
	u.Role = NormalizeRole(string(u.Role))
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = &u
	if err := h.storage.SetItem(ctx, localstore.KeyUser, string(b)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (h *Holder) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = nil
	if err := h.storage.RemoveItem(ctx, localstore.KeyUser); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	return nil
}

func decodeUser(raw string) (User, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
		return User{}, false
	}
	id, ok1 := m["id"].(string)
	email, ok2 := m["email"].(string)
	role, ok3 := m["role"].(string)
	if !ok1 || !ok2 || !ok3 || id == "" {
		return User{}, false
	}
	return User{ID: id, Email: email, Role: NormalizeRole(role)}, true
}
