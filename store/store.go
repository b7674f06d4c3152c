// Package store persists shopping carts across conversational turns, keyed
// by thread id. The in-memory store backs tests and single-process runs;
// the Redis store is used when carts must survive process restarts.
package store

import (
	"context"
	"time"

	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/salesdesk-ai/salesdesk", "store")

// CartItem is one line in a shopping cart.
type CartItem struct {
	SKU      string    `json:"sku"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at,omitempty"`
}

// CartStore keeps one cart per conversation thread.
type CartStore interface {
	// Items returns the cart contents, in the order items were added.
	Items(ctx context.Context, threadID string) ([]CartItem, error)
	// Add appends an item to the cart.
	Add(ctx context.Context, threadID string, item CartItem) error
	// Reset empties the cart.
	Reset(ctx context.Context, threadID string) error
}
