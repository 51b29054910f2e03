package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// CartService is the cart ledger: per-user lines with atomic increments,
// ownership-checked removal, and the snapshot/clear pair checkout uses.
type CartService interface {
	// AddItem increments the (user, item) line by one, creating it at
	// quantity 1 when absent.
	AddItem(ctx context.Context, userID, itemID string) (*domain.CartItem, error)
	// RemoveItem deletes the line. Returns ErrCartItemNotFound when absent
	// and ErrForbidden when the line belongs to a different user.
	RemoveItem(ctx context.Context, userID, cartItemID string) error
	// Snapshot returns the user's lines joined with their catalog items,
	// ordered by line creation time. Checkout prices and clears from this.
	Snapshot(ctx context.Context, userID string) ([]domain.CartLine, error)
	// Clear deletes exactly the given line ids, leaving lines added after
	// the snapshot untouched.
	Clear(ctx context.Context, userID string, cartItemIDs []string) error
}
