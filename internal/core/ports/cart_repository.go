package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// CartRepository defines persistence operations for cart lines.
type CartRepository interface {
	// UpsertIncrement atomically increments the quantity of the (userID,
	// itemID) line by one, creating it with quantity 1 when absent, and
	// returns the resulting line. Concurrent calls for the same pair must
	// never produce two lines or lose an increment.
	UpsertIncrement(ctx context.Context, userID, itemID string) (*domain.CartItem, error)
	FindByID(ctx context.Context, id string) (*domain.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.CartItem, error)
	Delete(ctx context.Context, id string) error
	// DeleteByIDs removes exactly the given line ids belonging to userID.
	DeleteByIDs(ctx context.Context, userID string, ids []string) error
}
