package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// OrderService defines order read paths. Orders are written only by the
// checkout orchestrator.
type OrderService interface {
	// Get returns the order when the viewer owns it or holds ADMIN.
	Get(ctx context.Context, viewerID, orderID string) (*domain.Order, error)
	// ListMine returns the viewer's own orders, newest first.
	ListMine(ctx context.Context, viewerID string) ([]*domain.Order, error)
}
