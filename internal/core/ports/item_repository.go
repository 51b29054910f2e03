package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// ListItemsFilter carries query parameters for listing catalog items.
type ListItemsFilter struct {
	Page  int // 1-based
	Limit int // capped at 100 by the service
}

// ItemRepository defines persistence operations for catalog items.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	// FindByIDs returns the items for the given ids, keyed by id.
	// Missing ids are simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListItemsFilter) ([]*domain.Item, int64, error)
}
