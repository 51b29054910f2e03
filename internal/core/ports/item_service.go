package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// ItemInput carries the writable fields of a catalog item.
type ItemInput struct {
	Title       string
	Description string
	Image       string
	LargeImage  string
	Price       int64
}

// ItemUpdate carries a partial update; nil fields are left unchanged.
type ItemUpdate struct {
	Title       *string
	Description *string
	Image       *string
	LargeImage  *string
	Price       *int64
}

// ListItemsResult is a page of catalog items.
type ListItemsResult struct {
	Items      []*domain.Item
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ItemService defines catalog use cases. Reads are public; writes require
// a signed-in actor and, beyond ownership, the relevant permissions.
type ItemService interface {
	Create(ctx context.Context, actorID string, input ItemInput) (*domain.Item, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context, filter ListItemsFilter) (*ListItemsResult, error)
	Update(ctx context.Context, actorID, id string, update ItemUpdate) (*domain.Item, error)
	Delete(ctx context.Context, actorID, id string) error
}
