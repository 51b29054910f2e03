package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// UserService defines identity reads and permission administration.
type UserService interface {
	// Me resolves the current user. An empty viewerID (anonymous) returns
	// (nil, nil), not an error.
	Me(ctx context.Context, viewerID string) (*domain.User, error)
	// List returns all users. Requires ADMIN or PERMISSIONUPDATE.
	List(ctx context.Context, actorID string) ([]*domain.User, error)
	// UpdatePermissions replaces the target user's permission set.
	// Requires ADMIN or PERMISSIONUPDATE on the actor; the target is named
	// explicitly by id.
	UpdatePermissions(ctx context.Context, actorID, targetID string, permissions []domain.Permission) (*domain.User, error)
}
