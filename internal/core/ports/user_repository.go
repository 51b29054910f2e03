package ports

import (
	"context"
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// UserRepository defines persistence operations for users, including the
// password-reset token lifecycle.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)

	// SetResetToken stores a reset token and its expiry on the user.
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error
	// FindByResetToken looks a user up by an outstanding reset token.
	// Expiry is checked by the caller against its own clock.
	FindByResetToken(ctx context.Context, token string) (*domain.User, error)
	// UpdatePassword replaces the password hash and nulls any reset token.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	UpdatePermissions(ctx context.Context, userID string, permissions []domain.Permission) (*domain.User, error)
}
