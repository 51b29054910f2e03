package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// AuthSession pairs an authenticated user with a freshly signed token.
type AuthSession struct {
	User  *domain.User
	Token string
}

// AuthService implements the account lifecycle: signup, signin and the
// password-reset exchange. Signout is a client-side concern (the cookie is
// discarded); no server-side session store exists.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*AuthSession, error)
	Signin(ctx context.Context, email, password string) (*AuthSession, error)
	// RequestReset issues a single-use reset token valid for one hour and
	// emails it best-effort. The token is persisted before mail is queued.
	RequestReset(ctx context.Context, email string) error
	// ResetPassword consumes an outstanding reset token and signs the user
	// in. The token is nulled even though the caller may discard the session.
	ResetPassword(ctx context.Context, token, password, confirm string) (*AuthSession, error)
}
