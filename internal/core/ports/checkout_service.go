package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// CheckoutInput carries one checkout request.
type CheckoutInput struct {
	// UserID is the resolved caller; empty means anonymous and fails the
	// transaction before any side effect.
	UserID string
	// SourceToken is the tokenized payment source passed to the processor.
	SourceToken string
	// IdempotencyKey deduplicates double submissions. Generated when empty.
	IdempotencyKey string
}

// CheckoutResult is returned on success (including idempotent replays).
type CheckoutResult struct {
	Order *domain.Order
	// AlreadyExisted is true when the idempotency key matched a previously
	// completed checkout and no new charge was made.
	AlreadyExisted bool
}

// CheckoutService runs the cart -> charge -> order transaction.
type CheckoutService interface {
	Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
}
