package ports

import (
	"context"
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders. Orders are
// append-only: there is no update or delete.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}

// ReconciliationRecord is the durable audit entry written when a charge
// succeeded but the order could not be persisted.
type ReconciliationRecord struct {
	ChargeID       string             `bson:"charge_id"`
	UserID         string             `bson:"user_id"`
	Amount         int64              `bson:"amount"`
	Currency       string             `bson:"currency"`
	IdempotencyKey string             `bson:"idempotency_key"`
	Lines          []domain.OrderLine `bson:"lines"`
	Reason         string             `bson:"reason"`
	CreatedAt      time.Time          `bson:"created_at"`
}

// ReconciliationRepository persists reconciliation audit records for
// operator resolution. Never consulted on the request path.
type ReconciliationRepository interface {
	Insert(ctx context.Context, rec *ReconciliationRecord) error
}
