package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/commerce-api/internal/core/service"
)

const (
	// pendingTTL bounds how long a crashed checkout can hold its key.
	pendingTTL = 15 * time.Minute
	// completedTTL is how long replays of a finished checkout are served.
	completedTTL = 24 * time.Hour
	// guardTTL bounds a per-user in-flight marker left behind by a crash.
	guardTTL = 2 * time.Minute

	pendingMarker   = "pending"
	reconcilePrefix = "reconcile:"
)

// IdempotencyStore implements the checkout claim ledger on Redis.
//
// Key lifecycle under checkout:<key>:
//
//	(absent) -> "pending" -> "<order_id>"            success
//	                      -> "reconcile:<charge_id>" charge without order
//	                      -> (deleted)               failure before charge
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

func (s *IdempotencyStore) Claim(ctx context.Context, key string) (service.IdempotencyClaim, error) {
	ok, err := s.client.SetNX(ctx, checkoutKey(key), pendingMarker, pendingTTL).Result()
	if err != nil {
		return service.IdempotencyClaim{}, fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return service.IdempotencyClaim{Acquired: true}, nil
	}

	val, err := s.client.Get(ctx, checkoutKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Holder vanished between SETNX and GET; treat as in flight,
			// the caller can simply retry.
			return service.IdempotencyClaim{InFlight: true}, nil
		}
		return service.IdempotencyClaim{}, fmt.Errorf("idempotency lookup: %w", err)
	}

	switch {
	case val == pendingMarker:
		return service.IdempotencyClaim{InFlight: true}, nil
	case strings.HasPrefix(val, reconcilePrefix):
		return service.IdempotencyClaim{ReconcileChargeID: strings.TrimPrefix(val, reconcilePrefix)}, nil
	default:
		return service.IdempotencyClaim{CompletedOrderID: val}, nil
	}
}

func (s *IdempotencyStore) Complete(ctx context.Context, key, orderID string) error {
	return s.client.Set(ctx, checkoutKey(key), orderID, completedTTL).Err()
}

// MarkReconciliation poisons the key: no TTL, so a retry can never slip in
// a second charge after the marker would have expired. The durable mongo
// record is the operator's cue to clean both up.
func (s *IdempotencyStore) MarkReconciliation(ctx context.Context, key, chargeID string) error {
	return s.client.Set(ctx, checkoutKey(key), reconcilePrefix+chargeID, 0).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, checkoutKey(key)).Err()
}

func checkoutKey(key string) string {
	return "checkout:" + key
}

// CheckoutGuard serializes checkouts per user with a SETNX marker.
type CheckoutGuard struct {
	client *redis.Client
}

func NewCheckoutGuard(client *redis.Client) *CheckoutGuard {
	return &CheckoutGuard{client: client}
}

func (g *CheckoutGuard) Acquire(ctx context.Context, userID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, guardKey(userID), "1", guardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire checkout guard: %w", err)
	}
	return ok, nil
}

func (g *CheckoutGuard) Release(ctx context.Context, userID string) error {
	return g.client.Del(ctx, guardKey(userID)).Err()
}

func guardKey(userID string) string {
	return "checkout:user:" + userID
}
