package service

import "github.com/storefront/commerce-api/internal/core/domain"

// ComputeTotal returns the authoritative total for a cart snapshot in
// minor currency units: sum(item.price * quantity). Deterministic and
// pure. The client never supplies a total; this recomputation is the sole
// source of truth, so a tampered client-side price has no effect.
func ComputeTotal(lines []domain.CartLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.Item.Price * line.CartItem.Quantity
	}
	return total
}
