package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// CartService is the cart ledger. The add path delegates to the repo's
// atomic upsert-increment so two near-simultaneous adds of the same item
// can never create two lines or lose an update.
type CartService struct {
	carts ports.CartRepository
	items ports.ItemRepository
	log   zerolog.Logger
}

func NewCartService(carts ports.CartRepository, items ports.ItemRepository, log zerolog.Logger) *CartService {
	return &CartService{carts: carts, items: items, log: log}
}

func (s *CartService) AddItem(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	// The item must exist before a line can reference it.
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	line, err := s.carts.UpsertIncrement(ctx, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	s.log.Debug().Str("user_id", userID).Str("item_id", itemID).Int64("quantity", line.Quantity).Msg("cart line incremented")
	return line, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, cartItemID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	line, err := s.carts.FindByID(ctx, cartItemID)
	if err != nil {
		return err
	}
	if line.UserID != userID {
		return domain.ErrForbidden
	}

	return s.carts.Delete(ctx, cartItemID)
}

// Snapshot joins the user's cart lines with their catalog items, ordered
// by line creation time. Lines whose item has vanished from the catalog
// are skipped rather than failing the whole snapshot.
func (s *CartService) Snapshot(ctx context.Context, userID string) ([]domain.CartLine, error) {
	lines, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	itemsByID, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}

	snapshot := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		item, ok := itemsByID[l.ItemID]
		if !ok {
			s.log.Warn().Str("cart_item_id", l.ID).Str("item_id", l.ItemID).Msg("cart line references missing item, skipping")
			continue
		}
		snapshot = append(snapshot, domain.CartLine{CartItem: *l, Item: *item})
	}

	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].CartItem.CreatedAt.Before(snapshot[j].CartItem.CreatedAt)
	})
	return snapshot, nil
}

// Clear removes exactly the given line ids. Lines added after the caller's
// snapshot keep their ids and therefore survive.
func (s *CartService) Clear(ctx context.Context, userID string, cartItemIDs []string) error {
	if len(cartItemIDs) == 0 {
		return nil
	}
	return s.carts.DeleteByIDs(ctx, userID, cartItemIDs)
}
