package domain

import "time"

// CartItem is one line in a user's cart. At most one line exists per
// (user, item) pair; repeat adds increment Quantity instead.
type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLine joins a cart line with its catalog item. Checkout prices and
// snapshots orders from a []CartLine captured at a single point in time.
type CartLine struct {
	CartItem CartItem `json:"cart_item"`
	Item     Item     `json:"item"`
}
