package domain

import "time"

// OrderLine is a value snapshot of a purchased item plus the quantity
// bought. It deliberately copies the item's attributes so later catalog
// edits never alter historical orders. ItemID is kept as a reference only.
type OrderLine struct {
	ItemID      string `json:"item_id" bson:"item_id"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Image       string `json:"image,omitempty" bson:"image,omitempty"`
	LargeImage  string `json:"large_image,omitempty" bson:"large_image,omitempty"`
	Price       int64  `json:"price" bson:"price"`
	Quantity    int64  `json:"quantity" bson:"quantity"`
}

// Order is a durable receipt. Immutable once created; Total is the amount
// the processor actually charged, not the pre-charge estimate.
type Order struct {
	ID        string      `json:"id" bson:"_id"`
	UserID    string      `json:"user_id" bson:"user_id"`
	Total     int64       `json:"total" bson:"total"`
	Currency  string      `json:"currency" bson:"currency"`
	ChargeID  string      `json:"charge_id" bson:"charge_id"`
	Lines     []OrderLine `json:"lines" bson:"lines"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}
