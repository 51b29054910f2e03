package domain

import "time"

// Item is a catalog entry. Price is in minor currency units (cents).
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	LargeImage  string    `json:"large_image,omitempty"`
	Price       int64     `json:"price"`
	// UserID is the creator; deletion requires ownership or the
	// ADMIN/ITEMDELETE permissions.
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
