package domain

import "time"

// User models an authenticated actor in the system.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Permissions  []Permission `json:"permissions"`
	// ResetToken and its expiry are set by a password-reset request and
	// nulled on consumption. Single use.
	ResetToken       string     `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
