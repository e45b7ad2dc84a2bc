package domain

import "time"

// Account is the auth provider's own credential record, kept apart from
// the application-level UserProfile the same way the hosted service kept
// auth users out of the usuarios table.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Confirmed    bool      `json:"confirmed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
