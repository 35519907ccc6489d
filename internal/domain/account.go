package domain

import "time"

// Account represents a registered user of the system. PasswordHash holds a
// bcrypt hash; the plaintext password is never persisted.
type Account struct {
	ID           int64
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
