package models

import "time"

// User is a credential record. PasswordHash is a bcrypt hash; the plain
// password is never stored.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}
