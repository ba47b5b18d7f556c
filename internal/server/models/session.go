package models

import "time"

// Session is an active token. TokenHash is the hex SHA-256 of the token,
// so the token itself is never persisted.
type Session struct {
	TokenHash string
	UserName  string
	ExpiresAt time.Time
}
