// Package sessions persists active tokens so that logins survive a
// server restart.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cloudstore/internal/server/models"
)

// Repository stores sessions keyed by token hash.
type Repository interface {
	// Create stores a session. Re-adding the same hash replaces it.
	Create(ctx context.Context, s *models.Session) error

	// Find returns common.ErrorNotFound when the hash is unknown or the
	// session expired at or before now.
	Find(ctx context.Context, tokenHash string, now time.Time) (*models.Session, error)

	// Delete removes a session. Deleting a non-existent session is not an error.
	Delete(ctx context.Context, tokenHash string) error

	// DeleteExpired removes sessions that expired at or before now and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
