package users

import (
	"context"

	"github.com/dmitrijs2005/cloudstore/internal/server/models"
)

type Repository interface {
	// Create stores a new credential record and fills in its ID.
	// A taken username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound when no such user exists.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
