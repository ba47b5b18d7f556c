package files

import (
	"context"

	"github.com/dmitrijs2005/cloudstore/internal/server/models"
)

// Repository stores file metadata. Every method is scoped by owner; there
// is no way to address a file by name alone.
type Repository interface {
	// Create inserts a file row and fills in ID. A second row with the same
	// owner and filename yields common.ErrorAlreadyExists.
	Create(ctx context.Context, file *models.File) (*models.File, error)
	// FindAllByOwner lists at most limit files of owner in insertion order.
	FindAllByOwner(ctx context.Context, owner string, limit int) ([]models.FileInfo, error)
	// FindByFilenameAndOwner returns common.ErrorNotFound when absent.
	FindByFilenameAndOwner(ctx context.Context, key models.FileKey) (*models.File, error)
	// DeleteByFilenameAndOwner removes the row and returns it, or nil if
	// there was nothing to remove.
	DeleteByFilenameAndOwner(ctx context.Context, key models.FileKey) (*models.File, error)
	// RenameByFilenameAndOwner returns the number of renamed rows (0 or 1).
	// Renaming onto a taken name yields common.ErrorAlreadyExists.
	RenameByFilenameAndOwner(ctx context.Context, key models.FileKey, newFilename string) (int64, error)
}
