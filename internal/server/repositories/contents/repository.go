// Package contents stores file bytes in the database, keyed by storage key.
// It is the default content store; blobstore.S3Store is the alternative.
package contents

import "context"

type Repository interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get returns common.ErrorNotFound for an unknown key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete of an unknown key is not an error.
	Delete(ctx context.Context, key string) error
}
