// Package files provides the SQL-backed repository for file metadata.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/dbx"
	"github.com/dmitrijs2005/cloudstore/internal/server/models"
)

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

const fileColumns = `id, owner, filename, content_type, size, storage_key, created_at, updated_at`

func (r *SQLRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (owner, filename, content_type, size, storage_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	now := time.Now().UTC()
	if file.CreatedAt.IsZero() {
		file.CreatedAt = now
	}
	file.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query),
		file.Owner, file.Filename, file.ContentType, file.Size, file.StorageKey, file.CreatedAt, file.UpdatedAt).
		Scan(&file.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *SQLRepository) FindAllByOwner(ctx context.Context, owner string, limit int) ([]models.FileInfo, error) {
	query := `
		SELECT filename, size FROM files
		WHERE owner = $1
		ORDER BY id
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), owner, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.FileInfo, 0)
	for rows.Next() {
		var item models.FileInfo
		if err := rows.Scan(&item.Filename, &item.Size); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) FindByFilenameAndOwner(ctx context.Context, key models.FileKey) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE owner = $1 AND filename = $2`

	f, err := scanFile(r.db.QueryRowContext(ctx, r.dialect.Rebind(query), key.Owner, key.Filename))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *SQLRepository) DeleteByFilenameAndOwner(ctx context.Context, key models.FileKey) (*models.File, error) {
	query := `DELETE FROM files WHERE owner = $1 AND filename = $2 RETURNING ` + fileColumns

	f, err := scanFile(r.db.QueryRowContext(ctx, r.dialect.Rebind(query), key.Owner, key.Filename))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *SQLRepository) RenameByFilenameAndOwner(ctx context.Context, key models.FileKey, newFilename string) (int64, error) {
	query := `
		UPDATE files SET filename = $1, updated_at = $2
		WHERE owner = $3 AND filename = $4
	`
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), newFilename, time.Now().UTC(), key.Owner, key.Filename)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return 0, common.ErrorAlreadyExists
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func scanFile(row *sql.Row) (*models.File, error) {
	f := &models.File{}
	err := row.Scan(&f.ID, &f.Owner, &f.Filename, &f.ContentType, &f.Size, &f.StorageKey, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}
