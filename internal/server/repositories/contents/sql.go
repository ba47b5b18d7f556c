package contents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/dbx"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Put(ctx context.Context, key string, data []byte) error {
	query := `INSERT INTO file_contents (storage_key, data) VALUES ($1, $2)`
	if data == nil {
		data = []byte{}
	}
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), key, data); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT data FROM file_contents WHERE storage_key = $1`

	var data []byte
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), key).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func (r *SQLRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM file_contents WHERE storage_key = $1`
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
