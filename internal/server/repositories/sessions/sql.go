package sessions

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

// SQLRepository implements Repository over dbx.DBTX. Expiry is stored as
// unix seconds, the same resolution tokens carry.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Create(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (token_hash, username, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET username = EXCLUDED.username, expires_at = EXCLUDED.expires_at
	`
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), s.TokenHash, s.UserName, s.ExpiresAt.Unix()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Find(ctx context.Context, tokenHash string, now time.Time) (*models.Session, error) {
	query := `
		SELECT username, expires_at
		FROM sessions
		WHERE token_hash = $1 AND expires_at > $2
	`
	s := &models.Session{TokenHash: tokenHash}
	var expires int64
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), tokenHash, now.Unix()).Scan(&s.UserName, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	s.ExpiresAt = time.Unix(expires, 0).UTC()
	return s, nil
}

func (r *SQLRepository) Delete(ctx context.Context, tokenHash string) error {
	query := `DELETE FROM sessions WHERE token_hash = $1`
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), tokenHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= $1`
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), now.Unix())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
