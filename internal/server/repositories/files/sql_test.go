package files

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/dbx"
	"github.com/dmitrijs2005/cloudstore/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db, dbx.Postgres), mock, db
}

var fileCols = []string{"id", "owner", "filename", "content_type", "size", "storage_key", "created_at", "updated_at"}

var key = models.FileKey{Owner: "alice", Filename: "a.txt"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+files\s*\(owner,.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*RETURNING\s+id\s*$`
	mock.ExpectQuery(q).
		WithArgs("alice", "a.txt", "text/plain", int64(5), "k1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	got, err := repo.Create(context.Background(), &models.File{
		Owner: "alice", Filename: "a.txt", ContentType: "text/plain", Size: 5, StorageKey: "k1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+files`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.File{Owner: "alice", Filename: "a.txt"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestFindAllByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+filename,\s*size\s+FROM\s+files\s+WHERE\s+owner\s*=\s*\$1\s+ORDER\s+BY\s+id\s+LIMIT\s+\$2\s*$`
	mock.ExpectQuery(q).
		WithArgs("alice", 10).
		WillReturnRows(sqlmock.NewRows([]string{"filename", "size"}).
			AddRow("a.txt", int64(5)).
			AddRow("b.txt", int64(0)))

	got, err := repo.FindAllByOwner(context.Background(), "alice", 10)
	require.NoError(t, err)
	assert.Equal(t, []models.FileInfo{{Filename: "a.txt", Size: 5}, {Filename: "b.txt", Size: 0}}, got)
}

func TestFindAllByOwner_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+filename`).
		WithArgs("bob", 3).
		WillReturnRows(sqlmock.NewRows([]string{"filename", "size"}))

	got, err := repo.FindAllByOwner(context.Background(), "bob", 3)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindAllByOwner_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+filename`).WillReturnError(errors.New("db down"))

	_, err := repo.FindAllByOwner(context.Background(), "alice", 1)
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestFindByFilenameAndOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	q := `(?s)^SELECT\s+id,.*FROM\s+files\s+WHERE\s+owner\s*=\s*\$1\s+AND\s+filename\s*=\s*\$2$`
	mock.ExpectQuery(q).
		WithArgs("alice", "a.txt").
		WillReturnRows(sqlmock.NewRows(fileCols).
			AddRow(int64(1), "alice", "a.txt", "text/plain", int64(5), "k1", now, now))

	got, err := repo.FindByFilenameAndOwner(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "k1", got.StorageKey)
	assert.Equal(t, "text/plain", got.ContentType)
}

func TestFindByFilenameAndOwner_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,`).
		WithArgs("alice", "a.txt").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByFilenameAndOwner(context.Background(), key)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteByFilenameAndOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	q := `(?s)^DELETE\s+FROM\s+files\s+WHERE\s+owner\s*=\s*\$1\s+AND\s+filename\s*=\s*\$2\s+RETURNING\s+id,`
	mock.ExpectQuery(q).
		WithArgs("alice", "a.txt").
		WillReturnRows(sqlmock.NewRows(fileCols).
			AddRow(int64(1), "alice", "a.txt", "text/plain", int64(5), "k1", now, now))

	got, err := repo.DeleteByFilenameAndOwner(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "k1", got.StorageKey)
}

func TestDeleteByFilenameAndOwner_Absent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`DELETE\s+FROM\s+files`).
		WithArgs("alice", "a.txt").
		WillReturnRows(sqlmock.NewRows(fileCols))

	got, err := repo.DeleteByFilenameAndOwner(context.Background(), key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRenameByFilenameAndOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+files\s+SET\s+filename\s*=\s*\$1,\s*updated_at\s*=\s*\$2\s+WHERE\s+owner\s*=\s*\$3\s+AND\s+filename\s*=\s*\$4\s*$`

	mock.ExpectExec(q).
		WithArgs("b.txt", sqlmock.AnyArg(), "alice", "a.txt").
		WillReturnResult(sqlmock.NewResult(0, 1))
	n, err := repo.RenameByFilenameAndOwner(context.Background(), key, "b.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mock.ExpectExec(q).
		WithArgs("b.txt", sqlmock.AnyArg(), "alice", "a.txt").
		WillReturnResult(sqlmock.NewResult(0, 0))
	n, err = repo.RenameByFilenameAndOwner(context.Background(), key, "b.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	mock.ExpectExec(q).
		WithArgs("b.txt", sqlmock.AnyArg(), "alice", "a.txt").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = repo.RenameByFilenameAndOwner(context.Background(), key, "b.txt")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}
