package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/dbx"
	"github.com/dmitrijs2005/cloudstore/internal/logging"
	"github.com/dmitrijs2005/cloudstore/internal/server/auth"
	"github.com/dmitrijs2005/cloudstore/internal/server/models"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/contents"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/files"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// identityFor produces an Identity the only way production code can: by
// verifying a password.
func identityFor(t *testing.T, name string) auth.Identity {
	t.Helper()
	h := auth.NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("pw")
	require.NoError(t, err)
	v := auth.NewVerifier(&fakeUsersRepo{users: map[string]*models.User{
		name: {ID: "id-" + name, UserName: name, PasswordHash: hash},
	}}, h)
	id, err := v.Verify(context.Background(), name, "pw")
	require.NoError(t, err)
	return id
}

// --- users ---

type fakeUsersRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	createErr error
	getErr    error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.users[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = "id-" + u.UserName
	u.CreatedAt = time.Now()
	f.users[u.UserName] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

// --- files ---

type fakeFilesRepo struct {
	mu        sync.Mutex
	rows      []*models.File
	nextID    int64
	err       error
	createErr error
}

func (f *fakeFilesRepo) Create(_ context.Context, file *models.File) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return nil, err
	}
	for _, r := range f.rows {
		if r.Owner == file.Owner && r.Filename == file.Filename {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	cp := *file
	cp.ID = f.nextID
	f.rows = append(f.rows, &cp)
	file.ID = cp.ID
	return file, nil
}

func (f *fakeFilesRepo) FindAllByOwner(_ context.Context, owner string, limit int) ([]models.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.FileInfo{}
	for _, r := range f.rows {
		if r.Owner == owner && len(out) < limit {
			out = append(out, models.FileInfo{Filename: r.Filename, Size: r.Size})
		}
	}
	return out, nil
}

func (f *fakeFilesRepo) FindByFilenameAndOwner(_ context.Context, key models.FileKey) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.rows {
		if r.Owner == key.Owner && r.Filename == key.Filename {
			cp := *r
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFilesRepo) DeleteByFilenameAndOwner(_ context.Context, key models.FileKey) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i, r := range f.rows {
		if r.Owner == key.Owner && r.Filename == key.Filename {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeFilesRepo) RenameByFilenameAndOwner(_ context.Context, key models.FileKey, newName string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var target *models.File
	for _, r := range f.rows {
		if r.Owner == key.Owner && r.Filename == newName && newName != key.Filename {
			return 0, common.ErrorAlreadyExists
		}
		if r.Owner == key.Owner && r.Filename == key.Filename {
			target = r
		}
	}
	if target == nil {
		return 0, nil
	}
	target.Filename = newName
	return 1, nil
}

// --- content ---

type fakeContent struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	putErr    error
	getErr    error
	deleteErr error
	deleted   []string
}

func newFakeContent() *fakeContent { return &fakeContent{blobs: map[string][]byte{}} }

func (f *fakeContent) Put(_ context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeContent) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.blobs[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

func (f *fakeContent) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.blobs, key)
	return nil
}

func (f *fakeContent) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	f *fakeFilesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository             { return m.f }
func (m *fakeRepoManager) Contents(dbx.DBTX) contents.Repository       { return nil }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository       { return nil }

// --- sqlite ---

// newSQLiteStack opens a migrated SQLite database in a temp dir and returns
// services backed by it, with file bytes kept in the database.
func newSQLiteStack(t *testing.T) (*UserService, *StorageService, *auth.TokenService) {
	t.Helper()
	ctx := context.Background()

	db, dialect, err := dbx.Open("sqlite:" + filepath.Join(t.TempDir(), "cloudstore.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(ctx, db))

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens := auth.NewTokenService([]byte("secret"), time.Hour, auth.NewRepoSessionStore(rm.Sessions(db)))
	verifier := auth.NewVerifier(rm.Users(db), hasher)
	log := logging.Nop()

	us := NewUserService(db, rm, verifier, tokens, hasher, log)
	ss := NewStorageService(db, rm, rm.Contents(db), log, 1<<20)
	return us, ss, tokens
}
