// Package servertest builds a fully wired server stack on a throwaway
// SQLite database for transport tests.
package servertest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/cloudstore/internal/dbx"
	"github.com/dmitrijs2005/cloudstore/internal/logging"
	"github.com/dmitrijs2005/cloudstore/internal/server/auth"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cloudstore/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const MaxUploadSize = 1 << 20

type Stack struct {
	Users   *services.UserService
	Storage *services.StorageService
	Tokens  *auth.TokenService
}

// New returns a Stack backed by a migrated SQLite file in t.TempDir.
func New(t *testing.T) *Stack {
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

	return &Stack{
		Users:   services.NewUserService(db, rm, verifier, tokens, hasher, log),
		Storage: services.NewStorageService(db, rm, rm.Contents(db), log, MaxUploadSize),
		Tokens:  tokens,
	}
}

// AddUser registers name with password and fails the test on error.
func (s *Stack) AddUser(t *testing.T, name, password string) {
	t.Helper()
	_, err := s.Users.Register(context.Background(), name, password)
	require.NoError(t, err)
}

// Login returns a token for name and fails the test on error.
func (s *Stack) Login(t *testing.T, name, password string) string {
	t.Helper()
	token, err := s.Users.Login(context.Background(), name, password)
	require.NoError(t, err)
	return token
}
