// Package services contains server-side business logic: UserService for
// the login boundary and StorageService for owner-scoped file access.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/logging"
	"github.com/dmitrijs2005/cloudstore/internal/server/auth"
	"github.com/dmitrijs2005/cloudstore/internal/server/models"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/repomanager"
)

const maxUserNameLength = 64

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and issue a token
// - Logout: revoke a token
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	verifier    *auth.Verifier
	tokens      *auth.TokenService
	hasher      auth.PasswordHasher
	logger      logging.Logger
}

// NewUserService wires the credential verifier and token service together.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, verifier *auth.Verifier,
	tokens *auth.TokenService, hasher auth.PasswordHasher, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		verifier:    verifier,
		tokens:      tokens,
		hasher:      hasher,
		logger:      logger.With("module", "users"),
	}
}

// Register creates a user with a bcrypt hash of password.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validateUserName(username); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{UserName: username, PasswordHash: hash})
	if err != nil {
		return nil, classify(err)
	}
	s.logger.Info(ctx, "user registered", "username", username)
	return u, nil
}

// Login verifies credentials and returns a fresh token.
func (s *UserService) Login(ctx context.Context, login, password string) (string, error) {
	id, err := s.verifier.Verify(ctx, login, password)
	if err != nil {
		s.logger.Info(ctx, "login rejected", "username", login, "error", err)
		return "", err
	}

	token, err := s.tokens.Issue(ctx, id)
	if err != nil {
		return "", classify(err)
	}
	s.logger.Info(ctx, "login", "username", id.Name())
	return token, nil
}

// Logout revokes token. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return classify(err)
	}
	return nil
}

func validateUserName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty username", common.ErrorValidation)
	case len(name) > maxUserNameLength:
		return fmt.Errorf("%w: username longer than %d bytes", common.ErrorValidation, maxUserNameLength)
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return fmt.Errorf("%w: username contains whitespace", common.ErrorValidation)
	}
	return nil
}
