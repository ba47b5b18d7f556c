package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/server/models"
)

// CredentialStore looks up credential records by login.
// It returns common.ErrorNotFound for an unknown login.
type CredentialStore interface {
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

// Verifier checks a login/password pair against stored credentials.
type Verifier struct {
	users  CredentialStore
	hasher PasswordHasher
	dummy  func() []byte
}

func NewVerifier(users CredentialStore, hasher PasswordHasher) *Verifier {
	return &Verifier{
		users:  users,
		hasher: hasher,
		dummy: sync.OnceValue(func() []byte {
			h, _ := hasher.Hash("cloudstore-dummy-password")
			return h
		}),
	}
}

// Verify returns the identity of login if password matches its stored hash.
//
// Unknown logins and wrong passwords both yield common.ErrorUnauthorized,
// and both pay for one hash comparison.
func (v *Verifier) Verify(ctx context.Context, login, password string) (Identity, error) {
	if login == "" || password == "" {
		return Identity{}, common.ErrorUnauthorized
	}

	user, err := v.users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = v.hasher.Compare(v.dummy(), password)
			return Identity{}, common.ErrorUnauthorized
		}
		return Identity{}, fmt.Errorf("%w: %w", common.ErrorBackendUnavailable, err)
	}

	if err := v.hasher.Compare(user.PasswordHash, password); err != nil {
		return Identity{}, common.ErrorUnauthorized
	}

	return Identity{name: user.UserName}, nil
}
