package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues HS256 tokens and decides whether a presented token
// is still good. A token is good while its signature verifies, it has not
// expired and it has not been revoked.
type TokenService struct {
	secret   []byte
	validity time.Duration
	sessions SessionStore
	now      func() time.Time
	logger   logging.Logger
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// WithLogger sets the logger used by Sweep.
func WithLogger(l logging.Logger) TokenOption {
	return func(s *TokenService) { s.logger = l }
}

func NewTokenService(secret []byte, validity time.Duration, sessions SessionStore, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret:   secret,
		validity: validity,
		sessions: sessions,
		now:      time.Now,
		logger:   logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Issue creates a token for id and records it as an active session.
func (s *TokenService) Issue(ctx context.Context, id Identity) (string, error) {
	if id.IsZero() {
		return "", fmt.Errorf("%w: empty identity", common.ErrorValidation)
	}

	now := s.now()
	expiresAt := now.Add(s.validity)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id.name,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	// NumericDate truncates to seconds; store what the token says.
	if err := s.sessions.Add(ctx, hashToken(signed), id.name, time.Unix(expiresAt.Unix(), 0)); err != nil {
		return "", err
	}

	return signed, nil
}

// Validate reports whether token may be used now. Failures wrap
// common.ErrInvalidToken, plus common.ErrTokenExpired for expired tokens.
func (s *TokenService) Validate(ctx context.Context, token string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, s.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return fmt.Errorf("%w: no subject", common.ErrInvalidToken)
	}

	active, err := s.sessions.Contains(ctx, hashToken(token), s.now())
	if err != nil {
		return err
	}
	if !active {
		return fmt.Errorf("%w: revoked", common.ErrInvalidToken)
	}
	return nil
}

// ExtractIdentity returns the subject of a correctly signed token without
// checking freshness or revocation. Only trust the result after Validate;
// Authenticate does both.
func (s *TokenService) ExtractIdentity(token string) (Identity, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, s.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: no subject", common.ErrInvalidToken)
	}
	return Identity{name: claims.Subject}, nil
}

// Authenticate validates token and returns its identity. Transports call
// this and nothing else.
func (s *TokenService) Authenticate(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, fmt.Errorf("%w: missing token", common.ErrInvalidToken)
	}
	if err := s.Validate(ctx, token); err != nil {
		return Identity{}, err
	}
	return s.ExtractIdentity(token)
}

// Revoke ends the session of token. Unknown, already revoked or malformed
// tokens are ignored.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Remove(ctx, hashToken(token))
}

// Sweep purges expired sessions every interval until ctx is done.
func (s *TokenService) Sweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.sessions.Purge(ctx, s.now())
			if err != nil {
				s.logger.Error(ctx, "session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Debug(ctx, "expired sessions purged", "count", n)
			}
		}
	}
}

func (s *TokenService) key(*jwt.Token) (any, error) {
	return s.secret, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
