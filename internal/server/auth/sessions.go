package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/server/models"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/sessions"
)

// SessionStore holds the tokens that are currently usable. A token is
// usable only while its hash is present and unexpired.
type SessionStore interface {
	Add(ctx context.Context, tokenHash, userName string, expiresAt time.Time) error
	Contains(ctx context.Context, tokenHash string, now time.Time) (bool, error)
	// Remove is a no-op for unknown hashes.
	Remove(ctx context.Context, tokenHash string) error
	// Purge drops entries expired at now and returns how many were dropped.
	Purge(ctx context.Context, now time.Time) (int64, error)
}

type memorySession struct {
	userName  string
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process memory. They are lost on restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession)}
}

func (s *MemorySessionStore) Add(_ context.Context, tokenHash, userName string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenHash] = memorySession{userName: userName, expiresAt: expiresAt}
	return nil
}

func (s *MemorySessionStore) Contains(_ context.Context, tokenHash string, now time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[tokenHash]
	return ok && now.Before(sess.expiresAt), nil
}

func (s *MemorySessionStore) Remove(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenHash)
	return nil
}

func (s *MemorySessionStore) Purge(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RepoSessionStore keeps sessions in the database so they survive restarts.
type RepoSessionStore struct {
	repo sessions.Repository
}

func NewRepoSessionStore(repo sessions.Repository) *RepoSessionStore {
	return &RepoSessionStore{repo: repo}
}

func (s *RepoSessionStore) Add(ctx context.Context, tokenHash, userName string, expiresAt time.Time) error {
	err := s.repo.Create(ctx, &models.Session{TokenHash: tokenHash, UserName: userName, ExpiresAt: expiresAt})
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrorBackendUnavailable, err)
	}
	return nil
}

func (s *RepoSessionStore) Contains(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	if _, err := s.repo.Find(ctx, tokenHash, now); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", common.ErrorBackendUnavailable, err)
	}
	return true, nil
}

func (s *RepoSessionStore) Remove(ctx context.Context, tokenHash string) error {
	if err := s.repo.Delete(ctx, tokenHash); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorBackendUnavailable, err)
	}
	return nil
}

func (s *RepoSessionStore) Purge(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrorBackendUnavailable, err)
	}
	return n, nil
}
