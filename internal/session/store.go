// ==============================================================================
// SESSION STORE - internal/session/store.go
// ==============================================================================
package session

import (
	"context"
	"time"

	"verid/internal/domain"
	veriderrors "verid/pkg/errors"
)

// Context carries the stored user identity injected into the pipeline.
// It is an explicit input, never read from ambient state.
type Context struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// CachedProfile is the per-session snapshot the export endpoints read.
// It is dropped on "New Verification" reset or TTL expiry.
type CachedProfile struct {
	Tier    domain.Tier              `json:"tier"`
	Draft   *domain.Draft            `json:"draft"`
	Profile *domain.CanonicalProfile `json:"profile"`
}

// Cache abstracts the Redis wrapper so tests can run against memory.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	cache      Cache
	sessionTTL time.Duration
	profileTTL time.Duration
}

func NewStore(cache Cache, sessionTTL, profileTTL time.Duration) *Store {
	return &Store{
		cache:      cache,
		sessionTTL: sessionTTL,
		profileTTL: profileTTL,
	}
}

func sessionKey(id string) string { return "verid:session:" + id }
func profileKey(id string) string { return "verid:profile:" + id }

func (s *Store) SaveContext(ctx context.Context, sessionID string, sc Context) error {
	return s.cache.Set(ctx, sessionKey(sessionID), sc, s.sessionTTL)
}

// LoadContext returns the stored identity, or an empty Context when none
// exists; a missing session is not an error for the pipeline.
func (s *Store) LoadContext(ctx context.Context, sessionID string) (Context, error) {
	var sc Context
	if err := s.cache.Get(ctx, sessionKey(sessionID), &sc); err != nil {
		return Context{}, nil
	}
	return sc, nil
}

func (s *Store) SaveProfile(ctx context.Context, sessionID string, cp *CachedProfile) error {
	return s.cache.Set(ctx, profileKey(sessionID), cp, s.profileTTL)
}

func (s *Store) LoadProfile(ctx context.Context, sessionID string) (*CachedProfile, error) {
	var cp CachedProfile
	if err := s.cache.Get(ctx, profileKey(sessionID), &cp); err != nil {
		return nil, veriderrors.ErrProfileNotFound
	}
	if cp.Profile == nil {
		return nil, veriderrors.ErrProfileNotFound
	}
	return &cp, nil
}

func (s *Store) DeleteProfile(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, profileKey(sessionID))
}
