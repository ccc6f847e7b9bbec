package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/school-directory/internal/domain"
	jwtinfra "github.com/school-directory/internal/infrastructure/jwt"
	"github.com/school-directory/internal/logger"
	"go.uber.org/zap"
)

// Mode selects how much a token is trusted before it is accepted.
type Mode int

const (
	// Structural checks the token's signature, shape and embedded expiry only.
	// It never touches the store and cannot see revoked sessions.
	Structural Mode = iota
	// Authoritative additionally requires the token to be recorded against an
	// existing user with an unexpired store-side expiry.
	Authoritative
)

func (m Mode) String() string {
	switch m {
	case Structural:
		return "structural"
	case Authoritative:
		return "authoritative"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// TokenProvider signs and parses self-describing session tokens.
type TokenProvider interface {
	Sign(userID uint) (string, time.Time, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

// SessionStore records issued tokens.
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	UserByToken(ctx context.Context, token string, now time.Time) (*domain.User, error)
}

type Service interface {
	// Create signs a token for userID and records it. It returns the token
	// and the expiry shared by the token and its store row.
	Create(ctx context.Context, userID uint) (string, time.Time, error)
	// Validate resolves token to its user. Any token that fails the checks of
	// mode yields ErrUnauthorized. Structural mode returns a user carrying only
	// its ID.
	Validate(ctx context.Context, token string, mode Mode) (*domain.User, error)
}

type ServiceDeps struct {
	Tokens TokenProvider
	Store  SessionStore
	Now    func() time.Time
}

type service struct {
	tokens TokenProvider
	store  SessionStore
	now    func() time.Time
}

func NewService(d ServiceDeps) Service {
	s := &service{tokens: d.Tokens, store: d.Store, now: d.Now}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Create(ctx context.Context, userID uint) (string, time.Time, error) {
	token, exp, err := s.tokens.Sign(userID)
	if err != nil {
		return "", time.Time{}, err
	}
	sess := &domain.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: exp.UTC(),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w: %w", domain.ErrUnavailable, err)
	}
	return token, exp, nil
}

func (s *service) Validate(ctx context.Context, token string, mode Mode) (*domain.User, error) {
	if token == "" {
		return nil, fmt.Errorf("missing session token: %w", domain.ErrUnauthorized)
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		logger.Debug("session token rejected", zap.Stringer("mode", mode), zap.Error(err))
		return nil, fmt.Errorf("invalid session token: %w", domain.ErrUnauthorized)
	}
	if mode == Structural {
		return &domain.User{ID: claims.UserID}, nil
	}

	u, err := s.store.UserByToken(ctx, token, s.now().UTC())
	if errors.Is(err, domain.ErrUnauthorized) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w: %w", domain.ErrUnavailable, err)
	}
	if u.ID != claims.UserID {
		logger.Warn("session token user mismatch", zap.Uint("claim_user_id", claims.UserID), zap.Uint("stored_user_id", u.ID))
		return nil, fmt.Errorf("session user mismatch: %w", domain.ErrUnauthorized)
	}
	return u, nil
}
