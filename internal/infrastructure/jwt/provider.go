package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/school-directory/internal/config"
)

// Claims holds the session token payload.
type Claims struct {
	UserID    uint  `json:"userId"`
	Timestamp int64 `json:"timestamp"` // issuance in Unix milliseconds
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens with a process-wide secret.
type Provider struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// Option customises a Provider.
type Option func(*Provider)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

func NewProvider(cfg *config.Config, opts ...Option) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	p := &Provider{secret: []byte(cfg.JWTSecret), expiry: cfg.SessionExpiry, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Expiry is the lifetime embedded in every signed token.
func (p *Provider) Expiry() time.Duration { return p.expiry }

// Sign returns a token for userID and the expiry embedded in it.
func (p *Provider) Sign(userID uint) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(p.expiry)
	claims := Claims{
		UserID:    userID,
		Timestamp: now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks segment structure, the HMAC signature and the embedded
// expiry. It never touches the store.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
