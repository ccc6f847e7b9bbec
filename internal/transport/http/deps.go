package http

import (
	"context"
	"io"
	"time"

	"github.com/school-directory/internal/domain"
	jwtinfra "github.com/school-directory/internal/infrastructure/jwt"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

// OTPRepository is the minimal interface the router requires from a one-time code store.
type OTPRepository interface {
	Create(ctx context.Context, c *domain.OneTimeCode) error
	LatestActive(ctx context.Context, email string, now time.Time) (*domain.OneTimeCode, error)
	Consume(ctx context.Context, id uint) (bool, error)
}

// SessionRepository is the minimal interface the router requires from a session store.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	UserByToken(ctx context.Context, token string, now time.Time) (*domain.User, error)
}

// SchoolRepository is the minimal interface the router requires from a school store.
type SchoolRepository interface {
	List(ctx context.Context) ([]domain.School, error)
	Create(ctx context.Context, s *domain.School) error
}

// Mailer is satisfied by the SMTP and SendGrid adapters.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

// ObjectStore is satisfied by the S3 and Cloudinary adapters.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// TokenProvider signs and verifies session tokens.
type TokenProvider interface {
	Sign(userID uint) (string, time.Time, error)
	Verify(token string) (*jwtinfra.Claims, error)
}
