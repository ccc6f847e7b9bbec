package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/school-directory/internal/application/otp"
	"github.com/school-directory/internal/application/session"
	"github.com/school-directory/internal/domain"
	"github.com/school-directory/internal/logger"
	"github.com/school-directory/internal/pkg/validate"
	"go.uber.org/zap"
)

type SendOTPRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// LoginResult is returned after a code has been accepted.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// UserStore is the subset of the users table the login flow needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

type Service interface {
	SendOTP(ctx context.Context, req SendOTPRequest) error
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResult, error)
	// CurrentUser resolves a session cookie value with authoritative checks.
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

type ServiceDeps struct {
	OTP      otp.Service
	Sessions session.Service
	Users    UserStore
	Now      func() time.Time
}

type service struct {
	otp      otp.Service
	sessions session.Service
	users    UserStore
	now      func() time.Time
}

func NewService(d ServiceDeps) Service {
	s := &service{otp: d.OTP, sessions: d.Sessions, users: d.Users, now: d.Now}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// NormalizeEmail lower-cases and trims an address so that codes, users and
// lookups agree on a single spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) SendOTP(ctx context.Context, req SendOTPRequest) error {
	email := NormalizeEmail(req.Email)
	if email == "" {
		return fmt.Errorf("Email is required: %w", domain.ErrBadRequest)
	}
	if err := validate.Var(email, "email"); err != nil {
		return fmt.Errorf("Invalid email address: %w", domain.ErrBadRequest)
	}
	return s.otp.Issue(ctx, email)
}

func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResult, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.OTP == "" {
		return nil, fmt.Errorf("Email and OTP are required: %w", domain.ErrBadRequest)
	}
	if len(req.OTP) != otp.CodeLength {
		return nil, fmt.Errorf("OTP must be 6 digits: %w", domain.ErrBadRequest)
	}
	ok, err := s.otp.Verify(ctx, email, req.OTP)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("Invalid or expired OTP: %w", domain.ErrUnauthorized)
	}

	u, err := s.findOrCreateUser(ctx, email)
	if err != nil {
		return nil, err
	}
	token, exp, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	logger.Info("user signed in", zap.Uint("user_id", u.ID))
	return &LoginResult{User: u, Token: token, ExpiresAt: exp}, nil
}

func (s *service) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.sessions.Validate(ctx, token, session.Authoritative)
}

// findOrCreateUser returns the user for email, creating it as verified on
// first sign-in. A concurrent insert for the same email is resolved by
// re-reading the winner's row.
func (s *service) findOrCreateUser(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load user: %w: %w", domain.ErrUnavailable, err)
	}

	u = &domain.User{Email: email, IsVerified: true, CreatedAt: s.now().UTC()}
	err = s.users.Create(ctx, u)
	if errors.Is(err, domain.ErrConflict) {
		u, err = s.users.GetByEmail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w: %w", domain.ErrUnavailable, err)
	}
	return u, nil
}
