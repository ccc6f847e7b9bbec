package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/school-directory/internal/domain"
	"github.com/school-directory/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	CodeLength = 6
	codeMin    = 100000
	codeMax    = 999999
)

// CodeStore persists one-time codes.
type CodeStore interface {
	Create(ctx context.Context, c *domain.OneTimeCode) error
	LatestActive(ctx context.Context, email string, now time.Time) (*domain.OneTimeCode, error)
	Consume(ctx context.Context, id uint) (bool, error)
}

// Mailer delivers an HTML message to a single recipient.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

// Service issues and verifies emailed login codes.
type Service interface {
	// Issue stores a fresh code for email and mails it. A code may be stored
	// even when delivery then fails.
	Issue(ctx context.Context, email string) error
	// Verify reports whether code matches the newest active code for email
	// and, if so, consumes it. Errors are reserved for store failures.
	Verify(ctx context.Context, email, code string) (bool, error)
}

type ServiceDeps struct {
	Store    CodeStore
	Mailer   Mailer // nil when no relay is configured
	Expiry   time.Duration
	HashCost int
	Now      func() time.Time
	Generate func() (string, error)
}

type service struct {
	store    CodeStore
	mailer   Mailer
	expiry   time.Duration
	hashCost int
	now      func() time.Time
	generate func() (string, error)
}

func NewService(d ServiceDeps) Service {
	s := &service{
		store:    d.Store,
		mailer:   d.Mailer,
		expiry:   d.Expiry,
		hashCost: d.HashCost,
		now:      d.Now,
		generate: d.Generate,
	}
	if s.expiry <= 0 {
		s.expiry = 10 * time.Minute
	}
	if s.hashCost == 0 {
		s.hashCost = 12
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.generate == nil {
		s.generate = GenerateCode
	}
	return s
}

func (s *service) Issue(ctx context.Context, email string) error {
	if s.mailer == nil {
		return fmt.Errorf("email service not configured: %w", domain.ErrUnavailable)
	}
	code, err := s.generate()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}
	now := s.now().UTC()
	c := &domain.OneTimeCode{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return fmt.Errorf("store otp: %w: %w", domain.ErrUnavailable, err)
	}
	if err := s.mailer.SendEmail(ctx, email, EmailSubject, EmailBody(code, s.expiry)); err != nil {
		logger.Warn("otp stored but email delivery failed", zap.Uint("otp_id", c.ID), zap.Error(err))
		return fmt.Errorf("send otp email: %w: %w", domain.ErrUnavailable, err)
	}
	logger.Info("otp issued", zap.Uint("otp_id", c.ID), zap.Time("expires_at", c.ExpiresAt))
	return nil
}

func (s *service) Verify(ctx context.Context, email, code string) (bool, error) {
	if len(code) != CodeLength {
		return false, nil
	}
	c, err := s.store.LatestActive(ctx, email, s.now().UTC())
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load otp: %w: %w", domain.ErrUnavailable, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(code)) != nil {
		return false, nil
	}
	consumed, err := s.store.Consume(ctx, c.ID)
	if err != nil {
		return false, fmt.Errorf("consume otp: %w: %w", domain.ErrUnavailable, err)
	}
	if !consumed {
		logger.Warn("otp already consumed by a concurrent request", zap.Uint("otp_id", c.ID))
	}
	return consumed, nil
}

// GenerateCode draws a code uniformly from [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}
