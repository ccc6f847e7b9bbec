package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/school-directory/internal/domain"
	"gorm.io/gorm"
)

// SessionRepo provides typed operations for the user_sessions table.
type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Create(ctx context.Context, s *domain.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// UserByToken joins user_sessions to users and returns the owner of token when
// the stored session has not expired at now.
func (r *SessionRepo) UserByToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN user_sessions ON user_sessions.user_id = users.id").
		Where("user_sessions.session_token = ? AND user_sessions.expires_at > ?", token, now).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("session not found: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
