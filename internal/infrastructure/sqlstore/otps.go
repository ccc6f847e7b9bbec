package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/school-directory/internal/domain"
	"gorm.io/gorm"
)

// OTPRepo provides typed operations for the otps table. Rows are only ever
// inserted or flipped to consumed; nothing here deletes them.
type OTPRepo struct {
	db *gorm.DB
}

func NewOTPRepo(db *gorm.DB) *OTPRepo {
	return &OTPRepo{db: db}
}

func (r *OTPRepo) Create(ctx context.Context, c *domain.OneTimeCode) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// LatestActive returns the newest unconsumed code for email that is still
// valid at now. Ties on created_at resolve to the higher id.
func (r *OTPRepo) LatestActive(ctx context.Context, email string, now time.Time) (*domain.OneTimeCode, error) {
	var c domain.OneTimeCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_used = ? AND expires_at > ?", email, false, now).
		Order("created_at DESC").
		Order("id DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no active otp: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Consume marks the code used if and only if it is still unused. It reports
// false when another caller consumed it first.
func (r *OTPRepo) Consume(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.OneTimeCode{}).
		Where("id = ? AND is_used = ?", id, false).
		Update("is_used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
