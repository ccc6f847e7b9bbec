package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/school-directory/internal/domain"
	"gorm.io/gorm"
)

// UserRepo provides typed operations for the users table.
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u and fills in its ID. A second user with the same email
// yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	return err
}
