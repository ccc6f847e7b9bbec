package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/school-directory/internal/domain"
	"gorm.io/gorm"
)

// SchoolRepo provides typed operations for the schools table.
type SchoolRepo struct {
	db *gorm.DB
}

func NewSchoolRepo(db *gorm.DB) *SchoolRepo {
	return &SchoolRepo{db: db}
}

// List returns every school, newest first.
func (r *SchoolRepo) List(ctx context.Context) ([]domain.School, error) {
	schools := []domain.School{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&schools).Error
	return schools, err
}

func (r *SchoolRepo) Create(ctx context.Context, s *domain.School) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("email already exists: %w", domain.ErrConflict)
	}
	return err
}
