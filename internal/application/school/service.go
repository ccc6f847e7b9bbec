package school

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/school-directory/internal/domain"
	"github.com/school-directory/internal/pkg/validate"
)

type SchoolStore interface {
	List(ctx context.Context) ([]domain.School, error)
	Create(ctx context.Context, s *domain.School) error
}

type Service interface {
	List(ctx context.Context) ([]domain.School, error)
	Create(ctx context.Context, req domain.CreateSchoolRequest) (*domain.School, error)
}

type ServiceDeps struct {
	Store SchoolStore
	Now   func() time.Time
}

type service struct {
	store SchoolStore
	now   func() time.Time
}

func NewService(d ServiceDeps) Service {
	s := &service{store: d.Store, now: d.Now}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) List(ctx context.Context) ([]domain.School, error) {
	schools, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w: %w", domain.ErrUnavailable, err)
	}
	return schools, nil
}

func (s *service) Create(ctx context.Context, req domain.CreateSchoolRequest) (*domain.School, error) {
	req = trim(req)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	sc := &domain.School{
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Contact:   req.Contact,
		EmailID:   strings.ToLower(req.EmailID),
		Image:     req.Image,
		CreatedAt: s.now().UTC(),
	}
	err := s.store.Create(ctx, sc)
	if errors.Is(err, domain.ErrConflict) {
		return nil, fmt.Errorf("Email already exists: %w", domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("create school: %w: %w", domain.ErrUnavailable, err)
	}
	return sc, nil
}

func trim(req domain.CreateSchoolRequest) domain.CreateSchoolRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.City = strings.TrimSpace(req.City)
	req.State = strings.TrimSpace(req.State)
	req.Contact = strings.TrimSpace(req.Contact)
	req.EmailID = strings.TrimSpace(req.EmailID)
	if req.Image != nil && strings.TrimSpace(*req.Image) == "" {
		req.Image = nil
	}
	return req
}
