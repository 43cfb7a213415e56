package service

import (
	"context"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/repository"
)

// ClassService handles class business logic.
type ClassService struct {
	classRepo *repository.ClassRepository
	cache     *ReportCache
}

// NewClassService creates a new ClassService.
func NewClassService(classRepo *repository.ClassRepository, cache *ReportCache) *ClassService {
	return &ClassService{classRepo: classRepo, cache: cache}
}

// GetByID retrieves a class by its ID.
func (s *ClassService) GetByID(ctx context.Context, id int) (*model.Class, error) {
	return s.classRepo.GetByID(ctx, id)
}

// List retrieves classes, optionally narrowed by year, semester and department.
func (s *ClassService) List(ctx context.Context, f model.ClassFilter) ([]model.Class, error) {
	return s.classRepo.List(ctx, f)
}

// Create creates a new class.
func (s *ClassService) Create(ctx context.Context, class *model.Class) error {
	if class.Credits <= 0 {
		class.Credits = model.DefaultCredits
	}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	return nil
}

// Update modifies an existing class.
func (s *ClassService) Update(ctx context.Context, class *model.Class) error {
	if class.Credits <= 0 {
		class.Credits = model.DefaultCredits
	}
	if err := s.classRepo.Update(ctx, class); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	return nil
}

// Delete removes a class together with its attendance.
func (s *ClassService) Delete(ctx context.Context, id int) error {
	if err := s.classRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	return nil
}
