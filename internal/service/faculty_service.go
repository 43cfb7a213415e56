package service

import (
	"context"

	"github.com/campusroll/attendance-backend/internal/config"
	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/repository"
)

// FacultyService handles faculty business logic.
type FacultyService struct {
	facultyRepo *repository.FacultyRepository
	auth        *AuthService
	cfg         *config.Config
	cache       *ReportCache
}

// NewFacultyService creates a new FacultyService.
func NewFacultyService(facultyRepo *repository.FacultyRepository, auth *AuthService, cfg *config.Config, cache *ReportCache) *FacultyService {
	return &FacultyService{facultyRepo: facultyRepo, auth: auth, cfg: cfg, cache: cache}
}

// GetByID retrieves a faculty member by ID.
func (s *FacultyService) GetByID(ctx context.Context, id int) (*model.Faculty, error) {
	return s.facultyRepo.GetByID(ctx, id)
}

// List retrieves all faculty.
func (s *FacultyService) List(ctx context.Context) ([]model.Faculty, error) {
	return s.facultyRepo.List(ctx)
}

// Create inserts a faculty member. An empty password falls back to the configured default.
func (s *FacultyService) Create(ctx context.Context, f *model.Faculty, password string) error {
	if password == "" {
		password = s.cfg.DefaultFacultyPassword
	}
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return err
	}
	f.PasswordHash = hash
	if err := s.facultyRepo.Create(ctx, f); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	return nil
}

// Update modifies a faculty member. An empty password keeps the current one.
func (s *FacultyService) Update(ctx context.Context, f *model.Faculty, password string) error {
	f.PasswordHash = ""
	if password != "" {
		hash, err := s.auth.HashPassword(password)
		if err != nil {
			return err
		}
		f.PasswordHash = hash
	}
	if err := s.facultyRepo.Update(ctx, f); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	return nil
}

// Delete removes a faculty member.
func (s *FacultyService) Delete(ctx context.Context, id int) error {
	if err := s.facultyRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	return nil
}
