package service

import (
	"context"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/repository"
	"github.com/campusroll/attendance-backend/internal/validator"
)

// AcademicYearService handles academic year business logic.
type AcademicYearService struct {
	repo *repository.AcademicYearRepository
}

// NewAcademicYearService creates a new AcademicYearService.
func NewAcademicYearService(repo *repository.AcademicYearRepository) *AcademicYearService {
	return &AcademicYearService{repo: repo}
}

func (s *AcademicYearService) List(ctx context.Context) ([]model.AcademicYear, error) {
	return s.repo.List(ctx)
}

// Create stores a new academic year from a validated request.
func (s *AcademicYearService) Create(ctx context.Context, req model.AcademicYearRequest) (*model.AcademicYear, error) {
	y := academicYearFrom(req)
	if err := s.repo.Create(ctx, y); err != nil {
		return nil, err
	}
	return y, nil
}

// Update replaces an academic year.
func (s *AcademicYearService) Update(ctx context.Context, id int, req model.AcademicYearRequest) (*model.AcademicYear, error) {
	y := academicYearFrom(req)
	y.ID = id
	if err := s.repo.Update(ctx, y); err != nil {
		return nil, err
	}
	return y, nil
}

func (s *AcademicYearService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func academicYearFrom(req model.AcademicYearRequest) *model.AcademicYear {
	return &model.AcademicYear{
		Year:      req.Year,
		StartDate: parseOptionalDate(req.StartDate),
		EndDate:   parseOptionalDate(req.EndDate),
		Type:      req.Type,
	}
}

// parseOptionalDate parses an already validated YYYY-MM-DD value.
func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(validator.DateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
