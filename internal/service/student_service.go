package service

import (
	"context"
	"math"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/repository"
	"github.com/campusroll/attendance-backend/internal/response"
)

// StudentService handles student business logic.
type StudentService struct {
	studentRepo    *repository.StudentRepository
	attendanceRepo *repository.AttendanceRepository
	cache          *ReportCache
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, attendanceRepo *repository.AttendanceRepository, cache *ReportCache) *StudentService {
	return &StudentService{studentRepo: studentRepo, attendanceRepo: attendanceRepo, cache: cache}
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// ListStudents retrieves students with pagination and optional year/semester/department filters.
func (s *StudentService) ListStudents(ctx context.Context, f model.StudentFilter, page, perPage int) ([]model.Student, *response.Pagination, error) {
	page, perPage, offset := pageWindow(page, perPage)
	students, total, err := s.studentRepo.ListPaginated(ctx, f, perPage, offset)
	if err != nil {
		return nil, nil, err
	}
	return students, response.NewPagination(page, perPage, total), nil
}

// Create inserts a new student.
func (s *StudentService) Create(ctx context.Context, student *model.Student) error {
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	return nil
}

// Update modifies a student's details.
func (s *StudentService) Update(ctx context.Context, student *model.Student) error {
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	return nil
}

// Delete removes a student by ID.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	return nil
}

// Stats returns a student's own attendance totals. The percentage keeps two decimals.
func (s *StudentService) Stats(ctx context.Context, studentID int) (*model.StudentStats, error) {
	total, present, err := s.attendanceRepo.StudentCounts(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return StudentStats(total, present), nil
}

// StudentStats computes self-service totals from raw counts.
func StudentStats(total, present int) *model.StudentStats {
	st := &model.StudentStats{
		TotalClasses:   total,
		PresentClasses: present,
		AbsentClasses:  total - present,
	}
	if total > 0 {
		st.Percentage = math.Round(float64(present)/float64(total)*10000) / 100
	}
	return st
}

// History returns a student's own attendance marks, newest first.
func (s *StudentService) History(ctx context.Context, studentID int) ([]model.Attendance, error) {
	return s.attendanceRepo.ListByStudent(ctx, studentID)
}
