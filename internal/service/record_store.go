package service

import (
	"context"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/repository"
)

// PostgresRecordStore serves report reads from the repositories.
type PostgresRecordStore struct {
	students   *repository.StudentRepository
	classes    *repository.ClassRepository
	attendance *repository.AttendanceRepository
	faculty    *repository.FacultyRepository
}

// NewPostgresRecordStore creates a new PostgresRecordStore.
func NewPostgresRecordStore(
	students *repository.StudentRepository,
	classes *repository.ClassRepository,
	attendance *repository.AttendanceRepository,
	faculty *repository.FacultyRepository,
) *PostgresRecordStore {
	return &PostgresRecordStore{students: students, classes: classes, attendance: attendance, faculty: faculty}
}

func (s *PostgresRecordStore) Students(ctx context.Context) ([]model.Student, error) {
	return s.students.List(ctx)
}

func (s *PostgresRecordStore) Classes(ctx context.Context) ([]model.Class, error) {
	return s.classes.List(ctx, model.ClassFilter{})
}

func (s *PostgresRecordStore) Attendance(ctx context.Context) ([]model.Attendance, error) {
	return s.attendance.ListAll(ctx)
}

func (s *PostgresRecordStore) Faculty(ctx context.Context) ([]model.Faculty, error) {
	return s.faculty.List(ctx)
}
