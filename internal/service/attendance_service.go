package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/report"
	"github.com/campusroll/attendance-backend/internal/repository"
	"github.com/campusroll/attendance-backend/internal/validator"
	"github.com/rs/zerolog"
)

// Attendance marking errors.
var (
	ErrClassNotFound     = errors.New("class not found")
	ErrStudentNotFound   = errors.New("student not found")
	ErrStudentNotInClass = errors.New("student does not belong to the class cohort")
)

// AttendanceEventMarked is the live event type sent after a mark.
const AttendanceEventMarked = "attendance.marked"

// AttendanceService records marks and notifies the live feed.
type AttendanceService struct {
	attendanceRepo *repository.AttendanceRepository
	classRepo      *repository.ClassRepository
	studentRepo    *repository.StudentRepository
	cache          *ReportCache
	log            zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	attendanceRepo *repository.AttendanceRepository,
	classRepo *repository.ClassRepository,
	studentRepo *repository.StudentRepository,
	cache *ReportCache,
	log zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		classRepo:      classRepo,
		studentRepo:    studentRepo,
		cache:          cache,
		log:            log.With().Str("component", "attendance_service").Logger(),
	}
}

// List returns marks narrowed by class, student and date.
func (s *AttendanceService) List(ctx context.Context, f model.AttendanceFilter) ([]model.Attendance, error) {
	var date *time.Time
	if f.Date != "" {
		d, err := time.Parse(validator.DateLayout, f.Date)
		if err != nil {
			return nil, fmt.Errorf("parse date: %w", err)
		}
		date = &d
	}
	return s.attendanceRepo.List(ctx, f.ClassID, f.StudentID, date)
}

// Mark upserts one student's status for a class session.
// The student must share the class's department and semester, or the mark would never reach a report.
func (s *AttendanceService) Mark(ctx context.Context, req model.MarkAttendanceRequest, markedBy string) (*model.Attendance, error) {
	date, err := time.Parse(validator.DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	class, err := s.class(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}
	student, err := s.studentRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if err := checkCohort(class, []int{student.ID}, map[int]model.Student{student.ID: *student}); err != nil {
		return nil, err
	}

	a := &model.Attendance{
		ClassID:   req.ClassID,
		StudentID: req.StudentID,
		Date:      date,
		Session:   req.Session,
		Status:    model.AttendanceStatus(req.Status),
		Notes:     req.Notes,
	}
	a.Session = a.SessionNumber()
	if err := s.attendanceRepo.Upsert(ctx, a); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	s.cache.Bump(ctx)
	s.cache.PublishAttendance(ctx, event(a, markedBy))
	return a, nil
}

// MarkBulk records a whole class session in one transaction.
// Nothing is stored unless every student exists and belongs to the class cohort.
func (s *AttendanceService) MarkBulk(ctx context.Context, req model.BulkMarkRequest, markedBy string) ([]model.Attendance, error) {
	date, err := time.Parse(validator.DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	class, err := s.class(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(req.Entries))
	for _, e := range req.Entries {
		ids = append(ids, e.StudentID)
	}
	students, err := s.studentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := checkCohort(class, ids, students); err != nil {
		return nil, err
	}

	session := req.Session
	if session <= 0 {
		session = model.DefaultSession
	}
	records := make([]model.Attendance, 0, len(req.Entries))
	for _, e := range req.Entries {
		records = append(records, model.Attendance{
			ClassID:   req.ClassID,
			StudentID: e.StudentID,
			Date:      date,
			Session:   session,
			Status:    model.AttendanceStatus(e.Status),
			Notes:     e.Notes,
		})
	}
	if err := s.attendanceRepo.UpsertMany(ctx, records); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	s.cache.Bump(ctx)
	for i := range records {
		s.cache.PublishAttendance(ctx, event(&records[i], markedBy))
	}
	s.log.Info().Int("class_id", req.ClassID).Str("date", req.Date).Int("session", session).
		Int("count", len(records)).Msg("bulk attendance recorded")
	return records, nil
}

// Delete removes a mark.
func (s *AttendanceService) Delete(ctx context.Context, id int) error {
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	return nil
}

func (s *AttendanceService) class(ctx context.Context, id int) (*model.Class, error) {
	c, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return c, nil
}

// checkCohort verifies that every id names a known student of the class cohort.
// It uses the same rule the report uses to decide which marks count.
func checkCohort(c *model.Class, ids []int, students map[int]model.Student) error {
	for _, id := range ids {
		st, ok := students[id]
		if !ok {
			return fmt.Errorf("%w: student %d", ErrStudentNotFound, id)
		}
		if !report.SameCohort(&st, c) {
			return fmt.Errorf("%w: student %s is not in %s", ErrStudentNotInClass, st.RollNo, c.Label())
		}
	}
	return nil
}

func event(a *model.Attendance, markedBy string) model.AttendanceEvent {
	return model.AttendanceEvent{
		Type:      AttendanceEventMarked,
		ClassID:   a.ClassID,
		StudentID: a.StudentID,
		Date:      a.DateKey(),
		Session:   a.Session,
		Status:    a.Status,
		MarkedBy:  markedBy,
		Timestamp: time.Now().UnixMilli(),
	}
}
