package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/transfer"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnknownTable is returned when a table name is not one of the clearable tables.
var ErrUnknownTable = errors.New("unknown table")

// sqlTables maps backup table names to database tables.
var sqlTables = map[string]string{
	transfer.TableStudents:   "students",
	transfer.TableFaculty:    "faculty",
	transfer.TableClasses:    "classes",
	transfer.TableAttendance: "attendance",
	transfer.TableYears:      "academic_years",
	transfer.TableSettings:   "app_settings",
}

// SnapshotRepository reads and replaces whole tables for backup, restore and clear.
type SnapshotRepository struct {
	pool       *pgxpool.Pool
	students   *StudentRepository
	faculty    *FacultyRepository
	classes    *ClassRepository
	attendance *AttendanceRepository
	years      *AcademicYearRepository
	settings   *SettingRepository
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{
		pool:       pool,
		students:   NewStudentRepository(pool),
		faculty:    NewFacultyRepository(pool),
		classes:    NewClassRepository(pool),
		attendance: NewAttendanceRepository(pool),
		years:      NewAcademicYearRepository(pool),
		settings:   NewSettingRepository(pool),
	}
}

// Load reads every table. Faculty records carry their password hashes.
func (r *SnapshotRepository) Load(ctx context.Context) (*transfer.Snapshot, error) {
	s := &transfer.Snapshot{}
	var err error
	if s.Students, err = r.students.List(ctx); err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	faculty, err := r.faculty.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load faculty: %w", err)
	}
	for _, f := range faculty {
		s.Faculty = append(s.Faculty, transfer.FacultyRecord{Faculty: f, PasswordHash: f.PasswordHash})
	}
	if s.Classes, err = r.classes.List(ctx, model.ClassFilter{}); err != nil {
		return nil, fmt.Errorf("load classes: %w", err)
	}
	if s.Attendance, err = r.attendance.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}
	if s.Years, err = r.years.List(ctx); err != nil {
		return nil, fmt.Errorf("load academic years: %w", err)
	}
	if s.Settings, err = r.settings.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

// Replace truncates every table and bulk-loads the snapshot in one transaction,
// then moves each id sequence past the highest restored id.
// The snapshot must be normalized and faculty must carry password hashes.
func (r *SnapshotRepository) Replace(ctx context.Context, s *transfer.Snapshot) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`TRUNCATE attendance, classes, students, faculty, academic_years, app_settings RESTART IDENTITY CASCADE`); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}

		copies := []struct {
			table   string
			columns []string
			rows    [][]any
		}{
			{"students", []string{"id", "roll_no", "first_name", "last_name", "email", "department", "semester", "created_at", "updated_at"}, studentRows(s.Students)},
			{"faculty", []string{"id", "faculty_id", "first_name", "last_name", "email", "department", "specialization", "password_hash", "created_at", "updated_at"}, facultyRows(s.Faculty)},
			{"classes", []string{"id", "code", "name", "department", "semester", "faculty", "year", "credits", "created_at", "updated_at"}, classRows(s.Classes)},
			{"attendance", []string{"id", "class_id", "student_id", "date", "session", "status", "notes", "created_at", "updated_at"}, attendanceRows(s.Attendance)},
			{"academic_years", []string{"id", "year", "start_date", "end_date", "type", "created_at", "updated_at"}, yearRows(s.Years)},
			{"app_settings", []string{"key", "value", "updated_at"}, settingRows(s.Settings)},
		}
		for _, c := range copies {
			if len(c.rows) == 0 {
				continue
			}
			if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows)); err != nil {
				return fmt.Errorf("copy %s: %w", c.table, mapError(err, nil))
			}
		}

		for _, table := range []string{"students", "faculty", "classes", "attendance", "academic_years"} {
			if err := resetSequence(ctx, tx, table); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear deletes every row of one table. Clearing students or classes cascades to attendance.
func (r *SnapshotRepository) Clear(ctx context.Context, table string) (int64, error) {
	sqlTable, ok := sqlTables[table]
	if !ok {
		return 0, ErrUnknownTable
	}
	var n int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM `+pgx.Identifier{sqlTable}.Sanitize()).Scan(&n); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `TRUNCATE `+pgx.Identifier{sqlTable}.Sanitize()+` RESTART IDENTITY CASCADE`)
		return err
	})
	return n, err
}

func resetSequence(ctx context.Context, tx pgx.Tx, table string) error {
	_, err := tx.Exec(ctx,
		fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)`, table))
	if err != nil {
		return fmt.Errorf("reset %s sequence: %w", table, err)
	}
	return nil
}

func studentRows(list []model.Student) [][]any {
	rows := make([][]any, 0, len(list))
	for _, s := range list {
		rows = append(rows, []any{s.ID, s.RollNo, s.FirstName, s.LastName, s.Email, s.Department, s.Semester, s.CreatedAt, s.UpdatedAt})
	}
	return rows
}

func facultyRows(list []transfer.FacultyRecord) [][]any {
	rows := make([][]any, 0, len(list))
	for _, f := range list {
		rows = append(rows, []any{f.ID, f.FacultyID, f.FirstName, f.LastName, f.Email, f.Department, f.Specialization, f.PasswordHash, f.CreatedAt, f.UpdatedAt})
	}
	return rows
}

func classRows(list []model.Class) [][]any {
	rows := make([][]any, 0, len(list))
	for _, c := range list {
		rows = append(rows, []any{c.ID, c.Code, c.Name, c.Department, c.Semester, c.Faculty, c.Year, c.Credits, c.CreatedAt, c.UpdatedAt})
	}
	return rows
}

func attendanceRows(list []model.Attendance) [][]any {
	rows := make([][]any, 0, len(list))
	for _, a := range list {
		rows = append(rows, []any{a.ID, a.ClassID, a.StudentID, a.Date, a.SessionNumber(), string(a.Status), a.Notes, a.CreatedAt, a.UpdatedAt})
	}
	return rows
}

func yearRows(list []model.AcademicYear) [][]any {
	rows := make([][]any, 0, len(list))
	for _, y := range list {
		rows = append(rows, []any{y.ID, y.Year, y.StartDate, y.EndDate, y.Type, y.CreatedAt, y.UpdatedAt})
	}
	return rows
}

func settingRows(list []model.AppSetting) [][]any {
	rows := make([][]any, 0, len(list))
	for _, s := range list {
		rows = append(rows, []any{s.Key, s.Value, s.UpdatedAt})
	}
	return rows
}
