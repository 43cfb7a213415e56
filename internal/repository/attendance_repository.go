package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const attendanceColumns = `id, class_id, student_id, date, session, status, notes, created_at, updated_at`

const upsertAttendance = `INSERT INTO attendance (class_id, student_id, date, session, status, notes)
	 VALUES ($1, $2, $3, $4, $5, $6)
	 ON CONFLICT (class_id, student_id, date, session)
	 DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes, updated_at = CURRENT_TIMESTAMP
	 RETURNING id, created_at, updated_at`

// AttendanceRepository handles attendance data access.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

func scanAttendance(row pgx.Row, a *model.Attendance) error {
	return row.Scan(&a.ID, &a.ClassID, &a.StudentID, &a.Date, &a.Session, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
}

// GetByID retrieves an attendance record by ID.
func (r *AttendanceRepository) GetByID(ctx context.Context, id int) (*model.Attendance, error) {
	a := &model.Attendance{}
	if err := scanAttendance(r.pool.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE id = $1`, id), a); err != nil {
		return nil, mapError(err, nil)
	}
	return a, nil
}

// List retrieves attendance matching the filter, newest first.
func (r *AttendanceRepository) List(ctx context.Context, classID, studentID int, date *time.Time) ([]model.Attendance, error) {
	var (
		conds []string
		args  []any
	)
	if classID > 0 {
		args = append(args, classID)
		conds = append(conds, `class_id = $`+strconv.Itoa(len(args)))
	}
	if studentID > 0 {
		args = append(args, studentID)
		conds = append(conds, `student_id = $`+strconv.Itoa(len(args)))
	}
	if date != nil {
		args = append(args, *date)
		conds = append(conds, `date = $`+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendance`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY date DESC, session, student_id`
	return r.query(ctx, query, args...)
}

// ListAll retrieves every attendance row. Used by the report pipeline.
func (r *AttendanceRepository) ListAll(ctx context.Context) ([]model.Attendance, error) {
	return r.query(ctx, `SELECT `+attendanceColumns+` FROM attendance ORDER BY id`)
}

// ListByStudent retrieves one student's attendance.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Attendance, error) {
	return r.query(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE student_id = $1 ORDER BY date DESC, session`, studentID)
}

func (r *AttendanceRepository) query(ctx context.Context, sql string, args ...any) ([]model.Attendance, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.Attendance{}
	for rows.Next() {
		var a model.Attendance
		if err := scanAttendance(rows, &a); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// StudentCounts returns total and present marks for one student.
func (r *AttendanceRepository) StudentCounts(ctx context.Context, studentID int) (total, present int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $2) FROM attendance WHERE student_id = $1`,
		studentID, model.StatusPresent,
	).Scan(&total, &present)
	return
}

// Upsert records a mark, replacing any existing mark for the same class session.
func (r *AttendanceRepository) Upsert(ctx context.Context, a *model.Attendance) error {
	err := r.pool.QueryRow(ctx, upsertAttendance,
		a.ClassID, a.StudentID, a.Date, a.SessionNumber(), a.Status, a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapError(err, nil)
}

// UpsertMany records a whole class session in one transaction.
func (r *AttendanceRepository) UpsertMany(ctx context.Context, records []model.Attendance) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range records {
			a := &records[i]
			batch.Queue(upsertAttendance, a.ClassID, a.StudentID, a.Date, a.SessionNumber(), a.Status, a.Notes).
				QueryRow(func(row pgx.Row) error {
					return row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
				})
		}
		return mapError(tx.SendBatch(ctx, batch).Close(), nil)
	})
}

// Delete removes an attendance record by ID.
func (r *AttendanceRepository) Delete(ctx context.Context, id int) error {
	return affected(r.pool.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id))
}
