package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const studentColumns = `id, roll_no, first_name, last_name, email, department, semester, created_at, updated_at`

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func scanStudent(row pgx.Row, s *model.Student) error {
	return row.Scan(&s.ID, &s.RollNo, &s.FirstName, &s.LastName, &s.Email, &s.Department, &s.Semester, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.pool.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id), s)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return s, nil
}

// GetByRollNo retrieves a student by their unique roll number.
func (r *StudentRepository) GetByRollNo(ctx context.Context, rollNo string) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.pool.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE roll_no = $1`, rollNo), s)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return s, nil
}

// List retrieves every student ordered by roll number.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	return r.query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY roll_no`)
}

// ListPaginated retrieves students matching the filter. Year is derived from the semester.
func (r *StudentRepository) ListPaginated(ctx context.Context, f model.StudentFilter, limit, offset int) ([]model.Student, int, error) {
	where, args := studentWhere(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `SELECT ` + studentColumns + ` FROM students` + where +
		` ORDER BY roll_no LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	students, err := r.query(ctx, query, append(args, limit, offset)...)
	return students, total, err
}

func studentWhere(f model.StudentFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Year > 0 {
		args = append(args, f.Year)
		conds = append(conds, `(semester + 1) / 2 = $`+strconv.Itoa(len(args)))
	}
	if f.Semester > 0 {
		args = append(args, f.Semester)
		conds = append(conds, `semester = $`+strconv.Itoa(len(args)))
	}
	if f.Department != "" {
		args = append(args, f.Department)
		conds = append(conds, `department = $`+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

// GetByIDs retrieves the students with the given ids, keyed by id. Unknown ids are absent.
func (r *StudentRepository) GetByIDs(ctx context.Context, ids []int) (map[int]model.Student, error) {
	students, err := r.query(ctx, `SELECT `+studentColumns+` FROM students WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]model.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}
	return byID, nil
}

// ExistingRollNos returns the subset of rollNos already stored.
func (r *StudentRepository) ExistingRollNos(ctx context.Context, rollNos []string) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT roll_no FROM students WHERE roll_no = ANY($1)`, rollNos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string]bool)
	for rows.Next() {
		var roll string
		if err := rows.Scan(&roll); err != nil {
			return nil, err
		}
		found[roll] = true
	}
	return found, rows.Err()
}

func (r *StudentRepository) query(ctx context.Context, sql string, args ...any) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (roll_no, first_name, last_name, email, department, semester)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		s.RollNo, s.FirstName, s.LastName, s.Email, s.Department, s.Semester,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return mapError(err, ErrDuplicateRollNo)
}

// CreateMany inserts imported students in one transaction, keeping their created dates.
func (r *StudentRepository) CreateMany(ctx context.Context, students []model.Student) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for i := range students {
			s := &students[i]
			err := tx.QueryRow(ctx,
				`INSERT INTO students (roll_no, first_name, last_name, email, department, semester, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
				 RETURNING id, created_at, updated_at`,
				s.RollNo, s.FirstName, s.LastName, s.Email, s.Department, s.Semester, nullTime(s.CreatedAt),
			).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
			if err != nil {
				return mapError(err, ErrDuplicateRollNo)
			}
		}
		return nil
	})
}

// Update modifies a student's details.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE students SET roll_no = $1, first_name = $2, last_name = $3, email = $4, department = $5,
		 semester = $6, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $7
		 RETURNING created_at, updated_at`,
		s.RollNo, s.FirstName, s.LastName, s.Email, s.Department, s.Semester, s.ID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return mapError(err, ErrDuplicateRollNo)
}

// Delete removes a student by ID. Their attendance cascades.
func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	return affected(r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id))
}
