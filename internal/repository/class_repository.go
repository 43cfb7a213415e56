package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const classColumns = `id, code, name, department, semester, faculty, year, credits, created_at, updated_at`

// ClassRepository handles class data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func scanClass(row pgx.Row, c *model.Class) error {
	return row.Scan(&c.ID, &c.Code, &c.Name, &c.Department, &c.Semester, &c.Faculty, &c.Year, &c.Credits, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	c := &model.Class{}
	if err := scanClass(r.pool.QueryRow(ctx, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id), c); err != nil {
		return nil, mapError(err, nil)
	}
	return c, nil
}

// List retrieves classes matching the filter. Year is the academic year derived from the semester.
func (r *ClassRepository) List(ctx context.Context, f model.ClassFilter) ([]model.Class, error) {
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

	query := `SELECT ` + classColumns + ` FROM classes`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY semester NULLS LAST, code`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []model.Class{}
	for rows.Next() {
		var c model.Class
		if err := scanClass(rows, &c); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// ExistingCodeYears returns "code|year" keys for every stored class.
func (r *ClassRepository) ExistingCodeYears(ctx context.Context) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, COALESCE(year, 0) FROM classes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var (
			code string
			year int
		)
		if err := rows.Scan(&code, &year); err != nil {
			return nil, err
		}
		keys[CodeYearKey(code, year)] = true
	}
	return keys, rows.Err()
}

// CodeYearKey is the uniqueness key of a class.
func CodeYearKey(code string, year int) string {
	return code + "|" + strconv.Itoa(year)
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO classes (code, name, department, semester, faculty, year, credits, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		 RETURNING id, created_at, updated_at`,
		c.Code, c.Name, c.Department, c.Semester, c.Faculty, c.Year, c.Credits, nullTime(c.CreatedAt),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapError(err, ErrDuplicateClass)
}

// Update modifies an existing class.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE classes SET code = $1, name = $2, department = $3, semester = $4, faculty = $5, year = $6,
		 credits = $7, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $8
		 RETURNING created_at, updated_at`,
		c.Code, c.Name, c.Department, c.Semester, c.Faculty, c.Year, c.Credits, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return mapError(err, ErrDuplicateClass)
}

// Delete removes a class by its ID. Its attendance cascades.
func (r *ClassRepository) Delete(ctx context.Context, id int) error {
	return affected(r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id))
}
