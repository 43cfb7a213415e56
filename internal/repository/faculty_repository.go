package repository

import (
	"context"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const facultyColumns = `id, faculty_id, first_name, last_name, email, department, specialization, password_hash, created_at, updated_at`

// FacultyRepository handles faculty data access.
type FacultyRepository struct {
	pool *pgxpool.Pool
}

// NewFacultyRepository creates a new FacultyRepository.
func NewFacultyRepository(pool *pgxpool.Pool) *FacultyRepository {
	return &FacultyRepository{pool: pool}
}

func scanFaculty(row pgx.Row, f *model.Faculty) error {
	return row.Scan(&f.ID, &f.FacultyID, &f.FirstName, &f.LastName, &f.Email, &f.Department, &f.Specialization,
		&f.PasswordHash, &f.CreatedAt, &f.UpdatedAt)
}

// GetByID retrieves a faculty member by ID.
func (r *FacultyRepository) GetByID(ctx context.Context, id int) (*model.Faculty, error) {
	f := &model.Faculty{}
	if err := scanFaculty(r.pool.QueryRow(ctx, `SELECT `+facultyColumns+` FROM faculty WHERE id = $1`, id), f); err != nil {
		return nil, mapError(err, nil)
	}
	return f, nil
}

// GetByFacultyID retrieves a faculty member by their faculty code.
func (r *FacultyRepository) GetByFacultyID(ctx context.Context, code string) (*model.Faculty, error) {
	f := &model.Faculty{}
	if err := scanFaculty(r.pool.QueryRow(ctx, `SELECT `+facultyColumns+` FROM faculty WHERE faculty_id = $1`, code), f); err != nil {
		return nil, mapError(err, nil)
	}
	return f, nil
}

// List retrieves all faculty ordered by faculty code.
func (r *FacultyRepository) List(ctx context.Context) ([]model.Faculty, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+facultyColumns+` FROM faculty ORDER BY faculty_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	faculty := []model.Faculty{}
	for rows.Next() {
		var f model.Faculty
		if err := scanFaculty(rows, &f); err != nil {
			return nil, err
		}
		faculty = append(faculty, f)
	}
	return faculty, rows.Err()
}

// Create inserts a new faculty member. CreatedAt is kept when set.
func (r *FacultyRepository) Create(ctx context.Context, f *model.Faculty) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO faculty (faculty_id, first_name, last_name, email, department, specialization, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		 RETURNING id, created_at, updated_at`,
		f.FacultyID, f.FirstName, f.LastName, f.Email, f.Department, f.Specialization, f.PasswordHash, nullTime(f.CreatedAt),
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	return mapError(err, ErrDuplicateFaculty)
}

// Update modifies a faculty member's details. An empty PasswordHash keeps the stored hash.
func (r *FacultyRepository) Update(ctx context.Context, f *model.Faculty) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE faculty SET faculty_id = $1, first_name = $2, last_name = $3, email = $4, department = $5,
		 specialization = $6, password_hash = COALESCE(NULLIF($7, ''), password_hash), updated_at = CURRENT_TIMESTAMP
		 WHERE id = $8
		 RETURNING password_hash, created_at, updated_at`,
		f.FacultyID, f.FirstName, f.LastName, f.Email, f.Department, f.Specialization, f.PasswordHash, f.ID,
	).Scan(&f.PasswordHash, &f.CreatedAt, &f.UpdatedAt)
	return mapError(err, ErrDuplicateFaculty)
}

// Delete removes a faculty member by ID.
func (r *FacultyRepository) Delete(ctx context.Context, id int) error {
	return affected(r.pool.Exec(ctx, `DELETE FROM faculty WHERE id = $1`, id))
}
