package repository

import (
	"context"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AcademicYearRepository handles academic year data access.
type AcademicYearRepository struct {
	pool *pgxpool.Pool
}

// NewAcademicYearRepository creates a new AcademicYearRepository.
func NewAcademicYearRepository(pool *pgxpool.Pool) *AcademicYearRepository {
	return &AcademicYearRepository{pool: pool}
}

// List retrieves all academic years, latest label first.
func (r *AcademicYearRepository) List(ctx context.Context) ([]model.AcademicYear, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, year, start_date, end_date, type, created_at, updated_at FROM academic_years ORDER BY year DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	years := []model.AcademicYear{}
	for rows.Next() {
		var y model.AcademicYear
		if err := rows.Scan(&y.ID, &y.Year, &y.StartDate, &y.EndDate, &y.Type, &y.CreatedAt, &y.UpdatedAt); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// Create inserts a new academic year.
func (r *AcademicYearRepository) Create(ctx context.Context, y *model.AcademicYear) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO academic_years (year, start_date, end_date, type)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		y.Year, y.StartDate, y.EndDate, y.Type,
	).Scan(&y.ID, &y.CreatedAt, &y.UpdatedAt)
	return mapError(err, ErrDuplicateYear)
}

// Update modifies an academic year.
func (r *AcademicYearRepository) Update(ctx context.Context, y *model.AcademicYear) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE academic_years SET year = $1, start_date = $2, end_date = $3, type = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5
		 RETURNING created_at, updated_at`,
		y.Year, y.StartDate, y.EndDate, y.Type, y.ID,
	).Scan(&y.CreatedAt, &y.UpdatedAt)
	return mapError(err, ErrDuplicateYear)
}

// Delete removes an academic year by ID.
func (r *AcademicYearRepository) Delete(ctx context.Context, id int) error {
	return affected(r.pool.Exec(ctx, `DELETE FROM academic_years WHERE id = $1`, id))
}
