package repository

import (
	"context"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardCounts holds the high-level metrics shown on the admin dashboard.
type DashboardCounts struct {
	Students      int `json:"students"`
	Faculty       int `json:"faculty"`
	Classes       int `json:"classes"`
	Attendance    int `json:"attendanceRecords"`
	TodaySessions int `json:"todaySessions"`
	TodayPresent  int `json:"todayPresent"`
}

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves table sizes and today's activity.
// A session is a distinct (class, session) pair marked on that day.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context, today time.Time) (*DashboardCounts, error) {
	c := &DashboardCounts{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM faculty),
			(SELECT COUNT(*) FROM classes),
			(SELECT COUNT(*) FROM attendance),
			(SELECT COUNT(DISTINCT (class_id, session)) FROM attendance WHERE date = $1),
			(SELECT COUNT(*) FROM attendance WHERE date = $1 AND status = $2)`,
		today, model.StatusPresent,
	).Scan(&c.Students, &c.Faculty, &c.Classes, &c.Attendance, &c.TodaySessions, &c.TodayPresent)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// StatusCounts returns the distribution of marks by status.
func (r *DashboardRepository) StatusCounts(ctx context.Context) (map[model.AttendanceStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM attendance GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.AttendanceStatus]int)
	for rows.Next() {
		var (
			status model.AttendanceStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
