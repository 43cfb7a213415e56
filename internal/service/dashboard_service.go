package service

import (
	"context"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/repository"
)

// DashboardData consolidates all metrics for the admin dashboard.
type DashboardData struct {
	repository.DashboardCounts
	StatusCounts map[model.AttendanceStatus]int `json:"statusCounts"`
	LastBackup   *BackupInfo                    `json:"lastBackup,omitempty"`
}

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	repo    *repository.DashboardRepository
	backups *BackupService
	now     func() time.Time
}

// NewDashboardService creates a new DashboardService. backups may be nil.
func NewDashboardService(repo *repository.DashboardRepository, backups *BackupService) *DashboardService {
	return &DashboardService{repo: repo, backups: backups, now: time.Now}
}

// GetDashboardData fetches counts, today's activity and the last scheduled backup.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts, err := s.repo.GetSummaryCounts(ctx, today)
	if err != nil {
		return nil, err
	}
	statuses, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	data := &DashboardData{DashboardCounts: *counts, StatusCounts: statuses}
	if s.backups != nil {
		data.LastBackup = s.backups.LastBackup(ctx)
	}
	return data, nil
}
