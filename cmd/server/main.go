package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/campusroll/attendance-backend/internal/config"
	"github.com/campusroll/attendance-backend/internal/database"
	"github.com/campusroll/attendance-backend/internal/handler"
	"github.com/campusroll/attendance-backend/internal/logger"
	"github.com/campusroll/attendance-backend/internal/repository"
	"github.com/campusroll/attendance-backend/internal/router"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/campusroll/attendance-backend/internal/validator"
	"github.com/campusroll/attendance-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting attendance backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Connect to S3 (optional) ──────────────────────────────────────
	var uploader service.ObjectUploader
	if cfg.BackupToS3Enabled() {
		client, err := service.NewS3Client(ctx, cfg.AWSRegion)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure S3 client")
		}
		uploader = client
	} else {
		log.Info().Msg("S3 backup upload disabled")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	facultyRepo := repository.NewFacultyRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	yearRepo := repository.NewAcademicYearRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)
	snapshotRepo := repository.NewSnapshotRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	cache := service.NewReportCache(rdb, cfg.ReportCacheTTL, log)
	recordStore := service.NewPostgresRecordStore(studentRepo, classRepo, attendanceRepo, facultyRepo)

	authService := service.NewAuthService(cfg, adminRepo, facultyRepo, studentRepo)
	adminService := service.NewAdminService(adminRepo, authService)
	studentService := service.NewStudentService(studentRepo, attendanceRepo, cache)
	facultyService := service.NewFacultyService(facultyRepo, authService, cfg, cache)
	classService := service.NewClassService(classRepo, cache)
	attendanceService := service.NewAttendanceService(attendanceRepo, classRepo, studentRepo, cache, log)
	yearService := service.NewAcademicYearService(yearRepo)
	settingService := service.NewSettingService(settingRepo, log)
	reportService := service.NewReportService(recordStore, cache, log)
	backupService := service.NewBackupService(snapshotRepo, uploader, cfg, rdb, log)
	transferService := service.NewTransferService(studentRepo, facultyRepo, classRepo, snapshotRepo,
		authService, backupService, cache, cfg, log)
	dashboardService := service.NewDashboardService(dashboardRepo, backupService)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Admin:         handler.NewAdminHandler(adminService),
		Student:       handler.NewStudentHandler(studentService),
		StudentPortal: handler.NewStudentPortalHandler(studentService),
		Faculty:       handler.NewFacultyHandler(facultyService),
		Class:         handler.NewClassHandler(classService),
		Attendance:    handler.NewAttendanceHandler(attendanceService),
		AcademicYear:  handler.NewAcademicYearHandler(yearService),
		Setting:       handler.NewSettingHandler(settingService),
		Report:        handler.NewReportHandler(reportService),
		Transfer:      handler.NewTransferHandler(transferService, backupService, cfg.MaxUploadBytes, log),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
		Live:          handler.NewLiveHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	if cfg.BackupCron != "" && backupService.UploadEnabled() {
		backupWorker := worker.NewBackupWorker(backupService, cfg.BackupCron, log)
		workers.Add(1)
		go func() {
			defer workers.Done()
			if err := backupWorker.Start(workerCtx); err != nil {
				log.Error().Err(err).Msg("Backup worker stopped")
			}
		}()
	} else if cfg.BackupCron != "" {
		log.Warn().Msg("BACKUP_CRON is set but S3 is not configured; scheduled backups disabled")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for a running backup to finish.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
