package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/campusroll/attendance-backend/internal/config"
	"github.com/campusroll/attendance-backend/internal/database"
	"github.com/campusroll/attendance-backend/internal/logger"
	"github.com/campusroll/attendance-backend/internal/repository"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/campusroll/attendance-backend/internal/transfer"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		kind    string
		confirm bool
		timeout time.Duration
	)
	flag.StringVar(&kind, "kind", "", "What the file holds: students, faculty, classes or restore")
	flag.BoolVar(&confirm, "yes", false, "Confirm a restore, which replaces every table")
	flag.DurationVar(&timeout, "timeout", 10*time.Minute, "Abort after this long")
	flag.Parse()

	if flag.NArg() != 1 || kind == "" {
		printUsage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if kind == "restore" && !confirm {
		log.Fatal().Msg("restore replaces every table; pass -yes to continue")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to read file")
	}
	if int64(len(data)) > cfg.MaxUploadBytes {
		log.Fatal().Int("bytes", len(data)).Int64("limit", cfg.MaxUploadBytes).Msg("File exceeds MAX_UPLOAD_SIZE_MB")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis (optional) ───────────────────────────────────
	// Without Redis the report cache is not invalidated and expires on its TTL.
	var rdb *redis.Client
	if client, err := database.NewRedisClient(ctx, cfg, log); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable; cached reports will expire on their TTL")
	} else {
		rdb = client
		defer rdb.Close()
	}

	// ─── Initialize Services ──────────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	facultyRepo := repository.NewFacultyRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	snapshotRepo := repository.NewSnapshotRepository(pool)

	cache := service.NewReportCache(rdb, cfg.ReportCacheTTL, log)
	authService := service.NewAuthService(cfg, nil, facultyRepo, studentRepo)
	backupService := service.NewBackupService(snapshotRepo, nil, cfg, rdb, log)
	transferService := service.NewTransferService(studentRepo, facultyRepo, classRepo, snapshotRepo,
		authService, backupService, cache, cfg, log)

	// ─── Run ───────────────────────────────────────────────────────────
	name := filepath.Base(path)
	var out any
	switch kind {
	case "students":
		out, err = transferService.ImportStudents(ctx, name, data)
	case "faculty":
		out, err = transferService.ImportFaculty(ctx, name, data)
	case "classes":
		out, err = transferService.ImportClasses(ctx, name, data)
	case "restore":
		var summary *transfer.RestoreSummary
		summary, err = transferService.Restore(ctx, name, data)
		out = summary
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("kind", kind).Str("file", path).Msg("Import failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal().Err(err).Msg("Failed to print result")
	}
}

func printUsage() {
	fmt.Println("Usage: import -kind students|faculty|classes|restore [-yes] <file>")
	fmt.Println("Files may be .csv or .xlsx; restores accept a backup .zip or .json.")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
