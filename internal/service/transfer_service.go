package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campusroll/attendance-backend/internal/config"
	"github.com/campusroll/attendance-backend/internal/export"
	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/repository"
	"github.com/campusroll/attendance-backend/internal/transfer"
	"github.com/rs/zerolog"
)

// GeneratedFacultyDomain is the email domain given to faculty created by class imports.
const GeneratedFacultyDomain = "college.edu"

// TransferService imports, exports, backs up and restores records.
type TransferService struct {
	students  *repository.StudentRepository
	faculty   *repository.FacultyRepository
	classes   *repository.ClassRepository
	snapshots *repository.SnapshotRepository
	auth      *AuthService
	backups   *BackupService
	cache     *ReportCache
	cfg       *config.Config
	log       zerolog.Logger
	now       func() time.Time
}

// NewTransferService creates a new TransferService.
func NewTransferService(
	students *repository.StudentRepository,
	faculty *repository.FacultyRepository,
	classes *repository.ClassRepository,
	snapshots *repository.SnapshotRepository,
	auth *AuthService,
	backups *BackupService,
	cache *ReportCache,
	cfg *config.Config,
	log zerolog.Logger,
) *TransferService {
	return &TransferService{
		students:  students,
		faculty:   faculty,
		classes:   classes,
		snapshots: snapshots,
		auth:      auth,
		backups:   backups,
		cache:     cache,
		cfg:       cfg,
		log:       log.With().Str("component", "transfer_service").Logger(),
		now:       time.Now,
	}
}

// ImportStudents stores every valid student in the file. Roll numbers already
// stored or repeated in the file are skipped.
func (s *TransferService) ImportStudents(ctx context.Context, filename string, data []byte) (*transfer.Result, error) {
	rows, err := transfer.Read(filename, data)
	if err != nil {
		return nil, err
	}
	candidates, res := transfer.ParseStudents(rows, s.now())

	rolls := make([]string, 0, len(candidates))
	for _, c := range candidates {
		rolls = append(rolls, c.Student.RollNo)
	}
	existing, err := s.students.ExistingRollNos(ctx, rolls)
	if err != nil {
		return nil, fmt.Errorf("check existing students: %w", err)
	}

	var fresh []model.Student
	for _, c := range candidates {
		if existing[c.Student.RollNo] {
			res.Skip(c.Line, "student %s already exists", c.Student.RollNo)
			continue
		}
		existing[c.Student.RollNo] = true
		fresh = append(fresh, c.Student)
	}
	if len(fresh) > 0 {
		if err := s.students.CreateMany(ctx, fresh); err != nil {
			return nil, fmt.Errorf("store students: %w", err)
		}
		s.cache.Bump(ctx)
	}
	res.Imported = len(fresh)
	s.log.Info().Str("file", filename).Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("students imported")
	return res, nil
}

// ImportFaculty stores every valid faculty member. Members without a password
// in the file get the configured default password.
func (s *TransferService) ImportFaculty(ctx context.Context, filename string, data []byte) (*transfer.Result, error) {
	rows, err := transfer.Read(filename, data)
	if err != nil {
		return nil, err
	}
	candidates, res := transfer.ParseFaculty(rows, s.now())

	stored, err := s.faculty.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}
	known := make(map[string]bool, len(stored))
	for _, f := range stored {
		known[f.FacultyID] = true
	}

	for _, c := range candidates {
		if known[c.Faculty.FacultyID] {
			res.Skip(c.Line, "faculty %s already exists", c.Faculty.FacultyID)
			continue
		}
		password := c.Password
		if password == "" {
			password = s.cfg.DefaultFacultyPassword
		}
		f := c.Faculty
		if f.PasswordHash, err = s.auth.HashPassword(password); err != nil {
			return nil, err
		}
		if err := s.faculty.Create(ctx, &f); err != nil {
			res.Skip(c.Line, "%v", err)
			continue
		}
		known[f.FacultyID] = true
		res.Imported++
	}
	if res.Imported > 0 {
		s.cache.Bump(ctx)
	}
	s.log.Info().Str("file", filename).Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("faculty imported")
	return res, nil
}

// ImportClasses stores every valid class. A faculty name matching no existing
// member creates one with the default password.
func (s *TransferService) ImportClasses(ctx context.Context, filename string, data []byte) (*transfer.Result, error) {
	rows, err := transfer.Read(filename, data)
	if err != nil {
		return nil, err
	}
	candidates, res := transfer.ParseClasses(rows, s.now())

	existing, err := s.classes.ExistingCodeYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("check existing classes: %w", err)
	}
	stored, err := s.faculty.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}
	byName := make(map[string]bool, len(stored))
	codes := make([]string, 0, len(stored))
	for _, f := range stored {
		byName[strings.ToLower(f.FullName())] = true
		codes = append(codes, f.FacultyID)
	}

	for _, c := range candidates {
		cls := c.Class
		key := repository.CodeYearKey(cls.Code, model.IntOr(cls.Year, 0))
		if existing[key] {
			res.Skip(c.Line, "class %s already exists for %d", cls.Code, model.IntOr(cls.Year, 0))
			continue
		}

		if cls.Faculty != nil && !byName[strings.ToLower(*cls.Faculty)] {
			code := transfer.NextFacultyCode(codes)
			f := transfer.GeneratedFaculty(*cls.Faculty, code, model.StringOr(cls.Department, ""), cls.Name, GeneratedFacultyDomain, s.now())
			if f.PasswordHash, err = s.auth.HashPassword(s.cfg.DefaultFacultyPassword); err != nil {
				return nil, err
			}
			if err := s.faculty.Create(ctx, &f); err != nil {
				res.Skip(c.Line, "create faculty %q: %v", *cls.Faculty, err)
				continue
			}
			byName[strings.ToLower(*cls.Faculty)] = true
			codes = append(codes, code)
			s.log.Info().Str("faculty_id", code).Str("name", *cls.Faculty).Msg("created faculty for imported class")
		}

		if err := s.classes.Create(ctx, &cls); err != nil {
			res.Skip(c.Line, "%v", err)
			continue
		}
		existing[key] = true
		res.Imported++
	}
	if res.Imported > 0 {
		s.cache.Bump(ctx)
	}
	s.log.Info().Str("file", filename).Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("classes imported")
	return res, nil
}

// Export renders the requested tables (students, faculty, classes; empty means all)
// as one CSV or a ZIP of CSVs.
func (s *TransferService) Export(ctx context.Context, tables []string) (*export.File, error) {
	want := map[string]bool{}
	for _, t := range tables {
		want[t] = true
	}
	all := len(want) == 0

	var (
		students []model.Student
		faculty  []model.Faculty
		classes  []model.Class
		err      error
	)
	if all || want[transfer.TableStudents] {
		if students, err = s.students.List(ctx); err != nil {
			return nil, fmt.Errorf("list students: %w", err)
		}
	}
	if all || want[transfer.TableFaculty] {
		if faculty, err = s.faculty.List(ctx); err != nil {
			return nil, fmt.Errorf("list faculty: %w", err)
		}
	}
	if all || want[transfer.TableClasses] {
		if classes, err = s.classes.List(ctx, model.ClassFilter{}); err != nil {
			return nil, fmt.Errorf("list classes: %w", err)
		}
	}
	return export.Bundle(students, faculty, classes, s.now())
}

// Backup builds a complete backup archive for download.
func (s *TransferService) Backup(ctx context.Context) (*export.File, error) {
	_, name, data, err := s.backups.Build(ctx)
	if err != nil {
		return nil, err
	}
	return &export.File{Name: name, ContentType: "application/zip", Data: data}, nil
}

// Restore replaces every table with the contents of a backup file.
// Faculty without a stored hash get their plaintext password, or the default, hashed.
func (s *TransferService) Restore(ctx context.Context, filename string, data []byte) (*transfer.RestoreSummary, error) {
	snap, err := transfer.DecodeBackup(filename, data, s.cfg.MaxRestoreBytes)
	if err != nil {
		return nil, err
	}
	summary := snap.Normalize(s.now())

	for i := range snap.Faculty {
		f := &snap.Faculty[i]
		if f.PasswordHash != "" {
			continue
		}
		password := f.Password
		if password == "" {
			password = s.cfg.DefaultFacultyPassword
		}
		if f.PasswordHash, err = s.auth.HashPassword(password); err != nil {
			return nil, err
		}
	}

	if err := s.snapshots.Replace(ctx, snap); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	s.cache.Bump(ctx)
	s.log.Warn().Str("file", filename).Interface("restored", summary.Restored).Interface("skipped", summary.Skipped).
		Msg("database restored from backup")
	return summary, nil
}

// ClearTable deletes every row of one table and returns how many were removed.
func (s *TransferService) ClearTable(ctx context.Context, table string) (int64, error) {
	n, err := s.snapshots.Clear(ctx, table)
	if err != nil {
		return 0, err
	}
	s.cache.Bump(ctx)
	s.log.Warn().Str("table", table).Int64("rows", n).Msg("table cleared")
	return n, nil
}
