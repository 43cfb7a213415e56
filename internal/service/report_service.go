package service

import (
	"context"
	"sync"
	"time"

	"github.com/campusroll/attendance-backend/internal/config"
	"github.com/campusroll/attendance-backend/internal/export"
	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/report"
	"github.com/rs/zerolog"
)

// RecordStore is the read side the report pipeline needs.
type RecordStore interface {
	Students(ctx context.Context) ([]model.Student, error)
	Classes(ctx context.Context) ([]model.Class, error)
	Attendance(ctx context.Context) ([]model.Attendance, error)
	Faculty(ctx context.Context) ([]model.Faculty, error)
}

// ReportResults caches computed reports under a data version. *ReportCache implements it.
type ReportResults interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
}

// ReportService runs the attendance history report over a fresh read of the store.
type ReportService struct {
	store RecordStore
	cache ReportResults
	log   zerolog.Logger
	now   func() time.Time
}

// NewReportService creates a new ReportService. cache may be nil.
func NewReportService(store RecordStore, cache ReportResults, log zerolog.Logger) *ReportService {
	if cache == nil {
		cache = (*ReportCache)(nil)
	}
	return &ReportService{
		store: store,
		cache: cache,
		log:   log.With().Str("component", "report_service").Logger(),
		now:   time.Now,
	}
}

// Generate builds the report for a filter and sort order.
// Failed reads degrade to empty collections and are listed in Warnings; Generate never fails.
func (s *ReportService) Generate(ctx context.Context, f report.Filter, order report.SortOrder) *report.Report {
	order = report.ParseSortOrder(string(order))

	version, err := s.cache.Version(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("report version unavailable, skipping cache")
	}
	key := config.CacheKey.AttendanceReportKey(version, f.Key()+"|"+string(order))
	if err == nil {
		var cached report.Report
		if s.cache.Get(ctx, key, &cached) {
			cached.Export.ExportDate = s.now().Format(report.ExportDateLayout)
			return &cached
		}
	}

	in, warnings := s.load(ctx)
	rep := report.Build(in, f, order, s.now())
	rep.Warnings = warnings

	if err == nil && len(warnings) == 0 {
		s.cache.Set(ctx, key, rep)
	}
	return rep
}

// load reads the four collections concurrently and waits for all of them.
func (s *ReportService) load(ctx context.Context) (report.Input, []string) {
	var (
		in   report.Input
		errs [4]error
		wg   sync.WaitGroup
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		in.Students, errs[0] = s.store.Students(ctx)
	}()
	go func() {
		defer wg.Done()
		in.Classes, errs[1] = s.store.Classes(ctx)
	}()
	go func() {
		defer wg.Done()
		in.Attendance, errs[2] = s.store.Attendance(ctx)
	}()
	go func() {
		defer wg.Done()
		in.Faculty, errs[3] = s.store.Faculty(ctx)
	}()
	wg.Wait()

	var warnings []string
	for i, name := range []string{"students", "classes", "attendance", "faculty"} {
		if errs[i] == nil {
			continue
		}
		s.log.Error().Err(errs[i]).Str("collection", name).Msg("failed to load collection for report")
		warnings = append(warnings, "Could not load "+name+"; the report is incomplete.")
	}

	// A failed read counts as an empty collection.
	if errs[0] != nil {
		in.Students = nil
	}
	if errs[1] != nil {
		in.Classes = nil
	}
	if errs[2] != nil {
		in.Attendance = nil
	}
	if errs[3] != nil {
		in.Faculty = nil
	}
	return in, warnings
}

// Export generates the report and renders its export shape as csv, xlsx or json.
func (s *ReportService) Export(ctx context.Context, f report.Filter, order report.SortOrder, format string) (*export.File, *report.Report, error) {
	rep := s.Generate(ctx, f, order)
	file, err := export.Report(rep.Export, format, s.now())
	if err != nil {
		return nil, rep, err
	}
	return file, rep, nil
}
