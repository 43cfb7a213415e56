package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/campusroll/attendance-backend/internal/config"
	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/report"
	"github.com/campusroll/attendance-backend/internal/transfer"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	students   []model.Student
	classes    []model.Class
	attendance []model.Attendance
	faculty    []model.Faculty
	failOn     string
	calls      atomic.Int32
}

func (f *fakeStore) fail(name string) error {
	f.calls.Add(1)
	if f.failOn == name {
		return errors.New(name + " unavailable")
	}
	return nil
}

func (f *fakeStore) Students(context.Context) ([]model.Student, error) {
	if err := f.fail("students"); err != nil {
		return []model.Student{{ID: 99}}, err
	}
	return f.students, nil
}

func (f *fakeStore) Classes(context.Context) ([]model.Class, error) {
	return f.classes, f.fail("classes")
}

func (f *fakeStore) Attendance(context.Context) ([]model.Attendance, error) {
	return f.attendance, f.fail("attendance")
}

func (f *fakeStore) Faculty(context.Context) ([]model.Faculty, error) {
	return f.faculty, f.fail("faculty")
}

func sampleStore() *fakeStore {
	day := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	return &fakeStore{
		students: []model.Student{
			{ID: 1, RollNo: "21CS001", FirstName: "Anil", Department: model.Ptr("CSE"), Semester: model.Ptr(3)},
			{ID: 2, RollNo: "21CS002", FirstName: "Meera", Department: model.Ptr("CSE"), Semester: model.Ptr(3)},
		},
		classes: []model.Class{
			{ID: 7, Code: "CS201", Name: "Data Structures", Department: model.Ptr("CSE"), Semester: model.Ptr(3), Faculty: model.Ptr("FAC0001")},
		},
		attendance: []model.Attendance{
			{ID: 1, ClassID: 7, StudentID: 1, Date: day, Session: 1, Status: model.StatusPresent},
			{ID: 2, ClassID: 7, StudentID: 2, Date: day, Session: 1, Status: model.StatusAbsent},
		},
		faculty: []model.Faculty{{ID: 1, FacultyID: "FAC0001", FirstName: "Asha", LastName: model.Ptr("Iyer")}},
	}
}

func TestReportServiceGenerate(t *testing.T) {
	store := sampleStore()
	svc := NewReportService(store, nil, zerolog.Nop())

	rep := svc.Generate(context.Background(), report.Filter{}, "")

	assert.Equal(t, int32(4), store.calls.Load())
	assert.Equal(t, report.StatusOK, rep.Status)
	assert.Equal(t, report.SortPercentageDesc, rep.Sort)
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "21CS001", rep.Rows[0].RollNo)
	assert.Equal(t, "Asha Iyer", rep.Export.SubjectSummary.FacultyName)
	assert.Empty(t, rep.Warnings)
}

type memoryResults struct {
	version int64
	entries map[string][]byte
}

func (m *memoryResults) Version(context.Context) (int64, error) { return m.version, nil }

func (m *memoryResults) Get(_ context.Context, key string, dst any) bool {
	raw, ok := m.entries[key]
	return ok && json.Unmarshal(raw, dst) == nil
}

func (m *memoryResults) Set(_ context.Context, key string, v any) {
	m.entries[key], _ = json.Marshal(v)
}

func TestReportServiceCachedReportHasFreshExportDate(t *testing.T) {
	store := sampleStore()
	results := &memoryResults{entries: map[string][]byte{}}
	svc := NewReportService(store, results, zerolog.Nop())

	svc.now = func() time.Time { return time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC) }
	first := svc.Generate(context.Background(), report.Filter{}, "")
	require.Len(t, results.entries, 1)
	assert.Equal(t, "2025-01-05 08:00:00", first.Export.ExportDate)

	svc.now = func() time.Time { return time.Date(2025, 1, 5, 8, 4, 30, 0, time.UTC) }
	second := svc.Generate(context.Background(), report.Filter{}, "")

	assert.Equal(t, int32(4), store.calls.Load(), "second report must come from the cache")
	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, "2025-01-05 08:04:30", second.Export.ExportDate)

	results.version++
	svc.Generate(context.Background(), report.Filter{}, "")
	assert.Equal(t, int32(8), store.calls.Load())
}

func TestReportServiceDegradesFailedRead(t *testing.T) {
	store := sampleStore()
	store.failOn = "students"
	svc := NewReportService(store, nil, zerolog.Nop())

	rep := svc.Generate(context.Background(), report.Filter{}, report.SortNameAsc)

	assert.Equal(t, report.StatusNoData, rep.Status)
	assert.Empty(t, rep.Rows)
	require.Len(t, rep.Warnings, 1)
	assert.Contains(t, rep.Warnings[0], "students")
}

func TestReportServiceClassNotFound(t *testing.T) {
	svc := NewReportService(sampleStore(), nil, zerolog.Nop())
	rep := svc.Generate(context.Background(), report.Filter{ClassID: model.Ptr(404)}, "")
	assert.Equal(t, report.StatusClassNotFound, rep.Status)
}

func TestReportServiceExport(t *testing.T) {
	svc := NewReportService(sampleStore(), nil, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC) }

	file, rep, err := svc.Export(context.Background(), report.Filter{}, "", "csv")
	require.NoError(t, err)
	assert.Equal(t, report.StatusOK, rep.Status)
	assert.Equal(t, "attendance_report_2025-01-05.csv", file.Name)
	assert.NotEmpty(t, file.Data)

	_, _, err = svc.Export(context.Background(), report.Filter{}, "", "pdf")
	assert.Error(t, err)
}

func TestStudentStats(t *testing.T) {
	st := StudentStats(3, 2)
	assert.Equal(t, 1, st.AbsentClasses)
	assert.InDelta(t, 66.67, st.Percentage, 1e-9)

	assert.Zero(t, StudentStats(0, 0).Percentage)
}

func TestCheckCohort(t *testing.T) {
	cse3 := &model.Class{ID: 7, Code: "CS201", Name: "Data Structures", Department: model.Ptr("CSE"), Semester: model.Ptr(3)}
	students := map[int]model.Student{
		1: {ID: 1, RollNo: "R1", Department: model.Ptr("CSE"), Semester: model.Ptr(3)},
		2: {ID: 2, RollNo: "R2", Department: model.Ptr("CSE"), Semester: model.Ptr(3)},
		3: {ID: 3, RollNo: "R3", Department: model.Ptr("ECE"), Semester: model.Ptr(5)},
		4: {ID: 4, RollNo: "R4"},
	}

	assert.NoError(t, checkCohort(cse3, []int{1, 2}, students))

	t.Run("any entry outside the cohort rejects the batch", func(t *testing.T) {
		err := checkCohort(cse3, []int{1, 3, 2}, students)
		require.ErrorIs(t, err, ErrStudentNotInClass)
		assert.Contains(t, err.Error(), "R3")
	})

	t.Run("unknown student", func(t *testing.T) {
		err := checkCohort(cse3, []int{1, 99}, students)
		require.ErrorIs(t, err, ErrStudentNotFound)
		assert.Contains(t, err.Error(), "99")
	})

	t.Run("class without department or semester only admits students without them", func(t *testing.T) {
		bare := &model.Class{ID: 8, Code: "GEN1", Name: "Seminar"}
		assert.ErrorIs(t, checkCohort(bare, []int{1}, students), ErrStudentNotInClass)
		assert.NoError(t, checkCohort(bare, []int{4}, students))
	})

	t.Run("agrees with the report", func(t *testing.T) {
		classes := []*model.Class{cse3, {Department: model.Ptr("CSE")}, {Semester: model.Ptr(3)}, {}}
		for _, c := range classes {
			for id, st := range students {
				st := st
				assert.Equal(t, report.SameCohort(&st, c), checkCohort(c, []int{id}, students) == nil,
					"student %d class %+v", id, c)
			}
		}
	})
}

type fakeSource struct{ err error }

func (f fakeSource) Load(context.Context) (*transfer.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &transfer.Snapshot{Students: []model.Student{{ID: 1, RollNo: "A1", FirstName: "Ira"}}}, nil
}

type fakeUploader struct {
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakeUploader) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestBackupUpload(t *testing.T) {
	cfg := &config.Config{BackupS3Bucket: "campus-backups", BackupS3Prefix: "nightly"}
	up := &fakeUploader{}
	svc := NewBackupService(fakeSource{}, up, cfg, nil, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC) }

	info, err := svc.Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "nightly/2025/02/attendance_backup_20250203_040506.zip", info.Key)
	assert.Equal(t, "campus-backups", *up.input.Bucket)
	assert.Equal(t, "application/zip", *up.input.ContentType)
	assert.Equal(t, len(up.body), info.Size)
	assert.Equal(t, 1, info.Records[transfer.TableStudents])

	snap, err := transfer.DecodeBackup(info.Key, up.body, 0)
	require.NoError(t, err)
	assert.Len(t, snap.Students, 1)

	assert.Nil(t, svc.LastBackup(context.Background()))
}

func TestBackupUploadDisabled(t *testing.T) {
	svc := NewBackupService(fakeSource{}, nil, &config.Config{}, nil, zerolog.Nop())
	_, err := svc.Upload(context.Background())
	assert.ErrorIs(t, err, ErrBackupUploadDisabled)
}

func TestBackupBuildError(t *testing.T) {
	svc := NewBackupService(fakeSource{err: errors.New("db down")}, nil, &config.Config{}, nil, zerolog.Nop())
	_, _, _, err := svc.Build(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestPageWindow(t *testing.T) {
	page, perPage, offset := pageWindow(0, 0)
	assert.Equal(t, []int{1, defaultPerPage, 0}, []int{page, perPage, offset})

	page, perPage, offset = pageWindow(3, 1000)
	assert.Equal(t, []int{3, maxPerPage, 2 * maxPerPage}, []int{page, perPage, offset})
}

func TestParseOptionalDate(t *testing.T) {
	assert.Nil(t, parseOptionalDate(nil))
	assert.Nil(t, parseOptionalDate(model.Ptr("")))
	d := parseOptionalDate(model.Ptr("2024-06-01"))
	require.NotNil(t, d)
	assert.Equal(t, time.June, d.Month())
}
