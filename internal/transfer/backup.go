package transfer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/campusroll/attendance-backend/internal/export"
	"github.com/campusroll/attendance-backend/internal/model"
)

// Table names used inside backup files.
const (
	TableStudents   = "students"
	TableFaculty    = "faculty"
	TableClasses    = "classes"
	TableAttendance = "attendance"
	TableYears      = "years"
	TableSettings   = "settings"
)

// Tables lists backup tables in restore order.
var Tables = []string{TableStudents, TableFaculty, TableClasses, TableAttendance, TableYears, TableSettings}

// BackupExportType marks metadata written by EncodeBackup.
const BackupExportType = "Complete Database Backup"

// FacultyRecord carries a faculty member with credentials through a backup.
// Password holds a plaintext password found in older backups.
type FacultyRecord struct {
	model.Faculty
	PasswordHash string `json:"passwordHash,omitempty"`
	Password     string `json:"password,omitempty"`
}

// Snapshot is the full contents of the record store.
type Snapshot struct {
	Students   []model.Student      `json:"students"`
	Faculty    []FacultyRecord      `json:"faculty"`
	Classes    []model.Class        `json:"classes"`
	Attendance []model.Attendance   `json:"attendance"`
	Years      []model.AcademicYear `json:"years"`
	Settings   []model.AppSetting   `json:"settings"`
}

// Counts returns the number of records per table.
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		TableStudents:   len(s.Students),
		TableFaculty:    len(s.Faculty),
		TableClasses:    len(s.Classes),
		TableAttendance: len(s.Attendance),
		TableYears:      len(s.Years),
		TableSettings:   len(s.Settings),
	}
}

// Total is the number of records across all tables.
func (s *Snapshot) Total() int {
	n := 0
	for _, c := range s.Counts() {
		n += c
	}
	return n
}

// Metadata describes a backup archive.
type Metadata struct {
	ExportType string         `json:"exportType"`
	ExportDate time.Time      `json:"exportDate"`
	Records    map[string]int `json:"records"`
	SystemInfo SystemInfo     `json:"systemInfo"`
}

// SystemInfo identifies the producer of a backup.
type SystemInfo struct {
	AppName       string `json:"appName"`
	Version       string `json:"version"`
	SchemaVersion int    `json:"schemaVersion"`
}

// BackupFileName is the download name of an archive created at now.
func BackupFileName(now time.Time) string {
	return fmt.Sprintf("attendance_complete_backup_%d.zip", now.UnixMilli())
}

// EncodeBackup writes metadata.json, one JSON file per table, CSV copies and a README into a ZIP.
func EncodeBackup(s *Snapshot, now time.Time) ([]byte, error) {
	meta := Metadata{
		ExportType: BackupExportType,
		ExportDate: now.UTC(),
		Records:    s.Counts(),
		SystemInfo: SystemInfo{AppName: "Attendance Backend", Version: "1.0", SchemaVersion: 1},
	}

	a := export.NewArchive()
	a.AddJSON("metadata.json", meta)
	a.AddJSON(TableStudents+".json", nonNil(s.Students))
	a.AddJSON(TableFaculty+".json", nonNil(s.Faculty))
	a.AddJSON(TableClasses+".json", nonNil(s.Classes))
	a.AddJSON(TableAttendance+".json", nonNil(s.Attendance))
	a.AddJSON(TableYears+".json", nonNil(s.Years))
	a.AddJSON(TableSettings+".json", nonNil(s.Settings))

	csvFiles := []struct {
		table  string
		encode func(*Snapshot) ([]byte, error)
	}{
		{TableStudents, studentsCSV},
		{TableFaculty, facultyCSV},
		{TableClasses, classesCSV},
		{TableAttendance, attendanceCSV},
	}
	for _, f := range csvFiles {
		data, err := f.encode(s)
		if err != nil {
			return nil, fmt.Errorf("encode %s.csv: %w", f.table, err)
		}
		a.Add(f.table+".csv", data)
	}

	a.Add("README.txt", []byte(readme(s, now)))
	return a.Bytes()
}

func readme(s *Snapshot, now time.Time) string {
	var b strings.Builder
	b.WriteString("COMPLETE DATABASE BACKUP\n=========================\n")
	fmt.Fprintf(&b, "Exported: %s\n", now.UTC().Format(time.RFC1123))
	fmt.Fprintf(&b, "Total Records: %d students, %d faculty, %d classes, %d attendance records\n\n",
		len(s.Students), len(s.Faculty), len(s.Classes), len(s.Attendance))
	b.WriteString(`Files included:
1. students.json - All student records
2. faculty.json - All faculty records
3. classes.json - All class records
4. attendance.json - All attendance records (date-wise)
5. years.json - Academic years
6. settings.json - System settings
7. *.csv - CSV versions for easy viewing

To import: upload this archive to POST /api/v1/admin/restore.
`)
	return b.String()
}

func studentsCSV(s *Snapshot) ([]byte, error) {
	rows := make([][]string, 0, len(s.Students))
	for _, st := range s.Students {
		rows = append(rows, []string{
			strconv.Itoa(st.ID), st.RollNo, st.FirstName,
			model.StringOr(st.LastName, ""), model.StringOr(st.Email, ""), model.StringOr(st.Department, ""),
			strconv.Itoa(st.Year()), optInt(st.Semester),
		})
	}
	return export.CSV([]string{"id", "rollNo", "firstName", "lastName", "email", "department", "year", "semester"}, rows)
}

func facultyCSV(s *Snapshot) ([]byte, error) {
	rows := make([][]string, 0, len(s.Faculty))
	for _, f := range s.Faculty {
		rows = append(rows, []string{
			strconv.Itoa(f.ID), f.FacultyID, f.FirstName,
			model.StringOr(f.LastName, ""), model.StringOr(f.Email, ""),
			model.StringOr(f.Department, ""), model.StringOr(f.Specialization, ""),
		})
	}
	return export.CSV([]string{"id", "facultyId", "firstName", "lastName", "email", "department", "specialization"}, rows)
}

func classesCSV(s *Snapshot) ([]byte, error) {
	rows := make([][]string, 0, len(s.Classes))
	for _, c := range s.Classes {
		rows = append(rows, []string{
			strconv.Itoa(c.ID), c.Code, c.Name, model.StringOr(c.Department, ""),
			optInt(c.Semester), model.StringOr(c.Faculty, ""), optInt(c.Year), strconv.Itoa(c.Credits),
		})
	}
	return export.CSV([]string{"id", "code", "name", "department", "semester", "faculty", "year", "credits"}, rows)
}

func attendanceCSV(s *Snapshot) ([]byte, error) {
	rows := make([][]string, 0, len(s.Attendance))
	for _, a := range s.Attendance {
		rows = append(rows, []string{
			strconv.Itoa(a.ID), strconv.Itoa(a.ClassID), strconv.Itoa(a.StudentID),
			a.DateKey(), strconv.Itoa(a.SessionNumber()), string(a.Status), model.StringOr(a.Notes, ""),
		})
	}
	return export.CSV([]string{"id", "classId", "studentId", "date", "session", "status", "notes"}, rows)
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
