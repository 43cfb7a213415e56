package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/campusroll/attendance-backend/internal/report"
)

// Download formats for the attendance report.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// ContentType returns the MIME type for a report format.
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

var studentDataHeader = []string{
	"rollNo", "name", "department", "year", "semester",
	"totalClasses", "presentClasses", "absentClasses", "attendancePercentage", "status",
}

var classDetailHeader = []string{
	"Subject", "Faculty", "Department", "Semester",
	"Total Sessions", "Total Students", "Average Attendance per Session",
}

// ReportCSV renders the report as a sectioned, ASCII-only CSV with a BOM.
func ReportCSV(e report.Export) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(BOM)

	rule := "=================================================="
	s := e.SubjectSummary
	fmt.Fprintf(&buf, "%s\nATTENDANCE REPORT - DETAILED SUBJECT ANALYSIS\n%s\n\n", rule, rule)
	buf.WriteString("SUBJECT SUMMARY:\n================\n")
	lines := [][2]string{
		{"Subject", s.SubjectName},
		{"Faculty", s.FacultyName},
		{"Department", s.Department},
		{"Semester", s.Semester},
		{"Academic Year", s.AcademicYear},
		{"Total Sessions", strconv.Itoa(s.TotalSessions)},
		{"Total Students", strconv.Itoa(s.TotalStudents)},
		{"Average Strength", formatStrength(s.AverageStrength)},
		{"Unique Classes", strconv.Itoa(e.Statistics.UniqueClasses)},
		{"Total Attendance Records", strconv.Itoa(e.Statistics.TotalAttendanceRecords)},
	}
	for _, l := range lines {
		fmt.Fprintf(&buf, "%s: %s\n", l[0], ASCII(l[1]))
	}
	buf.WriteString("\n")

	if len(e.ClassDetails) > 0 {
		buf.WriteString("CLASS-WISE DETAILS:\n===================\n")
		if err := writeTable(&buf, classDetailHeader, classDetailRows(e.ClassDetails)); err != nil {
			return nil, err
		}
		buf.WriteString("\n")
	}

	fmt.Fprintf(&buf, "Export Date: %s\n\n", e.ExportDate)

	buf.WriteString("STUDENT ATTENDANCE DETAILS:\n===========================\n")
	if err := writeTable(&buf, studentDataHeader, studentDataRows(e.StudentData)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReportJSON renders the export shape as indented JSON.
func ReportJSON(e report.Export) ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

func classDetailRows(details []report.ClassDetail) [][]string {
	rows := make([][]string, 0, len(details))
	for _, d := range details {
		rows = append(rows, []string{
			ASCII(d.Subject),
			ASCII(d.Faculty),
			ASCII(d.Department),
			strconv.Itoa(d.Semester),
			strconv.Itoa(d.TotalSessions),
			strconv.Itoa(d.TotalStudents),
			formatStrength(d.AverageStrength),
		})
	}
	return rows
}

func studentDataRows(data []report.StudentData) [][]string {
	rows := make([][]string, 0, len(data))
	for _, d := range data {
		rows = append(rows, []string{
			ASCII(d.RollNo),
			ASCII(d.Name),
			ASCII(d.Department),
			strconv.Itoa(d.Year),
			d.Semester,
			strconv.Itoa(d.TotalClasses),
			strconv.Itoa(d.PresentClasses),
			strconv.Itoa(d.AbsentClasses),
			d.AttendancePercentage,
			d.Status,
		})
	}
	return rows
}

func formatStrength(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ErrUnsupportedFormat is returned for report formats other than csv, xlsx and json.
var ErrUnsupportedFormat = errors.New("export: unsupported report format")

// Report renders e in format as a named download.
func Report(e report.Export, format string, now time.Time) (*File, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = ReportCSV(e)
	case FormatXLSX:
		data, err = ReportXLSX(e)
	case FormatJSON:
		data, err = ReportJSON(e)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return &File{
		Name:        fmt.Sprintf("attendance_report_%s.%s", now.Format("2006-01-02"), format),
		ContentType: ContentType(format),
		Data:        data,
	}, nil
}
