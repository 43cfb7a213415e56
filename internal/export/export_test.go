package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleExport() report.Export {
	return report.Export{
		SubjectSummary: report.SubjectSummary{
			SubjectName:            "Data Structures (CS201)",
			FacultyName:            "Dr. Iyer",
			Department:             "CSE",
			Semester:               "Semester 3",
			AcademicYear:           "2024-2025",
			TotalSessions:          5,
			TotalStudents:          2,
			AverageStrength:        1.4,
			TotalAttendanceRecords: 10,
		},
		ClassDetails: []report.ClassDetail{
			{Subject: "Data Structures (CS201)", Faculty: "Dr. Iyer", Department: "CSE", Semester: 3, TotalSessions: 5, TotalStudents: 2, AverageStrength: 1.4},
		},
		StudentData: []report.StudentData{
			{RollNo: "CS001", Name: "Asha 📚 Rao", Department: "CSE", Year: 2, Semester: "3", TotalClasses: 5, PresentClasses: 4, AbsentClasses: 1, AttendancePercentage: "80%", Status: "Above 75%"},
			{RollNo: "CS002", Name: `Bala "BK" Kumar`, Department: "CSE", Year: 2, Semester: "3", TotalClasses: 5, PresentClasses: 3, AbsentClasses: 2, AttendancePercentage: "60%", Status: "Below 75%"},
		},
		ExportDate: "2026-03-10 09:30:00",
		Statistics: report.Statistics{TotalAttendanceRecords: 10, UniqueClassSessions: 5, UniqueStudents: 2, UniqueClasses: 1},
	}
}

func TestASCII(t *testing.T) {
	assert.Equal(t, "+--+", ASCII("┌──┐"))
	assert.Equal(t, " [Chart] Report", ASCII("📊Report"))
	assert.Equal(t, "plain", ASCII("plain"))
}

func TestReportCSV(t *testing.T) {
	data, err := ReportCSV(sampleExport())
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, BOM))
	assert.Contains(t, text, "Subject: Data Structures (CS201)\n")
	assert.Contains(t, text, "Average Strength: 1.4\n")
	assert.Contains(t, text, "Subject,Faculty,Department,Semester,Total Sessions,Total Students,Average Attendance per Session\n")
	assert.Contains(t, text, "Data Structures (CS201),Dr. Iyer,CSE,3,5,2,1.4\n")
	assert.Contains(t, text, "CS001,Asha  [Books]  Rao,CSE,2,3,5,4,1,80%,Above 75%\n")
	assert.Contains(t, text, `CS002,"Bala ""BK"" Kumar",CSE,2,3,5,3,2,60%,Below 75%`)
	assert.NotContains(t, text, "📚")
}

func TestReportCSVWithoutClasses(t *testing.T) {
	e := sampleExport()
	e.ClassDetails = nil
	data, err := ReportCSV(e)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "CLASS-WISE DETAILS")
}

func TestReportJSON(t *testing.T) {
	data, err := ReportJSON(sampleExport())
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Contains(t, back, "subjectSummary")
	assert.Contains(t, back, "classDetails")
	assert.Contains(t, back, "studentData")
	assert.Contains(t, string(data), "\n  \"subjectSummary\"")
}

func TestReportXLSX(t *testing.T) {
	data, err := ReportXLSX(sampleExport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetClasses, SheetStudents}, f.GetSheetList())

	rows, err := f.GetRows(SheetStudents)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "rollNo", rows[0][0])
	assert.Equal(t, "CS001", rows[1][0])
	assert.Equal(t, "80%", rows[1][8])

	subject, err := f.GetCellValue(SheetSummary, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Data Structures (CS201)", subject)
}

func TestStudentsYearWiseCSV(t *testing.T) {
	students := []model.Student{
		{RollNo: "CS010", FirstName: "Chitra", Semester: model.Ptr(3), Department: model.Ptr("CSE"), CreatedAt: time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)},
		{RollNo: "CS001", FirstName: "Asha", LastName: model.Ptr("Rao"), Semester: model.Ptr(1)},
	}

	data, err := StudentsYearWiseCSV(students)
	require.NoError(t, err)

	text := strings.TrimPrefix(string(data), BOM)
	want := "--- Year 1 Students (1 records) ---\n" +
		"Roll No,First Name,Last Name,Email,Department,Year,Semester,Created Date\n" +
		"CS001,Asha,Rao,,,1,1,\n\n" +
		"--- Year 2 Students (1 records) ---\n" +
		"Roll No,First Name,Last Name,Email,Department,Year,Semester,Created Date\n" +
		"CS010,Chitra,,,CSE,2,3,07/04/2024\n\n"
	assert.Equal(t, want, text)
}

func TestClassesYearWiseCSVDefaultsCredits(t *testing.T) {
	data, err := ClassesYearWiseCSV([]model.Class{{Code: "CS201", Name: "Data Structures", Year: model.Ptr(2024)}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "--- Year 2024 Classes (1 records) ---\n")
	assert.Contains(t, string(data), "CS201,Data Structures,,,,2024,3,\n")
}

func TestBundle(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	_, err := Bundle(nil, nil, nil, now)
	assert.ErrorIs(t, err, ErrNothingToExport)

	single, err := Bundle(nil, []model.Faculty{{FacultyID: "FAC0001", FirstName: "Meena"}}, nil, now)
	require.NoError(t, err)
	assert.Equal(t, "faculty_1700000000000.csv", single.Name)
	assert.Contains(t, string(single.Data), "Faculty ID,First Name")

	both, err := Bundle(
		[]model.Student{{RollNo: "CS001", FirstName: "Asha", Semester: model.Ptr(1)}},
		nil,
		[]model.Class{{Code: "CS101", Name: "Programming"}},
		now,
	)
	require.NoError(t, err)
	assert.Equal(t, "attendance_system_export_1700000000000.zip", both.Name)
	assert.Equal(t, "application/zip", both.ContentType)

	zr, err := zip.NewReader(bytes.NewReader(both.Data), int64(len(both.Data)))
	require.NoError(t, err)
	names := []string{}
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"students_1700000000000.csv", "classes_1700000000000.csv"}, names)
}

func TestArchive(t *testing.T) {
	a := NewArchive()
	a.Add("README.txt", []byte("hello"))
	a.AddJSON("meta.json", map[string]int{"students": 2})
	data, err := a.Bytes()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"students":2}`, string(body))
}
