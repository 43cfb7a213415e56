package report

import (
	"fmt"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
)

// Display defaults for missing values.
const (
	NotAvailable     = "N/A"
	NotAssigned      = "Not Assigned"
	MultipleSubjects = "Multiple Subjects"
	MultipleFaculty  = "Multiple Faculty"
	AllDepartments   = "All Departments"
	AllSemesters     = "All Semesters"
	AllYears         = "All Years"
)

// SubjectSummary identifies the dominant context of a report.
type SubjectSummary struct {
	SubjectName            string  `json:"subjectName"`
	FacultyName            string  `json:"facultyName"`
	Department             string  `json:"department"`
	Semester               string  `json:"semester"`
	AcademicYear           string  `json:"academicYear"`
	TotalSessions          int     `json:"totalSessions"`
	TotalStudents          int     `json:"totalStudents"`
	AverageStrength        float64 `json:"averageStrength"`
	TotalAttendanceRecords int     `json:"totalAttendanceRecords"`
}

// ClassDetail is one per-class row of the export, keyed for human readers.
type ClassDetail struct {
	Subject         string  `json:"Subject"`
	Faculty         string  `json:"Faculty"`
	Department      string  `json:"Department"`
	Semester        int     `json:"Semester"`
	TotalSessions   int     `json:"Total Sessions"`
	TotalStudents   int     `json:"Total Students"`
	AverageStrength float64 `json:"Average Attendance per Session"`
}

// StudentData is one per-student row of the export.
type StudentData struct {
	RollNo               string `json:"rollNo"`
	Name                 string `json:"name"`
	Department           string `json:"department"`
	Year                 int    `json:"year"`
	Semester             string `json:"semester"`
	TotalClasses         int    `json:"totalClasses"`
	PresentClasses       int    `json:"presentClasses"`
	AbsentClasses        int    `json:"absentClasses"`
	AttendancePercentage string `json:"attendancePercentage"`
	Status               string `json:"status"`
}

// Statistics are the raw counters behind the summary.
type Statistics struct {
	TotalAttendanceRecords int `json:"totalAttendanceRecords"`
	UniqueClassSessions    int `json:"uniqueClassSessions"`
	UniqueStudents         int `json:"uniqueStudents"`
	UniqueClasses          int `json:"uniqueClasses"`
}

// Export is the shape handed to the CSV, XLSX and JSON writers.
type Export struct {
	SubjectSummary SubjectSummary `json:"subjectSummary"`
	ClassDetails   []ClassDetail  `json:"classDetails"`
	StudentData    []StudentData  `json:"studentData"`
	ExportDate     string         `json:"exportDate"`
	Statistics     Statistics     `json:"statistics"`
}

// ExportDateLayout formats Export.ExportDate.
const ExportDateLayout = "2006-01-02 15:04:05"

func buildExport(acc *Accumulator, rows []StudentRow, f Filter, selected *model.Class, selectedFaculty string, now time.Time) Export {
	classes := acc.Classes()

	details := make([]ClassDetail, 0, len(classes))
	for _, s := range classes {
		details = append(details, ClassDetail{
			Subject:         fmt.Sprintf("%s (%s)", s.Name, s.Code),
			Faculty:         orDefault(s.Faculty, NotAssigned),
			Department:      orDefault(s.Department, NotAvailable),
			Semester:        s.Semester,
			TotalSessions:   s.UniqueSessions(),
			TotalStudents:   s.UniqueStudents(),
			AverageStrength: s.AverageStrength(),
		})
	}

	data := make([]StudentData, 0, len(rows))
	for _, r := range rows {
		data = append(data, r.exportRow())
	}

	summary := subjectSummary(classes, f, selected, selectedFaculty)
	summary.AcademicYear = academicYear(f, selected, now)
	summary.TotalSessions = acc.UniqueSessions()
	summary.TotalStudents = acc.UniqueStudents()
	summary.AverageStrength = acc.AverageStrength()
	summary.TotalAttendanceRecords = acc.TotalRecords()

	return Export{
		SubjectSummary: summary,
		ClassDetails:   details,
		StudentData:    data,
		ExportDate:     now.Format(ExportDateLayout),
		Statistics: Statistics{
			TotalAttendanceRecords: acc.TotalRecords(),
			UniqueClassSessions:    acc.UniqueSessions(),
			UniqueStudents:         acc.UniqueStudents(),
			UniqueClasses:          len(classes),
		},
	}
}

// subjectSummary picks the context by precedence: selected class, the only class seen,
// then the generic multi-subject labels with department and semester from the filter.
func subjectSummary(classes []*ClassStat, f Filter, selected *model.Class, selectedFaculty string) SubjectSummary {
	switch {
	case selected != nil:
		return SubjectSummary{
			SubjectName: selected.Label(),
			FacultyName: orDefault(selectedFaculty, NotAssigned),
			Department:  model.StringOr(selected.Department, NotAvailable),
			Semester:    semesterLabel(model.IntOr(selected.Semester, 0)),
		}
	case len(classes) == 1:
		s := classes[0]
		return SubjectSummary{
			SubjectName: fmt.Sprintf("%s (%s)", s.Name, s.Code),
			FacultyName: orDefault(s.Faculty, NotAssigned),
			Department:  orDefault(s.Department, NotAvailable),
			Semester:    semesterLabel(s.Semester),
		}
	}

	out := SubjectSummary{
		SubjectName: MultipleSubjects,
		FacultyName: MultipleFaculty,
		Department:  AllDepartments,
		Semester:    AllSemesters,
	}
	if f.Department != "" {
		out.Department = f.Department
	}
	if f.Semester != nil {
		out.Semester = semesterLabel(*f.Semester)
	}
	return out
}

// academicYear renders "Y-(Y+1)" from the selected class, the year filter or the semester filter.
func academicYear(f Filter, selected *model.Class, now time.Time) string {
	current := now.Year()
	switch {
	case selected != nil:
		return yearSpan(model.IntOr(selected.Year, current))
	case f.Year != nil:
		return yearSpan(current - *f.Year + 1)
	case f.Semester != nil:
		return yearSpan(current - model.YearOfSemester(*f.Semester) + 1)
	}
	return AllYears
}

func yearSpan(base int) string {
	return fmt.Sprintf("%d-%d", base, base+1)
}

func semesterLabel(sem int) string {
	if sem <= 0 {
		return "Semester " + NotAvailable
	}
	return fmt.Sprintf("Semester %d", sem)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
