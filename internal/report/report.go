// Package report builds the attendance history report: it filters students,
// classes and attendance rows, aggregates per-student and per-class statistics
// in a single pass and shapes the result for listing and export.
//
// The package is pure: it never reads from or writes to the record store.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
)

// Status tells the caller how to present a report.
type Status string

const (
	StatusOK                    Status = "ok"
	StatusNoData                Status = "no_data"
	StatusClassSemesterMismatch Status = "class_semester_mismatch"
	StatusClassNotFound         Status = "class_not_found"
)

// Input is the full snapshot read from the record store.
type Input struct {
	Students   []model.Student
	Classes    []model.Class
	Attendance []model.Attendance
	Faculty    []model.Faculty
}

// StudentRow is one listed student with their attendance totals.
type StudentRow struct {
	StudentID            int    `json:"id"`
	RollNo               string `json:"rollNo"`
	Name                 string `json:"name"`
	Department           string `json:"department"`
	Year                 int    `json:"year"`
	Semester             int    `json:"semester"`
	ClassName            string `json:"className"`
	TotalClasses         int    `json:"totalClasses"`
	PresentClasses       int    `json:"presentClasses"`
	AbsentClasses        int    `json:"absentClasses"`
	AttendancePercentage int    `json:"attendancePercentage"`
}

func (r StudentRow) exportRow() StudentData {
	semester := NotAvailable
	if r.Semester > 0 {
		semester = strconv.Itoa(r.Semester)
	}
	status := "Below 75%"
	if r.AttendancePercentage >= Threshold {
		status = "Above 75%"
	}
	return StudentData{
		RollNo:               r.RollNo,
		Name:                 r.Name,
		Department:           r.Department,
		Year:                 r.Year,
		Semester:             semester,
		TotalClasses:         r.TotalClasses,
		PresentClasses:       r.PresentClasses,
		AbsentClasses:        r.AbsentClasses,
		AttendancePercentage: fmt.Sprintf("%d%%", r.AttendancePercentage),
		Status:               status,
	}
}

// Report is the complete outcome of one pass.
type Report struct {
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Sort     SortOrder     `json:"sort"`
	Rows     []StudentRow  `json:"rows"`
	Overview Overview      `json:"overview"`
	YearWise []YearSummary `json:"yearWise"`
	Export   Export        `json:"export"`
	Warnings []string      `json:"warnings,omitempty"`
}

// Build runs the filter, aggregation and summary stages over in.
// It never fails: inconsistent filters and empty results are reported through Status.
func Build(in Input, f Filter, order SortOrder, now time.Time) *Report {
	order = ParseSortOrder(string(order))

	classByID := make(map[int]*model.Class, len(in.Classes))
	for i := range in.Classes {
		classByID[in.Classes[i].ID] = &in.Classes[i]
	}
	facultyNames := facultyDirectory(in.Faculty)

	var selected *model.Class
	if f.ClassID != nil {
		selected = classByID[*f.ClassID]
		if selected == nil {
			return emptyReport(StatusClassNotFound,
				fmt.Sprintf("Class %d does not exist.", *f.ClassID), f, nil, "", order, now)
		}
		if f.Semester != nil && model.IntOr(selected.Semester, 0) != *f.Semester {
			return emptyReport(StatusClassSemesterMismatch,
				fmt.Sprintf("Selected class (%s) is not in Semester %d. Select a different class or clear the semester filter.", selected.Name, *f.Semester),
				f, selected, resolveFaculty(selected, facultyNames), order, now)
		}
	}

	rows, acc := aggregate(in, f, selected, classByID, facultyNames)
	SortRows(rows, order)

	rep := &Report{
		Status:   StatusOK,
		Sort:     order,
		Rows:     rows,
		Overview: Summarize(rows),
		YearWise: YearWise(rows),
		Export:   buildExport(acc, rows, f, selected, resolveFaculty(selected, facultyNames), now),
	}
	if len(rows) == 0 {
		rep.Status = StatusNoData
		rep.Message = "No attendance records found with the current filters."
	}
	return rep
}

// Aggregate runs the filter and aggregation stages only, returning unsorted rows
// and the accumulator of the pass.
func Aggregate(in Input, f Filter) ([]StudentRow, *Accumulator) {
	classByID := make(map[int]*model.Class, len(in.Classes))
	for i := range in.Classes {
		classByID[in.Classes[i].ID] = &in.Classes[i]
	}
	var selected *model.Class
	if f.ClassID != nil {
		selected = classByID[*f.ClassID]
		if selected == nil {
			return []StudentRow{}, NewAccumulator()
		}
	}
	return aggregate(in, f, selected, classByID, facultyDirectory(in.Faculty))
}

func aggregate(in Input, f Filter, selected *model.Class, classByID map[int]*model.Class, facultyNames map[string]string) ([]StudentRow, *Accumulator) {
	byStudent := make(map[int][]model.Attendance)
	for _, a := range in.Attendance {
		byStudent[a.StudentID] = append(byStudent[a.StudentID], a)
	}

	acc := NewAccumulator()
	rows := make([]StudentRow, 0)

	for i := range in.Students {
		s := &in.Students[i]
		if !f.matchStudent(s) {
			continue
		}
		classIDs := relevantClassIDs(s, in.Classes, selected)
		if len(classIDs) == 0 {
			continue
		}

		records := f.filterAttendance(byStudent[s.ID], classIDs)
		total := len(records)
		present := 0
		for _, r := range records {
			if r.Status == model.StatusPresent {
				present++
			}
		}
		pct := Percentage(present, total)
		if f.excludedByStatus(total, present, pct) {
			continue
		}

		for j := range records {
			cls := classByID[records[j].ClassID]
			acc.Add(&records[j], cls, resolveFaculty(cls, facultyNames))
		}

		rows = append(rows, StudentRow{
			StudentID:            s.ID,
			RollNo:               orDefault(s.RollNo, NotAvailable),
			Name:                 s.FullName(),
			Department:           model.StringOr(s.Department, NotAvailable),
			Year:                 s.Year(),
			Semester:             model.IntOr(s.Semester, 0),
			ClassName:            classDisplayName(classIDs, selected, classByID),
			TotalClasses:         total,
			PresentClasses:       present,
			AbsentClasses:        total - present,
			AttendancePercentage: pct,
		})
	}
	return rows, acc
}

func classDisplayName(ids []int, selected *model.Class, classByID map[int]*model.Class) string {
	if selected != nil {
		return selected.Label()
	}
	if len(ids) == 1 {
		if c := classByID[ids[0]]; c != nil {
			return c.Label()
		}
		return "Multiple"
	}
	return fmt.Sprintf("%d classes", len(ids))
}

// facultyDirectory maps faculty codes to display names.
func facultyDirectory(faculty []model.Faculty) map[string]string {
	out := make(map[string]string, len(faculty))
	for i := range faculty {
		out[faculty[i].FacultyID] = faculty[i].FullName()
	}
	return out
}

// resolveFaculty returns the class's faculty, replacing a faculty code with the member's name.
func resolveFaculty(c *model.Class, names map[string]string) string {
	if c == nil {
		return ""
	}
	v := model.StringOr(c.Faculty, "")
	if name, ok := names[v]; ok && name != "" {
		return name
	}
	return v
}

func emptyReport(status Status, msg string, f Filter, selected *model.Class, selectedFaculty string, order SortOrder, now time.Time) *Report {
	rows := []StudentRow{}
	return &Report{
		Status:   status,
		Message:  msg,
		Sort:     order,
		Rows:     rows,
		Overview: Overview{},
		YearWise: []YearSummary{},
		Export:   buildExport(NewAccumulator(), rows, f, selected, selectedFaculty, now),
	}
}
