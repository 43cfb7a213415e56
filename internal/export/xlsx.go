package export

import (
	"fmt"

	"github.com/campusroll/attendance-backend/internal/report"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the report workbook.
const (
	SheetSummary  = "Summary"
	SheetClasses  = "Classes"
	SheetStudents = "Students"
)

// ReportXLSX renders the report as a workbook with Summary, Classes and Students sheets.
func ReportXLSX(e report.Export) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetClasses, SheetStudents} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	s := e.SubjectSummary
	summary := [][]interface{}{
		{"Attendance Report", ""},
		{"Export Date", e.ExportDate},
		{"Subject", s.SubjectName},
		{"Faculty", s.FacultyName},
		{"Department", s.Department},
		{"Semester", s.Semester},
		{"Academic Year", s.AcademicYear},
		{"Total Sessions", s.TotalSessions},
		{"Total Students", s.TotalStudents},
		{"Average Strength", s.AverageStrength},
		{"Unique Classes", e.Statistics.UniqueClasses},
		{"Total Attendance Records", e.Statistics.TotalAttendanceRecords},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 26)
	_ = f.SetColWidth(SheetSummary, "B", "B", 40)

	classes := [][]interface{}{toRow(classDetailHeader)}
	for _, d := range e.ClassDetails {
		classes = append(classes, []interface{}{
			d.Subject, d.Faculty, d.Department, d.Semester,
			d.TotalSessions, d.TotalStudents, d.AverageStrength,
		})
	}
	if err := writeRows(f, SheetClasses, classes); err != nil {
		return nil, err
	}

	students := [][]interface{}{toRow(studentDataHeader)}
	for _, d := range e.StudentData {
		students = append(students, []interface{}{
			d.RollNo, d.Name, d.Department, d.Year, d.Semester,
			d.TotalClasses, d.PresentClasses, d.AbsentClasses, d.AttendancePercentage, d.Status,
		})
	}
	if err := writeRows(f, SheetStudents, students); err != nil {
		return nil, err
	}

	for sheet, cols := range map[string]int{SheetClasses: len(classDetailHeader), SheetStudents: len(studentDataHeader)} {
		last, _ := excelize.CoordinatesToCellName(cols, 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := r
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toRow(header []string) []interface{} {
	out := make([]interface{}, len(header))
	for i, h := range header {
		out[i] = h
	}
	return out
}
