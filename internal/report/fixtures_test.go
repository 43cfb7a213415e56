package report

import (
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
)

var fixedNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func student(id int, roll, first, last, dept string, sem int) model.Student {
	s := model.Student{ID: id, RollNo: roll, FirstName: first}
	if last != "" {
		s.LastName = model.Ptr(last)
	}
	if dept != "" {
		s.Department = model.Ptr(dept)
	}
	if sem > 0 {
		s.Semester = model.Ptr(sem)
	}
	return s
}

func class(id int, code, name, dept string, sem int, faculty string, year int) model.Class {
	c := model.Class{ID: id, Code: code, Name: name, Credits: model.DefaultCredits}
	if dept != "" {
		c.Department = model.Ptr(dept)
	}
	if sem > 0 {
		c.Semester = model.Ptr(sem)
	}
	if faculty != "" {
		c.Faculty = model.Ptr(faculty)
	}
	if year > 0 {
		c.Year = model.Ptr(year)
	}
	return c
}

type attendanceBuilder struct {
	next int
	rows []model.Attendance
}

func (b *attendanceBuilder) add(classID, studentID int, date string, session int, status model.AttendanceStatus) *attendanceBuilder {
	b.next++
	b.rows = append(b.rows, model.Attendance{
		ID:        b.next,
		ClassID:   classID,
		StudentID: studentID,
		Date:      day(date),
		Session:   session,
		Status:    status,
	})
	return b
}

// marks adds n rows for a student with the first present rows marked present,
// each on its own day starting from 2025-01-01.
func (b *attendanceBuilder) marks(classID, studentID, n, present int) *attendanceBuilder {
	start := day("2025-01-01")
	for i := 0; i < n; i++ {
		status := model.StatusAbsent
		if i < present {
			status = model.StatusPresent
		}
		b.add(classID, studentID, start.AddDate(0, 0, i).Format(time.DateOnly), 1, status)
	}
	return b
}

const (
	P = model.StatusPresent
	A = model.StatusAbsent
	L = model.StatusLate
	E = model.StatusExcused
)
