package transfer

import (
	"fmt"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
)

// RestoreSummary reports what a restore kept and dropped per table.
type RestoreSummary struct {
	Restored map[string]int `json:"restored"`
	Skipped  map[string]int `json:"skipped"`
}

// Normalize prepares a decoded snapshot for insertion: it fills missing ids,
// applies defaults, drops rows violating uniqueness or required columns and drops
// attendance pointing at missing students or classes.
func (s *Snapshot) Normalize(now time.Time) *RestoreSummary {
	sum := &RestoreSummary{Restored: map[string]int{}, Skipped: map[string]int{}}
	now = now.UTC()

	students := s.Students[:0]
	ids := newIDAllocator(len(s.Students))
	seenRoll := map[string]bool{}
	for _, st := range s.Students {
		if st.RollNo == "" || st.FirstName == "" || seenRoll[st.RollNo] || !ids.claim(&st.ID) {
			sum.Skipped[TableStudents]++
			continue
		}
		seenRoll[st.RollNo] = true
		stampTimes(&st.CreatedAt, &st.UpdatedAt, now)
		students = append(students, st)
	}
	s.Students = fillIDs(ids, students, func(st *model.Student) *int { return &st.ID })

	faculty := s.Faculty[:0]
	ids = newIDAllocator(len(s.Faculty))
	seenCode := map[string]bool{}
	for _, f := range s.Faculty {
		if f.FacultyID == "" || f.FirstName == "" || seenCode[f.FacultyID] || !ids.claim(&f.ID) {
			sum.Skipped[TableFaculty]++
			continue
		}
		seenCode[f.FacultyID] = true
		stampTimes(&f.CreatedAt, &f.UpdatedAt, now)
		faculty = append(faculty, f)
	}
	s.Faculty = fillIDs(ids, faculty, func(f *FacultyRecord) *int { return &f.ID })

	classes := s.Classes[:0]
	ids = newIDAllocator(len(s.Classes))
	seenClass := map[string]bool{}
	for _, c := range s.Classes {
		key := fmt.Sprintf("%s|%d", c.Code, model.IntOr(c.Year, 0))
		if c.Code == "" || c.Name == "" || seenClass[key] || !ids.claim(&c.ID) {
			sum.Skipped[TableClasses]++
			continue
		}
		seenClass[key] = true
		if c.Credits <= 0 {
			c.Credits = model.DefaultCredits
		}
		stampTimes(&c.CreatedAt, &c.UpdatedAt, now)
		classes = append(classes, c)
	}
	s.Classes = fillIDs(ids, classes, func(c *model.Class) *int { return &c.ID })

	studentIDs := map[int]bool{}
	for _, st := range s.Students {
		studentIDs[st.ID] = true
	}
	classIDs := map[int]bool{}
	for _, c := range s.Classes {
		classIDs[c.ID] = true
	}

	attendance := s.Attendance[:0]
	ids = newIDAllocator(len(s.Attendance))
	seenMark := map[string]bool{}
	for _, a := range s.Attendance {
		if a.Session <= 0 {
			a.Session = model.DefaultSession
		}
		key := fmt.Sprintf("%d|%d|%s|%d", a.ClassID, a.StudentID, a.DateKey(), a.Session)
		if !studentIDs[a.StudentID] || !classIDs[a.ClassID] || a.Date.IsZero() || !a.Status.Valid() ||
			seenMark[key] || !ids.claim(&a.ID) {
			sum.Skipped[TableAttendance]++
			continue
		}
		seenMark[key] = true
		stampTimes(&a.CreatedAt, &a.UpdatedAt, now)
		attendance = append(attendance, a)
	}
	s.Attendance = fillIDs(ids, attendance, func(a *model.Attendance) *int { return &a.ID })

	years := s.Years[:0]
	ids = newIDAllocator(len(s.Years))
	seenYear := map[string]bool{}
	for _, y := range s.Years {
		if y.Year == "" || seenYear[y.Year] || !ids.claim(&y.ID) {
			sum.Skipped[TableYears]++
			continue
		}
		seenYear[y.Year] = true
		stampTimes(&y.CreatedAt, &y.UpdatedAt, now)
		years = append(years, y)
	}
	s.Years = fillIDs(ids, years, func(y *model.AcademicYear) *int { return &y.ID })

	settings := s.Settings[:0]
	seenKey := map[string]bool{}
	for _, st := range s.Settings {
		if st.Key == "" || seenKey[st.Key] {
			sum.Skipped[TableSettings]++
			continue
		}
		seenKey[st.Key] = true
		st.UpdatedAt = now
		settings = append(settings, st)
	}
	s.Settings = settings

	for table, n := range s.Counts() {
		sum.Restored[table] = n
	}
	return sum
}

func stampTimes(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() || updated.Before(*created) {
		*updated = now
	}
}

// idAllocator keeps explicit ids unique and hands out new ids above the maximum.
type idAllocator struct {
	used map[int]bool
}

func newIDAllocator(n int) *idAllocator {
	return &idAllocator{used: make(map[int]bool, n)}
}

// claim reserves an explicit id. Zero or negative ids are left for fill and always succeed.
func (a *idAllocator) claim(id *int) bool {
	if *id <= 0 {
		*id = 0
		return true
	}
	if a.used[*id] {
		return false
	}
	a.used[*id] = true
	return true
}

func fillIDs[T any](a *idAllocator, rows []T, idOf func(*T) *int) []T {
	next := 0
	for id := range a.used {
		if id > next {
			next = id
		}
	}
	for i := range rows {
		if p := idOf(&rows[i]); *p == 0 {
			next++
			*p = next
		}
	}
	return rows
}
