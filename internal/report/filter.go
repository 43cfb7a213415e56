package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
)

// StatusFilter narrows students by a coarse attendance condition.
type StatusFilter string

const (
	StatusAll     StatusFilter = ""
	StatusPresent StatusFilter = "present"
	StatusAbsent  StatusFilter = "absent"
)

// Filter holds the report criteria. A nil pointer or empty string means "no filter".
type Filter struct {
	Year       *int
	Department string
	Semester   *int
	ClassID    *int
	DateFrom   *time.Time
	DateTo     *time.Time
	Status     StatusFilter
}

// HasDateRange reports whether both range bounds are set. A single bound is ignored.
func (f Filter) HasDateRange() bool {
	return f.DateFrom != nil && f.DateTo != nil
}

// Key renders a canonical, order-independent representation used for cache keys.
func (f Filter) Key() string {
	var b strings.Builder
	writeInt := func(name string, v *int) {
		if v != nil {
			fmt.Fprintf(&b, "%s=%d;", name, *v)
		}
	}
	writeInt("y", f.Year)
	if f.Department != "" {
		fmt.Fprintf(&b, "d=%s;", f.Department)
	}
	writeInt("s", f.Semester)
	writeInt("c", f.ClassID)
	if f.HasDateRange() {
		fmt.Fprintf(&b, "r=%s..%s;", f.DateFrom.Format(time.DateOnly), f.DateTo.Format(time.DateOnly))
	}
	if f.Status != StatusAll {
		fmt.Fprintf(&b, "st=%s;", f.Status)
	}
	if b.Len() == 0 {
		return "all"
	}
	return b.String()
}

// matchStudent applies the year, department and semester criteria.
func (f Filter) matchStudent(s *model.Student) bool {
	if f.Year != nil && s.Year() != *f.Year {
		return false
	}
	if f.Department != "" && model.StringOr(s.Department, "") != f.Department {
		return false
	}
	if f.Semester != nil && model.IntOr(s.Semester, 0) != *f.Semester {
		return false
	}
	return true
}

// SameCohort compares department and semester, treating missing values as equal to each other.
// Attendance is only counted against classes of the student's cohort.
func SameCohort(s *model.Student, c *model.Class) bool {
	return model.StringOr(s.Department, "") == model.StringOr(c.Department, "") &&
		model.IntOr(s.Semester, 0) == model.IntOr(c.Semester, 0)
}

// relevantClassIDs returns the classes a student's attendance is counted against.
// With a selected class the student must belong to its cohort, otherwise nil is returned.
func relevantClassIDs(s *model.Student, classes []model.Class, selected *model.Class) []int {
	if selected != nil {
		if !SameCohort(s, selected) {
			return nil
		}
		return []int{selected.ID}
	}
	var ids []int
	for i := range classes {
		if SameCohort(s, &classes[i]) {
			ids = append(ids, classes[i].ID)
		}
	}
	return ids
}

// dayRange converts the date bounds into [from 00:00:00, to 23:59:59.999] in UTC.
func (f Filter) dayRange() (time.Time, time.Time) {
	from := truncateDay(*f.DateFrom)
	to := truncateDay(*f.DateTo).Add(24*time.Hour - time.Millisecond)
	return from, to
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// filterAttendance keeps the rows whose class is relevant and whose date lies in range.
func (f Filter) filterAttendance(rows []model.Attendance, classIDs []int) []model.Attendance {
	allowed := make(map[int]struct{}, len(classIDs))
	for _, id := range classIDs {
		allowed[id] = struct{}{}
	}

	var from, to time.Time
	ranged := f.HasDateRange()
	if ranged {
		from, to = f.dayRange()
	}

	out := make([]model.Attendance, 0, len(rows))
	for _, r := range rows {
		if _, ok := allowed[r.ClassID]; !ok {
			continue
		}
		if ranged {
			d := truncateDay(r.Date)
			if d.Before(from) || d.After(to) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// excludedByStatus implements the coarse status filter:
// "present" drops students at exactly 0%, "absent" drops students with no non-present rows.
func (f Filter) excludedByStatus(total, present, percentage int) bool {
	switch f.Status {
	case StatusPresent:
		return percentage == 0
	case StatusAbsent:
		return total-present == 0
	}
	return false
}
