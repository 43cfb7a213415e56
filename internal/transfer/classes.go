package transfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
)

// ClassColumns is the number of columns in a class import line:
// Class Code, Course Name, Department, Semester, Faculty, Year, Credits, Created Date.
const ClassColumns = 8

// UnassignedFaculty in the faculty column leaves the class without a faculty member.
const UnassignedFaculty = "New Faculty"

// ClassCandidate is a parsed class. FacultyName is the raw faculty column.
type ClassCandidate struct {
	Line        int
	Class       model.Class
	FacultyName string
}

// NormalizeDepartment maps free-form department names onto the known set.
// Unknown or empty values map to "Computer Science".
func NormalizeDepartment(dept string) string {
	d := strings.ToLower(dept)
	switch {
	case d == "":
		return "Computer Science"
	case strings.Contains(d, "cyber"):
		return "CSE(Cyber Security)"
	case strings.Contains(d, "network"):
		return "CSE(Networks)"
	case strings.Contains(d, "computer science"), strings.Contains(d, "cse"):
		return "Computer Science"
	case strings.Contains(d, "civil"):
		return "Civil"
	case strings.Contains(d, "mechanical"):
		return "Mechanical"
	case strings.Contains(d, "electrical"):
		return "Electrical"
	case strings.Contains(d, "ece"), strings.Contains(d, "electronic"):
		return "ECE"
	case strings.Contains(d, "applied"), strings.Contains(d, "science"):
		return "Applied Science"
	}
	return "Computer Science"
}

// ParseClasses reads the year-sectioned class layout.
func ParseClasses(rows []Row, now time.Time) ([]ClassCandidate, *Result) {
	res := NewResult()
	var out []ClassCandidate

	for _, r := range dataRows(rows, "Classes", "Class Code") {
		if len(r.Cells) < ClassColumns {
			res.Skip(r.Line, "expected %d columns, got %d", ClassColumns, len(r.Cells))
			continue
		}
		c := r.Cells
		if c[0] == "" || c[1] == "" {
			res.Skip(r.Line, "class code and course name are required")
			continue
		}

		created := now.UTC()
		if t, ok := parseDate(c[7]); ok {
			created = t
		}
		dept := NormalizeDepartment(c[2])

		cls := model.Class{
			Code:       c[0],
			Name:       c[1],
			Department: &dept,
			Semester:   model.Ptr(intOr(c[3], 1)),
			Year:       model.Ptr(intOr(c[5], now.Year())),
			Credits:    intOr(c[6], model.DefaultCredits),
			CreatedAt:  created,
			UpdatedAt:  now.UTC(),
		}
		if c[4] != "" && c[4] != UnassignedFaculty {
			cls.Faculty = model.Ptr(c[4])
		}
		out = append(out, ClassCandidate{Line: r.Line, Class: cls, FacultyName: c[4]})
	}
	return out, res
}

// GeneratedFaculty builds the faculty member created for an unknown faculty name on a class import.
func GeneratedFaculty(fullName, code, department, specialization, domain string, now time.Time) model.Faculty {
	parts := strings.Fields(fullName)
	first, last := "Faculty", "Member"
	if len(parts) > 0 {
		first = parts[0]
	}
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}
	email := fmt.Sprintf("%s.%s@%s", strings.ToLower(first), strings.ToLower(strings.ReplaceAll(last, " ", "")), domain)
	return model.Faculty{
		FacultyID:      code,
		FirstName:      first,
		LastName:       &last,
		Email:          &email,
		Department:     &department,
		Specialization: &specialization,
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}
}

// NextFacultyCode returns the first FACnnnn code above every existing numeric FAC code.
func NextFacultyCode(existing []string) string {
	max := 0
	for _, code := range existing {
		if !strings.HasPrefix(code, "FAC") {
			continue
		}
		if n, ok := leadingInt(code[3:]); ok && n > max {
			max = n
		}
	}
	return fmt.Sprintf("FAC%04d", max+1)
}
