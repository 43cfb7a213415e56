package transfer

import (
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
)

// StudentColumns is the number of columns in a student import line:
// Roll No, First Name, Last Name, Email, Department, Year, Semester, Created Date.
const StudentColumns = 8

// MissingEmail is stored when an imported student has no email.
const MissingEmail = "N/A"

// StudentCandidate is a parsed student awaiting the duplicate check.
type StudentCandidate struct {
	Line    int
	Student model.Student
}

// ParseStudents reads the year-sectioned student layout. The Year column is ignored
// because the year is derived from the semester.
func ParseStudents(rows []Row, now time.Time) ([]StudentCandidate, *Result) {
	res := NewResult()
	var out []StudentCandidate

	for _, r := range dataRows(rows, "Students", "Roll No") {
		if len(r.Cells) < StudentColumns {
			res.Skip(r.Line, "expected %d columns, got %d", StudentColumns, len(r.Cells))
			continue
		}
		c := r.Cells
		if c[0] == "" || c[1] == "" {
			res.Skip(r.Line, "roll number and first name are required")
			continue
		}

		email := c[3]
		if email == "" {
			email = MissingEmail
		}
		created := now.UTC()
		if t, ok := parseDate(c[7]); ok {
			created = t
		}

		out = append(out, StudentCandidate{
			Line: r.Line,
			Student: model.Student{
				RollNo:     c[0],
				FirstName:  c[1],
				LastName:   optional(c[2]),
				Email:      &email,
				Department: optional(c[4]),
				Semester:   model.Ptr(intOr(c[6], 1)),
				CreatedAt:  created,
				UpdatedAt:  now.UTC(),
			},
		})
	}
	return out, res
}
