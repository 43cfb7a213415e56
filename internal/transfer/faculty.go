package transfer

import (
	"strings"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
)

// FacultyCandidate is a parsed faculty member. Password is empty unless the file carries one.
type FacultyCandidate struct {
	Line     int
	Faculty  model.Faculty
	Password string
}

var facultyAliases = map[string][]string{
	"facultyId":      {"facultyid", "faculty_id"},
	"firstName":      {"firstname", "first_name"},
	"lastName":       {"lastname", "last_name"},
	"email":          {"email"},
	"department":     {"department"},
	"specialization": {"specialization"},
	"password":       {"password"},
	"createdDate":    {"createddate", "created_date"},
}

// ParseFaculty reads a header-mapped faculty file. Header names are matched
// case-insensitively with whitespace removed.
func ParseFaculty(rows []Row, now time.Time) ([]FacultyCandidate, *Result) {
	res := NewResult()
	if len(rows) == 0 {
		return nil, res
	}

	index := make(map[string]int)
	for i, h := range rows[0].Cells {
		index[normalizeHeader(h)] = i
	}
	get := func(cells []string, field string) string {
		for _, alias := range facultyAliases[field] {
			if i, ok := index[alias]; ok && i < len(cells) {
				if v := cells[i]; v != "" {
					return v
				}
			}
		}
		return ""
	}

	var out []FacultyCandidate
	for _, r := range rows[1:] {
		if len(r.Cells) < 2 {
			continue
		}
		id, first := get(r.Cells, "facultyId"), get(r.Cells, "firstName")
		if id == "" || first == "" {
			res.Skip(r.Line, "faculty id and first name are required")
			continue
		}
		created := now.UTC()
		if t, ok := parseDate(get(r.Cells, "createdDate")); ok {
			created = t
		}
		out = append(out, FacultyCandidate{
			Line:     r.Line,
			Password: get(r.Cells, "password"),
			Faculty: model.Faculty{
				FacultyID:      id,
				FirstName:      first,
				LastName:       optional(get(r.Cells, "lastName")),
				Email:          optional(get(r.Cells, "email")),
				Department:     optional(get(r.Cells, "department")),
				Specialization: optional(get(r.Cells, "specialization")),
				CreatedAt:      created,
				UpdatedAt:      now.UTC(),
			},
		})
	}
	return out, res
}

func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.Trim(h, `"`))), "")
}
