package export

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
)

// ErrNothingToExport is returned when every table is empty.
var ErrNothingToExport = errors.New("export: no records")

// CreatedDateLayout is the MM/DD/YYYY layout used in table exports and accepted on import.
const CreatedDateLayout = "01/02/2006"

var (
	StudentHeader = []string{"Roll No", "First Name", "Last Name", "Email", "Department", "Year", "Semester", "Created Date"}
	FacultyHeader = []string{"Faculty ID", "First Name", "Last Name", "Email", "Department", "Specialization", "Created Date"}
	ClassHeader   = []string{"Class Code", "Course Name", "Department", "Semester", "Faculty", "Year", "Credits", "Created Date"}
)

// StudentsYearWiseCSV groups students by derived year into "--- Year N Students ---" sections.
func StudentsYearWiseCSV(students []model.Student) ([]byte, error) {
	groups := make(map[int][]model.Student)
	for _, s := range students {
		groups[s.Year()] = append(groups[s.Year()], s)
	}

	var buf bytes.Buffer
	buf.WriteString(BOM)
	for _, year := range sortedKeys(groups) {
		list := groups[year]
		fmt.Fprintf(&buf, "--- Year %d Students (%d records) ---\n", year, len(list))
		rows := make([][]string, 0, len(list))
		for i := range list {
			rows = append(rows, studentRow(&list[i]))
		}
		if err := writeTable(&buf, StudentHeader, rows); err != nil {
			return nil, err
		}
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// ClassesYearWiseCSV groups classes by calendar year into "--- Year N Classes ---" sections.
func ClassesYearWiseCSV(classes []model.Class) ([]byte, error) {
	groups := make(map[int][]model.Class)
	for _, c := range classes {
		y := model.IntOr(c.Year, 0)
		groups[y] = append(groups[y], c)
	}

	var buf bytes.Buffer
	buf.WriteString(BOM)
	for _, year := range sortedKeys(groups) {
		list := groups[year]
		fmt.Fprintf(&buf, "--- Year %d Classes (%d records) ---\n", year, len(list))
		rows := make([][]string, 0, len(list))
		for i := range list {
			rows = append(rows, classRow(&list[i]))
		}
		if err := writeTable(&buf, ClassHeader, rows); err != nil {
			return nil, err
		}
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// FacultyCSV renders faculty with a header row the faculty importer understands.
func FacultyCSV(faculty []model.Faculty) ([]byte, error) {
	rows := make([][]string, 0, len(faculty))
	for i := range faculty {
		f := &faculty[i]
		rows = append(rows, []string{
			f.FacultyID,
			f.FirstName,
			model.StringOr(f.LastName, ""),
			model.StringOr(f.Email, ""),
			model.StringOr(f.Department, ""),
			model.StringOr(f.Specialization, ""),
			createdDate(f.CreatedAt),
		})
	}
	return CSV(FacultyHeader, rows)
}

// File is one named download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Bundle exports students, faculty and classes. A single non-empty table is returned
// as its CSV; several are zipped together.
func Bundle(students []model.Student, faculty []model.Faculty, classes []model.Class, now time.Time) (*File, error) {
	stamp := now.UnixMilli()
	var files []File

	if len(students) > 0 {
		data, err := StudentsYearWiseCSV(students)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: fmt.Sprintf("students_%d.csv", stamp), Data: data})
	}
	if len(faculty) > 0 {
		data, err := FacultyCSV(faculty)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: fmt.Sprintf("faculty_%d.csv", stamp), Data: data})
	}
	if len(classes) > 0 {
		data, err := ClassesYearWiseCSV(classes)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: fmt.Sprintf("classes_%d.csv", stamp), Data: data})
	}

	switch len(files) {
	case 0:
		return nil, ErrNothingToExport
	case 1:
		files[0].ContentType = ContentType(FormatCSV)
		return &files[0], nil
	}

	zw := NewArchive()
	for _, f := range files {
		zw.Add(f.Name, f.Data)
	}
	data, err := zw.Bytes()
	if err != nil {
		return nil, err
	}
	return &File{
		Name:        fmt.Sprintf("attendance_system_export_%d.zip", stamp),
		ContentType: "application/zip",
		Data:        data,
	}, nil
}

func studentRow(s *model.Student) []string {
	return []string{
		s.RollNo,
		s.FirstName,
		model.StringOr(s.LastName, ""),
		model.StringOr(s.Email, ""),
		model.StringOr(s.Department, ""),
		itoaOrEmpty(s.Year()),
		itoaOrEmpty(model.IntOr(s.Semester, 0)),
		createdDate(s.CreatedAt),
	}
}

func classRow(c *model.Class) []string {
	credits := c.Credits
	if credits == 0 {
		credits = model.DefaultCredits
	}
	return []string{
		c.Code,
		c.Name,
		model.StringOr(c.Department, ""),
		itoaOrEmpty(model.IntOr(c.Semester, 0)),
		model.StringOr(c.Faculty, ""),
		itoaOrEmpty(model.IntOr(c.Year, 0)),
		strconv.Itoa(credits),
		createdDate(c.CreatedAt),
	}
}

func createdDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(CreatedDateLayout)
}

func itoaOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func sortedKeys[T any](m map[int]T) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
