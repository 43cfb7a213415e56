package transfer

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/campusroll/attendance-backend/internal/export"
	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func readCSV(t *testing.T, data []byte) []Row {
	t.Helper()
	rows, err := ReadCSV(data)
	require.NoError(t, err)
	return rows
}

func TestReadCSV(t *testing.T) {
	data := []byte("\uFEFFRoll No,Name\r\n\r\n21CS001, \"Rao, Anil\"\n21CS002,\"D\"\"Souza\"\n21CS003,\"Nair\nJr\"\n,,\n21CS004,Me\"era\n")
	rows := readCSV(t, data)

	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Roll No", "Name"}, rows[0].Cells)
	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, []string{"21CS001", "Rao, Anil"}, rows[1].Cells)
	assert.Equal(t, []string{"21CS002", `D"Souza`}, rows[2].Cells)
	assert.Equal(t, []string{"21CS003", "Nair\nJr"}, rows[3].Cells)
	assert.Equal(t, 5, rows[3].Line)
	assert.Equal(t, 8, rows[4].Line)
	assert.Equal(t, []string{"21CS004", `Me"era`}, rows[4].Cells)
}

func TestReadDispatch(t *testing.T) {
	_, err := Read("students.pdf", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	rows, err := Read("students.csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Roll No", "First Name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{" 21CS001 ", "Anil"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Read("students.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, []string{"21CS001", "Anil"}, rows[1].Cells)
}

func TestParseStudentsSectioned(t *testing.T) {
	csv := `--- Year 1 Students (2 records) ---
Roll No,First Name,Last Name,Email,Department,Year,Semester,Created Date
21CS001,Anil,Rao,anil@example.com,CSE,1,2,09/01/2024
21CS002,Meera,,,CSE,1,,

--- Year 2 Students (1 records) ---
Roll No,First Name,Last Name,Email,Department,Year,Semester,Created Date
,NoRoll,X,x@example.com,CSE,2,3,09/01/2024
21CS003,Short,Row
`
	got, res := ParseStudents(readCSV(t, []byte(csv)), now)

	require.Len(t, got, 2)
	first := got[0].Student
	assert.Equal(t, "21CS001", first.RollNo)
	assert.Equal(t, "Rao", *first.LastName)
	assert.Equal(t, 2, *first.Semester)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), first.CreatedAt)

	second := got[1].Student
	assert.Nil(t, second.LastName)
	assert.Equal(t, MissingEmail, *second.Email)
	assert.Equal(t, 1, *second.Semester)
	assert.Equal(t, now, second.CreatedAt)

	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 8, res.Errors[0].Line)
	assert.Contains(t, res.Errors[1].Reason, "expected 8 columns")
}

func TestParseStudentsFromExport(t *testing.T) {
	students := []model.Student{
		{RollNo: "21CS010", FirstName: "Kiran", Email: model.Ptr("k@example.com"), Department: model.Ptr("CSE"), Semester: model.Ptr(5), CreatedAt: now},
		{RollNo: "21CS011", FirstName: "Leela", Email: model.Ptr("l@example.com"), Department: model.Ptr("CSE"), Semester: model.Ptr(1), CreatedAt: now},
	}
	data, err := export.StudentsYearWiseCSV(students)
	require.NoError(t, err)

	got, res := ParseStudents(readCSV(t, data), now)
	assert.Zero(t, res.Skipped)
	require.Len(t, got, 2)
	rolls := []string{got[0].Student.RollNo, got[1].Student.RollNo}
	assert.ElementsMatch(t, []string{"21CS010", "21CS011"}, rolls)
}

func TestStudentsExportImportRoundTrip(t *testing.T) {
	students := []model.Student{
		{RollNo: "21CS020", FirstName: "Anita", LastName: model.Ptr(`D"Souza`), Email: model.Ptr("a@example.com"), Department: model.Ptr("CSE"), Semester: model.Ptr(3), CreatedAt: now},
		{RollNo: "21CS021", FirstName: "Vikram", LastName: model.Ptr("\"Rao\nJr"), Email: model.Ptr("v@example.com"), Department: model.Ptr("CSE"), Semester: model.Ptr(3), CreatedAt: now},
		{RollNo: "21CS022", FirstName: "Sara", LastName: model.Ptr("Khan, MSc"), Department: model.Ptr("CSE"), Semester: model.Ptr(1), CreatedAt: now},
	}
	data, err := export.StudentsYearWiseCSV(students)
	require.NoError(t, err)

	got, res := ParseStudents(readCSV(t, data), now)
	assert.Zero(t, res.Skipped, "%+v", res.Errors)
	require.Len(t, got, 3)

	lastNames := map[string]string{}
	for _, c := range got {
		lastNames[c.Student.RollNo] = *c.Student.LastName
	}
	assert.Equal(t, `D"Souza`, lastNames["21CS020"])
	assert.Equal(t, "\"Rao\nJr", lastNames["21CS021"])
	assert.Equal(t, "Khan, MSc", lastNames["21CS022"])
}

func TestParseFaculty(t *testing.T) {
	csv := `Faculty ID,First Name,Last Name,Email,Department,Specialization,Password
FAC0001,Asha,Iyer,asha@example.com,CSE,Databases,secret
solo
,Nobody,,,,,
FAC0002,Ravi,,,,,
`
	got, res := ParseFaculty(readCSV(t, []byte(csv)), now)

	require.Len(t, got, 2)
	assert.Equal(t, "FAC0001", got[0].Faculty.FacultyID)
	assert.Equal(t, "secret", got[0].Password)
	assert.Equal(t, "Databases", *got[0].Faculty.Specialization)
	assert.Nil(t, got[1].Faculty.LastName)
	assert.Empty(t, got[1].Password)

	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 4, res.Errors[0].Line)
}

func TestParseFacultySnakeCaseHeader(t *testing.T) {
	csv := "faculty_id,first_name,last_name\nFAC0009,Uma,Nair\n"
	got, res := ParseFaculty(readCSV(t, []byte(csv)), now)

	assert.Zero(t, res.Skipped)
	require.Len(t, got, 1)
	assert.Equal(t, "Nair", *got[0].Faculty.LastName)
}

func TestParseClasses(t *testing.T) {
	csv := `--- Year 2024 Classes (3 records) ---
Class Code,Course Name,Department,Semester,Faculty,Year,Credits,Created Date
CS201,Data Structures,cse,3,Asha Iyer,2024,4,09/01/2024
CS202,Algorithms,Cyber security,,New Faculty,,,
,Missing Code,CSE,1,,2024,3,
`
	got, res := ParseClasses(readCSV(t, []byte(csv)), now)

	require.Len(t, got, 2)
	ds := got[0].Class
	assert.Equal(t, "Computer Science", *ds.Department)
	assert.Equal(t, 4, ds.Credits)
	assert.Equal(t, "Asha Iyer", *ds.Faculty)

	algo := got[1].Class
	assert.Equal(t, "CSE(Cyber Security)", *algo.Department)
	assert.Nil(t, algo.Faculty)
	assert.Equal(t, UnassignedFaculty, got[1].FacultyName)
	assert.Equal(t, 2025, *algo.Year)
	assert.Equal(t, 1, *algo.Semester)
	assert.Equal(t, model.DefaultCredits, algo.Credits)

	assert.Equal(t, 1, res.Skipped)
}

func TestNormalizeDepartment(t *testing.T) {
	cases := map[string]string{
		"":                  "Computer Science",
		"CSE":               "Computer Science",
		"cse (networks)":    "CSE(Networks)",
		"Cyber":             "CSE(Cyber Security)",
		"Civil Engineering": "Civil",
		"Mechanical":        "Mechanical",
		"Electrical":        "Electrical",
		"ECE":               "ECE",
		"Electronics":       "ECE",
		"Applied Sciences":  "Applied Science",
		"Physics":           "Computer Science",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDepartment(in), in)
	}
}

func TestGeneratedFaculty(t *testing.T) {
	f := GeneratedFaculty("Asha Devi Iyer", "FAC0003", "CSE", "General", "college.edu", now)
	assert.Equal(t, "Asha", f.FirstName)
	assert.Equal(t, "Devi Iyer", *f.LastName)
	assert.Equal(t, "asha.deviiyer@college.edu", *f.Email)

	anon := GeneratedFaculty("", "FAC0004", "CSE", "General", "college.edu", now)
	assert.Equal(t, "Faculty", anon.FirstName)
	assert.Equal(t, "Member", *anon.LastName)
}

func TestNextFacultyCode(t *testing.T) {
	assert.Equal(t, "FAC0001", NextFacultyCode(nil))
	assert.Equal(t, "FAC0013", NextFacultyCode([]string{"FAC0002", "FAC0012", "T-99", "FACX"}))
}

func sampleSnapshot() *Snapshot {
	day := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	return &Snapshot{
		Students: []model.Student{
			{ID: 1, RollNo: "21CS001", FirstName: "Anil", Department: model.Ptr("CSE"), Semester: model.Ptr(3), CreatedAt: now, UpdatedAt: now},
			{ID: 2, RollNo: "21CS002", FirstName: "Meera", CreatedAt: now, UpdatedAt: now},
		},
		Faculty: []FacultyRecord{
			{Faculty: model.Faculty{ID: 1, FacultyID: "FAC0001", FirstName: "Asha", CreatedAt: now, UpdatedAt: now}, PasswordHash: "$2a$10$hash"},
		},
		Classes: []model.Class{
			{ID: 7, Code: "CS201", Name: "Data Structures", Year: model.Ptr(2024), Credits: 4, CreatedAt: now, UpdatedAt: now},
		},
		Attendance: []model.Attendance{
			{ID: 1, ClassID: 7, StudentID: 1, Date: day, Session: 1, Status: model.StatusPresent, CreatedAt: now, UpdatedAt: now},
			{ID: 2, ClassID: 7, StudentID: 2, Date: day, Session: 1, Status: model.StatusAbsent, Notes: model.Ptr("sick"), CreatedAt: now, UpdatedAt: now},
		},
		Years: []model.AcademicYear{
			{ID: 1, Year: "2024-2025", StartDate: model.Ptr(day), Type: model.Ptr("regular"), CreatedAt: now, UpdatedAt: now},
		},
		Settings: []model.AppSetting{{Key: "institution", Value: "Campus", UpdatedAt: now}},
	}
}

func TestBackupRoundTrip(t *testing.T) {
	in := sampleSnapshot()
	data, err := EncodeBackup(in, now)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "metadata.json")
	assert.Contains(t, names, "README.txt")
	assert.Contains(t, names, "students.csv")

	out, err := DecodeBackup(BackupFileName(now), data, 0)
	require.NoError(t, err)
	assert.Equal(t, in.Counts(), out.Counts())

	assert.Equal(t, "21CS001", out.Students[0].RollNo)
	assert.Equal(t, 3, *out.Students[0].Semester)
	assert.Nil(t, out.Students[1].Semester)
	assert.Equal(t, "$2a$10$hash", out.Faculty[0].PasswordHash)
	assert.Equal(t, 4, out.Classes[0].Credits)
	assert.Equal(t, in.Attendance[1].Date, out.Attendance[1].Date)
	assert.Equal(t, "sick", *out.Attendance[1].Notes)
	assert.Equal(t, "2024-2025", out.Years[0].Year)
	assert.Equal(t, "Campus", out.Settings[0].Value)
}

func TestDecodeStructuredJSON(t *testing.T) {
	doc := map[string]any{
		"metadata": map[string]any{"exportType": BackupExportType},
		"data": map[string]any{
			"students":       []any{map[string]any{"id": 4, "roll_no": "21CS004", "first_name": "Zoya", "semester": "2"}},
			"academic_years": []any{map[string]any{"year": "2025-2026", "start_date": "2025-06-01"}},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	s, err := DecodeBackup("backup.json", data, 0)
	require.NoError(t, err)
	require.Len(t, s.Students, 1)
	assert.Equal(t, 4, s.Students[0].ID)
	assert.Equal(t, "Zoya", s.Students[0].FirstName)
	assert.Equal(t, 2, *s.Students[0].Semester)
	require.Len(t, s.Years, 1)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *s.Years[0].StartDate)
}

func TestDecodeLegacyJSON(t *testing.T) {
	data := []byte(`{"students":[{"rollNo":"A1","firstName":"Ira"}],"unknown":[1,2]}`)
	s, err := DecodeBackup("legacy.json", data, 0)
	require.NoError(t, err)
	assert.Len(t, s.Students, 1)
}

func TestDecodeErrors(t *testing.T) {
	_, err := DecodeBackup("x.json", []byte(`{"other": []}`), 0)
	assert.ErrorIs(t, err, ErrEmptyBackup)

	_, err = DecodeBackup("x.json", []byte(`not json`), 0)
	assert.ErrorIs(t, err, ErrMalformedBackup)

	_, err = DecodeBackup("x.zip", []byte("PK\x03\x04broken"), 0)
	assert.ErrorIs(t, err, ErrMalformedBackup)
}

func TestDecodeBackupSizeLimit(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("students.json")
	require.NoError(t, err)
	_, err = w.Write([]byte(`[{"roll_no":"A1","first_name":"Ira"}` + strings.Repeat(" ", 1<<20) + `]`))
	require.NoError(t, err)
	w, err = zw.Create("faculty.json")
	require.NoError(t, err)
	_, err = w.Write([]byte(`[]`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.Less(t, buf.Len(), 8<<10)

	_, err = DecodeBackup("backup.zip", buf.Bytes(), 64<<10)
	assert.ErrorIs(t, err, ErrBackupTooLarge)

	// The cap covers the archive as a whole.
	_, err = DecodeBackup("backup.zip", buf.Bytes(), 1<<20+38)
	assert.ErrorIs(t, err, ErrBackupTooLarge)

	s, err := DecodeBackup("backup.zip", buf.Bytes(), 2<<20)
	require.NoError(t, err)
	assert.Len(t, s.Students, 1)
}

func TestNormalize(t *testing.T) {
	day := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	s := &Snapshot{
		Students: []model.Student{
			{ID: 5, RollNo: "A1", FirstName: "Ira"},
			{RollNo: "A2", FirstName: "Om"},
			{ID: 9, RollNo: "A1", FirstName: "Dup"},
			{ID: 5, RollNo: "A3", FirstName: "SameID"},
			{RollNo: "", FirstName: "NoRoll"},
		},
		Classes: []model.Class{
			{Code: "CS1", Name: "Intro", Year: model.Ptr(2024)},
			{Code: "CS1", Name: "Intro again", Year: model.Ptr(2024)},
			{Code: "CS1", Name: "Intro next year", Year: model.Ptr(2025), Credits: 2},
		},
		Attendance: []model.Attendance{
			{ClassID: 1, StudentID: 5, Date: day, Status: model.StatusPresent},
			{ClassID: 1, StudentID: 5, Date: day, Session: 1, Status: model.StatusAbsent},
			{ClassID: 1, StudentID: 6, Date: day, Session: 2, Status: model.StatusLate},
			{ClassID: 1, StudentID: 99, Date: day, Status: model.StatusPresent},
			{ClassID: 1, StudentID: 5, Date: day, Session: 3, Status: "skipped"},
		},
		Settings: []model.AppSetting{{Key: "a", Value: "1"}, {Key: "a", Value: "2"}},
	}

	sum := s.Normalize(now)

	require.Len(t, s.Students, 2)
	assert.Equal(t, 5, s.Students[0].ID)
	assert.Equal(t, 6, s.Students[1].ID)
	assert.Equal(t, now, s.Students[1].CreatedAt)

	require.Len(t, s.Classes, 2)
	assert.Equal(t, 1, s.Classes[0].ID)
	assert.Equal(t, model.DefaultCredits, s.Classes[0].Credits)
	assert.Equal(t, 2, s.Classes[1].Credits)

	require.Len(t, s.Attendance, 2)
	assert.Equal(t, model.DefaultSession, s.Attendance[0].Session)
	assert.Equal(t, []int{1, 2}, []int{s.Attendance[0].ID, s.Attendance[1].ID})

	assert.Equal(t, 3, sum.Skipped[TableStudents])
	assert.Equal(t, 1, sum.Skipped[TableClasses])
	assert.Equal(t, 3, sum.Skipped[TableAttendance])
	assert.Equal(t, 1, sum.Skipped[TableSettings])
	assert.Equal(t, 2, sum.Restored[TableStudents])
	assert.Equal(t, 0, sum.Restored[TableFaculty])
}
