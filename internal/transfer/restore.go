package transfer

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/campusroll/attendance-backend/internal/model"
)

var (
	// ErrEmptyBackup is returned when a file holds none of the known tables.
	ErrEmptyBackup = errors.New("transfer: backup contains no known tables")
	// ErrMalformedBackup wraps decoding failures.
	ErrMalformedBackup = errors.New("transfer: malformed backup")
	// ErrBackupTooLarge is returned when an archive unpacks beyond the allowed size.
	ErrBackupTooLarge = errors.New("transfer: backup exceeds the size limit")
)

// tableAliases maps names found in backup files to canonical table names.
var tableAliases = map[string]string{
	"students":       TableStudents,
	"faculty":        TableFaculty,
	"classes":        TableClasses,
	"attendance":     TableAttendance,
	"years":          TableYears,
	"academic_years": TableYears,
	"academicYears":  TableYears,
	"settings":       TableSettings,
	"app_settings":   TableSettings,
}

// DecodeBackup reads a backup ZIP, a structured JSON backup ({metadata, data})
// or a legacy JSON file with tables at the top level.
// Records are decoded leniently: unknown columns are dropped and loosely typed
// values are coerced. maxBytes caps the total unpacked size of the JSON entries
// of an archive; zero or less means no cap.
func DecodeBackup(filename string, data []byte, maxBytes int64) (*Snapshot, error) {
	var (
		tables map[string][]record
		err    error
	)
	if strings.EqualFold(path.Ext(filename), ".zip") || bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		tables, err = decodeZip(data, maxBytes)
	} else {
		tables, err = decodeJSON(data)
	}
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, ErrEmptyBackup
	}
	return snapshotFrom(tables), nil
}

func decodeZip(data []byte, maxBytes int64) (map[string][]record, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}

	budget := maxBytes
	tables := make(map[string][]record)
	for _, f := range zr.File {
		base := path.Base(f.Name)
		if !strings.EqualFold(path.Ext(base), ".json") {
			continue
		}
		name := strings.TrimSuffix(base, path.Ext(base))
		raw, err := readZipFile(f, budget, maxBytes > 0)
		if err != nil {
			return nil, err
		}
		budget -= int64(len(raw))

		table, known := tableAliases[name]
		if !known {
			// A whole JSON backup may itself be stored inside the archive.
			if name != "metadata" {
				if nested, err := decodeJSON(raw); err == nil {
					for t, rows := range nested {
						tables[t] = rows
					}
				}
			}
			continue
		}
		var rows []record
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedBackup, f.Name, err)
		}
		tables[table] = rows
	}
	return tables, nil
}

// readZipFile reads one entry. With limited set it fails once the entry grows past budget;
// the declared size in the header is not trusted.
func readZipFile(f *zip.File, budget int64, limited bool) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrMalformedBackup, f.Name, err)
	}
	defer rc.Close()

	if !limited {
		return io.ReadAll(rc)
	}
	raw, err := io.ReadAll(io.LimitReader(rc, budget+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrMalformedBackup, f.Name, err)
	}
	if int64(len(raw)) > budget {
		return nil, fmt.Errorf("%w: %s", ErrBackupTooLarge, f.Name)
	}
	return raw, nil
}

func decodeJSON(data []byte) (map[string][]record, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	if inner, ok := top["data"]; ok {
		if err := json.Unmarshal(inner, &top); err != nil {
			return nil, fmt.Errorf("%w: data: %v", ErrMalformedBackup, err)
		}
	}

	tables := make(map[string][]record)
	for key, raw := range top {
		table, ok := tableAliases[key]
		if !ok {
			continue
		}
		var rows []record
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedBackup, key, err)
		}
		tables[table] = rows
	}
	return tables, nil
}

// record is one loosely typed row from a backup file.
type record map[string]any

func (r record) value(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r record) str(keys ...string) string {
	v, ok := r.value(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

func (r record) optStr(keys ...string) *string {
	return optional(r.str(keys...))
}

func (r record) num(keys ...string) (int, bool) {
	v, ok := r.value(keys...)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return int(t), true
	case string:
		return leadingInt(t)
	}
	return 0, false
}

func (r record) optPositive(keys ...string) *int {
	if n, ok := r.num(keys...); ok && n > 0 {
		return &n
	}
	return nil
}

func (r record) date(keys ...string) (time.Time, bool) {
	return parseDate(r.str(keys...))
}

func (r record) optTime(keys ...string) *time.Time {
	if t, ok := r.date(keys...); ok {
		return &t
	}
	return nil
}

func snapshotFrom(tables map[string][]record) *Snapshot {
	s := &Snapshot{}
	for _, r := range tables[TableStudents] {
		id, _ := r.num("id")
		st := model.Student{
			ID:         id,
			RollNo:     r.str("rollNo", "roll_no"),
			FirstName:  r.str("firstName", "first_name"),
			LastName:   r.optStr("lastName", "last_name"),
			Email:      r.optStr("email"),
			Department: r.optStr("department"),
			Semester:   r.optPositive("semester"),
		}
		st.CreatedAt, _ = r.date("createdAt", "created_at")
		s.Students = append(s.Students, st)
	}
	for _, r := range tables[TableFaculty] {
		id, _ := r.num("id")
		f := FacultyRecord{
			Faculty: model.Faculty{
				ID:             id,
				FacultyID:      r.str("facultyId", "faculty_id"),
				FirstName:      r.str("firstName", "first_name"),
				LastName:       r.optStr("lastName", "last_name"),
				Email:          r.optStr("email"),
				Department:     r.optStr("department"),
				Specialization: r.optStr("specialization"),
			},
			PasswordHash: r.str("passwordHash", "password_hash"),
			Password:     r.str("password"),
		}
		f.CreatedAt, _ = r.date("createdAt", "created_at")
		s.Faculty = append(s.Faculty, f)
	}
	for _, r := range tables[TableClasses] {
		id, _ := r.num("id")
		credits, _ := r.num("credits")
		c := model.Class{
			ID:         id,
			Code:       r.str("code"),
			Name:       r.str("name"),
			Department: r.optStr("department"),
			Semester:   r.optPositive("semester"),
			Faculty:    r.optStr("faculty"),
			Year:       r.optPositive("year"),
			Credits:    credits,
		}
		c.CreatedAt, _ = r.date("createdAt", "created_at")
		s.Classes = append(s.Classes, c)
	}
	for _, r := range tables[TableAttendance] {
		id, _ := r.num("id")
		classID, _ := r.num("classId", "class_id")
		studentID, _ := r.num("studentId", "student_id")
		session, _ := r.num("session")
		a := model.Attendance{
			ID:        id,
			ClassID:   classID,
			StudentID: studentID,
			Session:   session,
			Status:    model.AttendanceStatus(strings.ToLower(r.str("status"))),
			Notes:     r.optStr("notes"),
		}
		a.Date, _ = r.date("date")
		s.Attendance = append(s.Attendance, a)
	}
	for _, r := range tables[TableYears] {
		id, _ := r.num("id")
		s.Years = append(s.Years, model.AcademicYear{
			ID:        id,
			Year:      r.str("year"),
			StartDate: r.optTime("startDate", "start_date"),
			EndDate:   r.optTime("endDate", "end_date"),
			Type:      r.optStr("type"),
		})
	}
	for _, r := range tables[TableSettings] {
		s.Settings = append(s.Settings, model.AppSetting{
			Key:   r.str("key"),
			Value: r.str("value"),
		})
	}
	return s
}
