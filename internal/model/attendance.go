package model

import "time"

// AttendanceStatus is the recorded state of a student for one session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusExcused AttendanceStatus = "excused"
)

// Valid reports whether s is one of the four known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// DefaultSession is the session number used when none is recorded.
const DefaultSession = 1

// Attendance is one student's mark for one class session.
type Attendance struct {
	ID        int              `json:"id"`
	ClassID   int              `json:"classId"`
	StudentID int              `json:"studentId"`
	Date      time.Time        `json:"date"`
	Session   int              `json:"session"`
	Status    AttendanceStatus `json:"status"`
	Notes     *string          `json:"notes"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// SessionNumber returns the session, substituting the default for unset values.
func (a *Attendance) SessionNumber() int {
	if a.Session <= 0 {
		return DefaultSession
	}
	return a.Session
}

// DateKey renders the record date as YYYY-MM-DD.
func (a *Attendance) DateKey() string {
	return a.Date.Format("2006-01-02")
}

// MarkAttendanceRequest records a single student's status.
type MarkAttendanceRequest struct {
	ClassID   int     `json:"classId" binding:"required,min=1"`
	StudentID int     `json:"studentId" binding:"required,min=1"`
	Date      string  `json:"date" binding:"required,iso_date"`
	Session   int     `json:"session" binding:"omitempty,min=1,max=12"`
	Status    string  `json:"status" binding:"required,attendance_status"`
	Notes     *string `json:"notes" binding:"omitempty,max=500"`
}

// BulkMarkEntry is one student's status within a bulk mark.
type BulkMarkEntry struct {
	StudentID int     `json:"studentId" binding:"required,min=1"`
	Status    string  `json:"status" binding:"required,attendance_status"`
	Notes     *string `json:"notes" binding:"omitempty,max=500"`
}

// BulkMarkRequest records a whole class session at once.
type BulkMarkRequest struct {
	ClassID int             `json:"classId" binding:"required,min=1"`
	Date    string          `json:"date" binding:"required,iso_date"`
	Session int             `json:"session" binding:"omitempty,min=1,max=12"`
	Entries []BulkMarkEntry `json:"entries" binding:"required,min=1,dive"`
}

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	ClassID   int    `form:"class_id" binding:"omitempty,min=1"`
	StudentID int    `form:"student_id" binding:"omitempty,min=1"`
	Date      string `form:"date" binding:"omitempty,iso_date"`
}

// AttendanceEvent is published on the live feed after every mark.
type AttendanceEvent struct {
	Type      string           `json:"type"`
	ClassID   int              `json:"classId"`
	StudentID int              `json:"studentId"`
	Date      string           `json:"date"`
	Session   int              `json:"session"`
	Status    AttendanceStatus `json:"status"`
	MarkedBy  string           `json:"markedBy"`
	Timestamp int64            `json:"timestamp"`
}
