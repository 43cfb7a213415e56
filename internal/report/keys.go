package report

import (
	"fmt"

	"github.com/campusroll/attendance-backend/internal/model"
)

// ClassSessionKey identifies a session within one class: "<date>-<session>".
// Only meaningful when scoped to a single class id.
func ClassSessionKey(a *model.Attendance) string {
	return fmt.Sprintf("%s-%d", a.DateKey(), a.SessionNumber())
}

// GlobalSessionKey identifies a session across all classes: "<classId>-<date>-<session>".
func GlobalSessionKey(a *model.Attendance) string {
	return fmt.Sprintf("%d-%s-%d", a.ClassID, a.DateKey(), a.SessionNumber())
}
