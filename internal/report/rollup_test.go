package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYearWise(t *testing.T) {
	rows := []StudentRow{
		{Year: 2, AttendancePercentage: 80},
		{Year: 1, AttendancePercentage: 75},
		{Year: 2, AttendancePercentage: 71},
		{Year: 1, AttendancePercentage: 50},
		{Year: 2, AttendancePercentage: 100},
	}

	got := YearWise(rows)

	assert.Equal(t, []YearSummary{
		{Year: 1, TotalStudents: 2, AveragePercentage: 63, Above75: 1, Below75: 1},
		{Year: 2, TotalStudents: 3, AveragePercentage: 84, Above75: 2, Below75: 1},
	}, got)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Overview{}, Summarize(nil))

	o := Summarize([]StudentRow{{AttendancePercentage: 74}, {AttendancePercentage: 75}})
	assert.Equal(t, Overview{TotalStudents: 2, AveragePercentage: 75, Above75: 1, Below75: 1}, o)
}
