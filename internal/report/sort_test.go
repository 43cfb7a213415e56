package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(rows []StudentRow) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.StudentID)
	}
	return out
}

func sampleRows() []StudentRow {
	return []StudentRow{
		{StudentID: 1, RollNo: "R03", Name: "Chitra", AttendancePercentage: 80},
		{StudentID: 2, RollNo: "R01", Name: "asha", AttendancePercentage: 60},
		{StudentID: 3, RollNo: "R05", Name: "Bala", AttendancePercentage: 80},
		{StudentID: 4, RollNo: "R02", Name: "Devi", AttendancePercentage: 95},
		{StudentID: 5, RollNo: "R04", Name: "Ezhil", AttendancePercentage: 60},
	}
}

func TestSortPercentageIsStable(t *testing.T) {
	desc := sampleRows()
	SortRows(desc, SortPercentageDesc)
	assert.Equal(t, []int{4, 1, 3, 2, 5}, ids(desc))

	asc := sampleRows()
	SortRows(asc, SortPercentageAsc)
	assert.Equal(t, []int{2, 5, 1, 3, 4}, ids(asc))
}

func TestSortDefaultIsPercentageDesc(t *testing.T) {
	rows := sampleRows()
	SortRows(rows, "bogus")
	assert.Equal(t, []int{4, 1, 3, 2, 5}, ids(rows))
	assert.Equal(t, SortPercentageDesc, ParseSortOrder(""))
}

func TestSortRollNoIgnoresPercentage(t *testing.T) {
	rows := []StudentRow{
		{StudentID: 1, RollNo: "CS010", AttendancePercentage: 80},
		{StudentID: 2, RollNo: "CS002", AttendancePercentage: 80},
	}
	SortRows(rows, SortRollNoAsc)
	assert.Equal(t, []int{2, 1}, ids(rows))

	SortRows(rows, SortRollNoDesc)
	assert.Equal(t, []int{1, 2}, ids(rows))
}

func TestSortNameUsesCollation(t *testing.T) {
	rows := sampleRows()
	SortRows(rows, SortNameAsc)
	// Lower-case "asha" sorts with the A names rather than after every capital.
	assert.Equal(t, []int{2, 3, 1, 4, 5}, ids(rows))

	SortRows(rows, SortNameDesc)
	assert.Equal(t, []int{5, 4, 1, 3, 2}, ids(rows))
}
