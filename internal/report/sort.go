package report

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder selects how student rows are ordered.
type SortOrder string

const (
	SortPercentageDesc SortOrder = "percentage_desc"
	SortPercentageAsc  SortOrder = "percentage_asc"
	SortRollNoAsc      SortOrder = "rollno_asc"
	SortRollNoDesc     SortOrder = "rollno_desc"
	SortNameAsc        SortOrder = "name_asc"
	SortNameDesc       SortOrder = "name_desc"
)

// ParseSortOrder maps a user value to a SortOrder, defaulting to percentage_desc.
func ParseSortOrder(v string) SortOrder {
	switch o := SortOrder(v); o {
	case SortPercentageDesc, SortPercentageAsc, SortRollNoAsc, SortRollNoDesc, SortNameAsc, SortNameDesc:
		return o
	}
	return SortPercentageDesc
}

// SortRows orders rows in place. The sort is stable: ties keep their input order.
// Text keys use locale collation rather than byte order.
func SortRows(rows []StudentRow, order SortOrder) {
	col := collate.New(language.English)

	var less func(a, b *StudentRow) bool
	switch ParseSortOrder(string(order)) {
	case SortPercentageAsc:
		less = func(a, b *StudentRow) bool { return a.AttendancePercentage < b.AttendancePercentage }
	case SortRollNoAsc:
		less = func(a, b *StudentRow) bool { return col.CompareString(a.RollNo, b.RollNo) < 0 }
	case SortRollNoDesc:
		less = func(a, b *StudentRow) bool { return col.CompareString(b.RollNo, a.RollNo) < 0 }
	case SortNameAsc:
		less = func(a, b *StudentRow) bool { return col.CompareString(a.Name, b.Name) < 0 }
	case SortNameDesc:
		less = func(a, b *StudentRow) bool { return col.CompareString(b.Name, a.Name) < 0 }
	default:
		less = func(a, b *StudentRow) bool { return a.AttendancePercentage > b.AttendancePercentage }
	}

	sort.SliceStable(rows, func(i, j int) bool { return less(&rows[i], &rows[j]) })
}
