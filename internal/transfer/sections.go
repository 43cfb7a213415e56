package transfer

import "strings"

const sectionMarker = "--- Year "

// dataRows drops year-section markers and header lines from a sectioned export.
// A header is the first line of the file when it is not a marker, the line that
// follows a marker naming the record kind, or any line whose first cell equals headerFirst.
func dataRows(rows []Row, kind, headerFirst string) []Row {
	out := make([]Row, 0, len(rows))
	skipNext := false
	for i, r := range rows {
		if line := strings.Join(r.Cells, ","); strings.Contains(line, sectionMarker) {
			skipNext = strings.Contains(line, kind)
			continue
		}
		if skipNext {
			skipNext = false
			continue
		}
		if i == 0 || strings.EqualFold(r.First(), headerFirst) {
			continue
		}
		out = append(out, r)
	}
	return out
}
