package report

import (
	"math"
	"sort"
)

// Threshold is the attendance percentage separating "above" from "below".
const Threshold = 75

// Overview summarises the listed students.
type Overview struct {
	TotalStudents     int `json:"totalStudents"`
	AveragePercentage int `json:"averagePercentage"`
	Above75           int `json:"above75"`
	Below75           int `json:"below75"`
}

// YearSummary is the rollup of students sharing a derived academic year.
type YearSummary struct {
	Year              int `json:"year"`
	TotalStudents     int `json:"totalStudents"`
	AveragePercentage int `json:"averagePercentage"`
	Above75           int `json:"above75"`
	Below75           int `json:"below75"`
}

// Summarize computes the overview counters over rows.
func Summarize(rows []StudentRow) Overview {
	var o Overview
	sum := 0
	for _, r := range rows {
		o.TotalStudents++
		sum += r.AttendancePercentage
		if r.AttendancePercentage >= Threshold {
			o.Above75++
		} else {
			o.Below75++
		}
	}
	o.AveragePercentage = roundAvg(sum, o.TotalStudents)
	return o
}

// YearWise groups rows by derived year, ascending.
func YearWise(rows []StudentRow) []YearSummary {
	groups := make(map[int]*YearSummary)
	sums := make(map[int]int)
	for _, r := range rows {
		g, ok := groups[r.Year]
		if !ok {
			g = &YearSummary{Year: r.Year}
			groups[r.Year] = g
		}
		g.TotalStudents++
		sums[r.Year] += r.AttendancePercentage
		if r.AttendancePercentage >= Threshold {
			g.Above75++
		} else {
			g.Below75++
		}
	}

	out := make([]YearSummary, 0, len(groups))
	for year, g := range groups {
		g.AveragePercentage = roundAvg(sums[year], g.TotalStudents)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func roundAvg(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Floor(float64(sum)/float64(n) + 0.5))
}
