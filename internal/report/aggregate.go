package report

import (
	"math"

	"github.com/campusroll/attendance-backend/internal/model"
)

// SessionTally counts rows and present rows for one session of a class.
type SessionTally struct {
	Present int
	Total   int
}

// ClassStat is the running statistic for one class touched by the pass.
type ClassStat struct {
	ClassID      int
	Name         string
	Code         string
	Faculty      string
	Department   string
	Semester     int
	Year         int
	TotalRecords int

	students     map[int]struct{}
	sessions     map[string]*SessionTally
	sessionOrder []string
}

func newClassStat(c *model.Class, faculty string) *ClassStat {
	return &ClassStat{
		ClassID:    c.ID,
		Name:       c.Name,
		Code:       c.Code,
		Faculty:    faculty,
		Department: model.StringOr(c.Department, ""),
		Semester:   model.IntOr(c.Semester, 0),
		Year:       model.IntOr(c.Year, 0),
		students:   make(map[int]struct{}),
		sessions:   make(map[string]*SessionTally),
	}
}

// UniqueStudents is the number of distinct students with rows in this class.
func (s *ClassStat) UniqueStudents() int { return len(s.students) }

// UniqueSessions is the number of distinct ClassSessionKeys seen for this class.
func (s *ClassStat) UniqueSessions() int { return len(s.sessions) }

// Session returns the tally for a ClassSessionKey, or nil.
func (s *ClassStat) Session(key string) *SessionTally { return s.sessions[key] }

// SessionKeys lists session keys in first-seen order.
func (s *ClassStat) SessionKeys() []string { return s.sessionOrder }

// PresentSum adds up present counts over every session of the class.
func (s *ClassStat) PresentSum() int {
	sum := 0
	for _, t := range s.sessions {
		sum += t.Present
	}
	return sum
}

// AverageStrength is the mean number of present students per session, to one decimal.
// A class without sessions has strength 0.
func (s *ClassStat) AverageStrength() float64 {
	if len(s.sessions) == 0 {
		return 0
	}
	return round1(float64(s.PresentSum()) / float64(len(s.sessions)))
}

// Accumulator collects per-class and global statistics during one pass.
// It is created per pass and returned with the result; nothing is shared between passes.
type Accumulator struct {
	classes        map[int]*ClassStat
	classOrder     []int
	globalSessions map[string]struct{}
	students       map[int]struct{}
	totalRecords   int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		classes:        make(map[int]*ClassStat),
		globalSessions: make(map[string]struct{}),
		students:       make(map[int]struct{}),
	}
}

// Add records one attendance row of a surviving student.
// cls may be nil for a row whose class is unknown; such rows count globally only.
func (a *Accumulator) Add(rec *model.Attendance, cls *model.Class, faculty string) {
	a.totalRecords++
	a.students[rec.StudentID] = struct{}{}
	a.globalSessions[GlobalSessionKey(rec)] = struct{}{}

	if cls == nil {
		return
	}
	stat, ok := a.classes[rec.ClassID]
	if !ok {
		stat = newClassStat(cls, faculty)
		a.classes[rec.ClassID] = stat
		a.classOrder = append(a.classOrder, rec.ClassID)
	}

	stat.TotalRecords++
	stat.students[rec.StudentID] = struct{}{}

	key := ClassSessionKey(rec)
	tally, ok := stat.sessions[key]
	if !ok {
		tally = &SessionTally{}
		stat.sessions[key] = tally
		stat.sessionOrder = append(stat.sessionOrder, key)
	}
	tally.Total++
	if rec.Status == model.StatusPresent {
		tally.Present++
	}
}

// Classes returns class statistics in first-touched order.
func (a *Accumulator) Classes() []*ClassStat {
	out := make([]*ClassStat, 0, len(a.classOrder))
	for _, id := range a.classOrder {
		out = append(out, a.classes[id])
	}
	return out
}

// Class returns the statistic for a class id, or nil.
func (a *Accumulator) Class(id int) *ClassStat { return a.classes[id] }

// TotalRecords is the number of attendance rows accumulated.
func (a *Accumulator) TotalRecords() int { return a.totalRecords }

// UniqueSessions is the number of distinct GlobalSessionKeys.
func (a *Accumulator) UniqueSessions() int { return len(a.globalSessions) }

// UniqueStudents is the number of distinct students with at least one row.
func (a *Accumulator) UniqueStudents() int { return len(a.students) }

// AverageStrength is the system-wide mean of present students per session, to one decimal.
func (a *Accumulator) AverageStrength() float64 {
	if len(a.globalSessions) == 0 {
		return 0
	}
	sum := 0
	for _, s := range a.classes {
		sum += s.PresentSum()
	}
	return round1(float64(sum) / float64(len(a.globalSessions)))
}

// Percentage is round(present/total*100), half-up, or 0 when total is 0.
func Percentage(present, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(present)/float64(total)*100 + 0.5))
}

func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
