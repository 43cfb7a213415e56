package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYearOfSemester(t *testing.T) {
	cases := map[int]int{0: 0, -1: 0, 1: 1, 2: 1, 3: 2, 4: 2, 7: 4, 8: 4}
	for sem, want := range cases {
		assert.Equal(t, want, YearOfSemester(sem), "semester %d", sem)
	}
}

func TestStudentDefaults(t *testing.T) {
	s := Student{FirstName: "Asha"}
	assert.Equal(t, 0, s.Year())
	assert.Equal(t, "Asha", s.FullName())

	s.LastName = Ptr("Rao")
	s.Semester = Ptr(5)
	assert.Equal(t, 3, s.Year())
	assert.Equal(t, "Asha Rao", s.FullName())
}

func TestClassRequestDefaultsCredits(t *testing.T) {
	c := ClassRequest{Code: "CS101", Name: "Programming"}.ToClass()
	assert.Equal(t, DefaultCredits, c.Credits)
	assert.Equal(t, "Programming (CS101)", c.Label())
}

func TestAttendanceDefaults(t *testing.T) {
	a := Attendance{}
	assert.Equal(t, DefaultSession, a.SessionNumber())
	assert.True(t, StatusExcused.Valid())
	assert.False(t, AttendanceStatus("sick").Valid())
}

func TestStringOr(t *testing.T) {
	assert.Equal(t, "N/A", StringOr(nil, "N/A"))
	assert.Equal(t, "N/A", StringOr(Ptr(""), "N/A"))
	assert.Equal(t, "CSE", StringOr(Ptr("CSE"), "N/A"))
}
