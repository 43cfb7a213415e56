package model

import (
	"strings"
	"time"
)

// Student represents an enrolled student.
// Optional columns are nil when the store has no value.
type Student struct {
	ID         int       `json:"id"`
	RollNo     string    `json:"rollNo"`
	FirstName  string    `json:"firstName"`
	LastName   *string   `json:"lastName"`
	Email      *string   `json:"email"`
	Department *string   `json:"department"`
	Semester   *int      `json:"semester"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Year derives the academic year index from the semester: ceil(semester/2).
// Returns 0 when the semester is unknown.
func (s *Student) Year() int {
	return YearOfSemester(IntOr(s.Semester, 0))
}

// FullName joins first and last name.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + StringOr(s.LastName, ""))
}

// YearOfSemester maps semester 1,2 → 1; 3,4 → 2; and so on.
func YearOfSemester(semester int) int {
	if semester <= 0 {
		return 0
	}
	return (semester + 1) / 2
}

// StudentLoginRequest is the payload for student authentication.
type StudentLoginRequest struct {
	RollNo string `json:"rollNo" binding:"required,max=50"`
	Email  string `json:"email" binding:"required,max=255"`
}

// StudentLoginResponse is returned after successful student login.
type StudentLoginResponse struct {
	Token   string  `json:"token"`
	Student Student `json:"student"`
}

// StudentRequest is the payload for creating or updating a student.
type StudentRequest struct {
	RollNo     string  `json:"rollNo" binding:"required,max=50"`
	FirstName  string  `json:"firstName" binding:"required,max=100"`
	LastName   *string `json:"lastName" binding:"omitempty,max=100"`
	Email      *string `json:"email" binding:"omitempty,max=255"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	Semester   *int    `json:"semester" binding:"omitempty,min=1,max=16"`
}

// ToStudent copies the request fields onto a new Student.
func (r StudentRequest) ToStudent() Student {
	return Student{
		RollNo:     strings.TrimSpace(r.RollNo),
		FirstName:  strings.TrimSpace(r.FirstName),
		LastName:   r.LastName,
		Email:      r.Email,
		Department: r.Department,
		Semester:   r.Semester,
	}
}

// StudentFilter narrows student listings. Zero values mean no filter.
type StudentFilter struct {
	Year       int    `form:"year" binding:"omitempty,min=1,max=8"`
	Semester   int    `form:"semester" binding:"omitempty,min=1,max=16"`
	Department string `form:"department" binding:"omitempty,max=100"`
}

// StudentStats is the self-service attendance summary.
type StudentStats struct {
	TotalClasses   int     `json:"totalClasses"`
	PresentClasses int     `json:"presentClasses"`
	AbsentClasses  int     `json:"absentClasses"`
	Percentage     float64 `json:"percentage"`
}
