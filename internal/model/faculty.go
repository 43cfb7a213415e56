package model

import (
	"strings"
	"time"
)

// Faculty is a teaching staff member who can mark attendance.
type Faculty struct {
	ID             int       `json:"id"`
	FacultyID      string    `json:"facultyId"`
	FirstName      string    `json:"firstName"`
	LastName       *string   `json:"lastName"`
	Email          *string   `json:"email"`
	Department     *string   `json:"department"`
	Specialization *string   `json:"specialization"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FullName joins first and last name.
func (f *Faculty) FullName() string {
	return strings.TrimSpace(f.FirstName + " " + StringOr(f.LastName, ""))
}

// FacultyLoginRequest is the payload for faculty authentication.
type FacultyLoginRequest struct {
	FacultyID string `json:"facultyId" binding:"required,max=50"`
	Password  string `json:"password" binding:"required,min=4,max=128"`
}

// FacultyLoginResponse is returned after successful faculty login.
type FacultyLoginResponse struct {
	Token   string  `json:"token"`
	Faculty Faculty `json:"faculty"`
}

// FacultyRequest is the payload for creating or updating a faculty member.
// An empty password keeps the existing hash on update and uses the default on create.
type FacultyRequest struct {
	FacultyID      string  `json:"facultyId" binding:"required,max=50"`
	FirstName      string  `json:"firstName" binding:"required,max=100"`
	LastName       *string `json:"lastName" binding:"omitempty,max=100"`
	Email          *string `json:"email" binding:"omitempty,max=255"`
	Department     *string `json:"department" binding:"omitempty,max=100"`
	Specialization *string `json:"specialization" binding:"omitempty,max=150"`
	Password       string  `json:"password" binding:"omitempty,min=4,max=128"`
}
