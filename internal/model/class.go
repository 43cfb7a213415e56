package model

import (
	"fmt"
	"time"
)

// DefaultCredits is assigned to a class created without a credit count.
const DefaultCredits = 3

// Class represents a course offering for a department and semester.
type Class struct {
	ID         int       `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Department *string   `json:"department"`
	Semester   *int      `json:"semester"`
	Faculty    *string   `json:"faculty"`
	Year       *int      `json:"year"`
	Credits    int       `json:"credits"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Label renders "Name (CODE)".
func (c *Class) Label() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Code)
}

// ClassRequest is the payload for creating or updating a class.
type ClassRequest struct {
	Code       string  `json:"code" binding:"required,max=50"`
	Name       string  `json:"name" binding:"required,max=200"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	Semester   *int    `json:"semester" binding:"omitempty,min=1,max=16"`
	Faculty    *string `json:"faculty" binding:"omitempty,max=200"`
	Year       *int    `json:"year" binding:"omitempty,min=1900,max=9999"`
	Credits    int     `json:"credits" binding:"omitempty,min=1,max=20"`
}

// ToClass copies the request fields onto a new Class, applying the credit default.
func (r ClassRequest) ToClass() Class {
	credits := r.Credits
	if credits == 0 {
		credits = DefaultCredits
	}
	return Class{
		Code:       r.Code,
		Name:       r.Name,
		Department: r.Department,
		Semester:   r.Semester,
		Faculty:    r.Faculty,
		Year:       r.Year,
		Credits:    credits,
	}
}

// ClassFilter narrows class listings. Zero values mean no filter.
type ClassFilter struct {
	Year       int    `form:"year" binding:"omitempty,min=1,max=8"`
	Semester   int    `form:"semester" binding:"omitempty,min=1,max=16"`
	Department string `form:"department" binding:"omitempty,max=100"`
}
