package model

import "time"

// AcademicYear labels a teaching year, e.g. "2024-2025".
type AcademicYear struct {
	ID        int        `json:"id"`
	Year      string     `json:"year"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Type      *string    `json:"type"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// AcademicYearRequest is the payload for creating or updating an academic year.
type AcademicYearRequest struct {
	Year      string  `json:"year" binding:"required,max=20"`
	StartDate *string `json:"startDate" binding:"omitempty,iso_date"`
	EndDate   *string `json:"endDate" binding:"omitempty,iso_date"`
	Type      *string `json:"type" binding:"omitempty,max=50"`
}
