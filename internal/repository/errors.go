package repository

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by every repository.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateRollNo  = errors.New("student with this roll number already exists")
	ErrDuplicateFaculty = errors.New("faculty with this faculty id already exists")
	ErrDuplicateClass   = errors.New("class with this code already exists for that year")
	ErrDuplicateYear    = errors.New("academic year already exists")
	ErrDuplicateEmail   = errors.New("admin with this email already exists")
	ErrMissingReference = errors.New("referenced class or student does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError converts driver errors into sentinels. duplicate is returned for unique violations.
func mapError(err, duplicate error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if duplicate != nil {
				return duplicate
			}
		case pgForeignKeyViolation:
			return ErrMissingReference
		}
	}
	return err
}

// affected returns ErrNotFound when a statement touched no rows.
func affected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// nullTime maps the zero time to NULL so column defaults apply.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
