// Package refservice is a reference implementation of the student records service. It exists so
// that the contract tests can be run against something known to conform, and it can also be run
// on its own with cmd/student-service.
package refservice

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no student has the requested id.
	ErrNotFound = errors.New("student not found")

	// ErrDuplicateEmail is returned when a student with the same email already exists.
	ErrDuplicateEmail = errors.New("a student with this email already exists")
)

// Student is a stored student record, in the form the service returns it.
type Student struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	StartedAt   string `json:"started_at"`
	CreatedAt   string `json:"created_at"`
}

// SearchFilter selects students. Empty fields match everything.
type SearchFilter struct {
	// Name is matched, ignoring case, as a substring of the first, last or display name.
	Name string

	// StartedAfter selects students whose StartedAt is strictly later than this YYYY-MM-DD date.
	StartedAfter string
}

// Storage persists student records.
type Storage interface {
	// CreateStudent stores a new student and returns its id. s.ID is ignored.
	CreateStudent(ctx context.Context, s Student) (int64, error)

	GetStudentByID(ctx context.Context, id int64) (Student, error)

	// SearchStudents returns every matching student, ordered by id.
	SearchStudents(ctx context.Context, filter SearchFilter) ([]Student, error)

	Close() error
}
