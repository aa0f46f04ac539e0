package refservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS students (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	email        TEXT    NOT NULL UNIQUE,
	first_name   TEXT    NOT NULL,
	last_name    TEXT    NOT NULL,
	display_name TEXT    NOT NULL,
	started_at   TEXT    NOT NULL,
	created_at   TEXT    NOT NULL
)`

const studentColumns = "id, email, first_name, last_name, display_name, started_at, created_at"

// SQLite is a Storage backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

var _ Storage = (*SQLite)(nil)

// OpenSQLite opens (creating if necessary) the database at path and makes sure the students
// table exists.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one connection, so that ":memory:" refers to a single database
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) CreateStudent(ctx context.Context, student Student) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO students (email, first_name, last_name, display_name, started_at, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		student.Email, student.FirstName, student.LastName, student.DisplayName, student.StartedAt, student.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("CreateStudent: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}
	return id, nil
}

func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (Student, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+studentColumns+" FROM students WHERE id = ?", id)
	student, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	if err != nil {
		return Student{}, fmt.Errorf("GetStudentByID: %w", err)
	}
	return student, nil
}

func (s *SQLite) SearchStudents(ctx context.Context, filter SearchFilter) ([]Student, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Name != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Name)) + "%"
		where = append(where, `(LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR LOWER(display_name) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.StartedAfter != "" {
		// dates are stored as YYYY-MM-DD, so text order is date order
		where = append(where, "started_at > ?")
		args = append(args, filter.StartedAfter)
	}
	query := "SELECT " + studentColumns + " FROM students"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchStudents: %w", err)
	}
	defer rows.Close()

	students := make([]Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("SearchStudents: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SearchStudents: %w", err)
	}
	return students, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStudent(row scanner) (Student, error) {
	var st Student
	err := row.Scan(&st.ID, &st.Email, &st.FirstName, &st.LastName, &st.DisplayName, &st.StartedAt, &st.CreatedAt)
	return st, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
