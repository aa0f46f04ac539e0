package refservice

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStorage(t *testing.T) *SQLite {
	storage, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func makeStudent(email, first, last, startedAt string) Student {
	return Student{
		Email:       email,
		FirstName:   first,
		LastName:    last,
		DisplayName: first + " " + last,
		StartedAt:   startedAt,
		CreatedAt:   "2020-01-02 03:04:05",
	}
}

func TestCreateAndGetStudent(t *testing.T) {
	storage := openTestStorage(t)
	ctx := context.Background()

	id, err := storage.CreateStudent(ctx, makeStudent("a@example.com", "Anne", "Jones", "2019-01-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	st, err := storage.GetStudentByID(ctx, id)
	require.NoError(t, err)
	expected := makeStudent("a@example.com", "Anne", "Jones", "2019-01-01")
	expected.ID = id
	assert.Equal(t, expected, st)
}

func TestGetUnknownStudent(t *testing.T) {
	storage := openTestStorage(t)
	_, err := storage.GetStudentByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDuplicateEmail(t *testing.T) {
	storage := openTestStorage(t)
	ctx := context.Background()
	_, err := storage.CreateStudent(ctx, makeStudent("a@example.com", "Anne", "Jones", "2019-01-01"))
	require.NoError(t, err)
	_, err = storage.CreateStudent(ctx, makeStudent("a@example.com", "Bart", "Penny", "2019-01-01"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestSearchStudents(t *testing.T) {
	storage := openTestStorage(t)
	ctx := context.Background()
	for _, st := range []Student{
		makeStudent("1@example.com", "Jamie", "Jameson", "2016-11-09"),
		makeStudent("2@example.com", "Carol", "Penny", "2019-01-13"),
		makeStudent("3@example.com", "Cindy", "Tingle", "2018-04-08"),
		makeStudent("4@example.com", "Cassie", "Jamal", "2018-03-31"),
		makeStudent("5@example.com", "Pct_", "Percent%", "2018-03-31"),
	} {
		_, err := storage.CreateStudent(ctx, st)
		require.NoError(t, err)
	}

	firstNames := func(filter SearchFilter) []string {
		students, err := storage.SearchStudents(ctx, filter)
		require.NoError(t, err)
		names := []string{}
		for _, st := range students {
			names = append(names, st.FirstName)
		}
		return names
	}

	assert.Equal(t, []string{"Jamie", "Cassie"}, firstNames(SearchFilter{Name: "JAM"}))
	assert.Equal(t, []string{"Carol", "Cindy"}, firstNames(SearchFilter{StartedAfter: "2018-03-31"}))
	assert.Equal(t, []string{"Cassie"}, firstNames(SearchFilter{Name: "jam", StartedAfter: "2017-01-01"}))
	assert.Equal(t, []string{"Pct_"}, firstNames(SearchFilter{Name: "%"}))
	assert.Equal(t, []string{"Pct_"}, firstNames(SearchFilter{Name: "_"}))
	assert.Equal(t, []string{}, firstNames(SearchFilter{Name: "Grover Cleveland"}))
}

func TestOpenSQLiteFileKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.db")
	ctx := context.Background()

	storage, err := OpenSQLite(path)
	require.NoError(t, err)
	id, err := storage.CreateStudent(ctx, makeStudent("a@example.com", "Anne", "Jones", "2019-01-01"))
	require.NoError(t, err)
	require.NoError(t, storage.Close())

	storage, err = OpenSQLite(path)
	require.NoError(t, err)
	defer storage.Close()
	st, err := storage.GetStudentByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Anne", st.FirstName)
}
