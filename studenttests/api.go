package studenttests

import (
	"net/url"
	"sort"

	"github.com/studentapi/student-contract-tests/framework"
	"github.com/studentapi/student-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// T represents a test or subtest in the student records test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is outside
// of the Go test runner, and with some extra features such as debug logging that are convenient for
// our use case. Those features are provided by our lower-level framework package.
//
// It also provides helpers for talking to the service under test. Every request made through T is
// logged to the test's debug output. Helpers whose names start with Require fail the test and
// exit it immediately if the request fails at the transport level or gets an unacceptable status,
// to reduce the amount of boilerplate logic in tests.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if it were
// a *testing.T.
type T struct {
	context  *framework.Context
	harness  *framework.TestHarness
	fixtures *FixtureGenerator
}

func newTestScope(context *framework.Context, harness *framework.TestHarness, fixtures *FixtureGenerator) *T {
	return &T{
		context:  context,
		harness:  harness,
		fixtures: fixtures,
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.harness, t.fixtures))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Fixtures returns the generator for test records.
func (t *T) Fixtures() *FixtureGenerator {
	return t.fixtures
}

// Get sends a GET request to the service. The test fails and exits if there is a transport error.
func (t *T) Get(path string, query url.Values) framework.ServiceResponse {
	resp, err := t.harness.Client().Get(path, query, t.context.DebugLogger())
	require.NoError(t, err)
	return resp
}

// Post sends a POST request with a JSON body to the service. The test fails and exits if there
// is a transport error.
func (t *T) Post(path string, body interface{}) framework.ServiceResponse {
	resp, err := t.harness.Client().PostJSON(path, body, t.context.DebugLogger())
	require.NoError(t, err)
	return resp
}

// RequireGetIn sends a GET request and requires a status accepted by expected.
func (t *T) RequireGetIn(path string, query url.Values, expected StatusExpectation, msg string) framework.ServiceResponse {
	resp := t.Get(path, query)
	RequireStatus(t, resp.Status, expected, msg)
	return resp
}

// RequirePostIn submits a student record for creation and requires a status accepted by expected.
func (t *T) RequirePostIn(student servicedef.Student, expected StatusExpectation, msg string) framework.ServiceResponse {
	resp := t.Post(servicedef.StudentsPath, student)
	RequireStatus(t, resp.Status, expected, msg)
	return resp
}

// RequireStudentBody parses a response body as a student record.
func (t *T) RequireStudentBody(resp framework.ServiceResponse) servicedef.Student {
	var student servicedef.Student
	require.NoError(t, resp.DecodeJSON(&student))
	require.NotNil(t, student, "response body was null, expected a student record")
	return student
}

// CreateStudent submits a valid record with the given overrides, which must be accepted. It
// returns the record that was submitted and the record that the service returned, which must
// have an id.
func (t *T) CreateStudent(overrides servicedef.Student) (submitted, created servicedef.Student) {
	submitted = t.fixtures.ValidStudent(overrides)
	resp := t.RequirePostIn(submitted, ValidStatuses, "With valid data to create "+submitted.String(servicedef.FieldFirstName))
	created = t.RequireStudentBody(resp)
	id, ok := created.Get(servicedef.FieldID)
	require.True(t, ok && !id.IsNull(), "created record has no id: %s", string(resp.Body))
	return submitted, created
}

// CreateStudents calls CreateStudent for each set of overrides and returns the ids of the
// created records.
func (t *T) CreateStudents(overrides ...servicedef.Student) []string {
	ids := make([]string, 0, len(overrides))
	for _, o := range overrides {
		_, created := t.CreateStudent(o)
		ids = append(ids, servicedef.IDString(created.ID()))
	}
	return ids
}

// Search sends a search, which must succeed, and returns the matching students.
func (t *T) Search(criteria SearchCriteria, msg string) []servicedef.Student {
	resp := t.RequireGetIn(servicedef.StudentsPath, criteria.Query(), OKStatuses, msg)
	var result servicedef.SearchResponse
	require.NoError(t, resp.DecodeJSON(&result))
	require.NotNil(t, result.Students, "search response had no %q array: %s", servicedef.StudentsKey, string(resp.Body))
	return result.Students
}

// RequireSearchResults checks the results of a search against the records this test created.
//
// Of the results, those whose ids are in ownIDs must have exactly the first names in
// expectedFirstNames, in any order. Every other result must be a genuine match for criteria.
func (t *T) RequireSearchResults(
	criteria SearchCriteria,
	results []servicedef.Student,
	ownIDs []string,
	expectedFirstNames []string,
) {
	own, others := PartitionByID(results, ownIDs)
	expected := append([]string{}, expectedFirstNames...)
	sort.Strings(expected)
	assert.Equal(t, expected, SortedFirstNames(own), "first names of matching students created by this test")
	for _, s := range others {
		assert.True(t, criteria.Matches(s), "search for %v returned a student that does not match: %s",
			criteria.Query().Encode(), s.JSONString())
	}
}
