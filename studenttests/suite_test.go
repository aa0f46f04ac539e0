package studenttests

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/studentapi/student-contract-tests/framework"
	"github.com/studentapi/student-contract-tests/refservice"
	"github.com/studentapi/student-contract-tests/servicedef"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leafTestCount = 19

func referenceService(t *testing.T) http.Handler {
	storage, err := refservice.OpenSQLite(filepath.Join(t.TempDir(), "students.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })
	return refservice.NewService(storage, slog.New(slog.NewTextHandler(io.Discard, nil)), nil).Handler()
}

// acceptEverythingService accepts every request without checking anything.
func acceptEverythingService() http.Handler {
	return httphelpers.HandlerForMethod("POST",
		httphelpers.HandlerWithResponse(201, http.Header{"Content-Type": {"application/json"}}, []byte(`{"id":1}`)),
		httphelpers.HandlerWithJSONResponse(map[string]interface{}{"students": []interface{}{}}, nil),
	)
}

// caseSensitiveSearch wraps a service so that name searches only return exact-case matches.
func caseSensitiveSearch(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get(servicedef.QueryName)
		if r.Method != "GET" || r.URL.Path != servicedef.StudentsPath || name == "" {
			inner.ServeHTTP(w, r)
			return
		}
		rec := httptest.NewRecorder()
		inner.ServeHTTP(rec, r)
		var result servicedef.SearchResponse
		if rec.Code != 200 || json.Unmarshal(rec.Body.Bytes(), &result) != nil {
			w.WriteHeader(rec.Code)
			_, _ = w.Write(rec.Body.Bytes())
			return
		}
		filtered := []servicedef.Student{}
		for _, s := range result.Students {
			for _, field := range NameFields {
				if strings.Contains(s.String(field), name) {
					filtered = append(filtered, s)
					break
				}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(servicedef.SearchResponse{Students: filtered})
	})
}

// acceptMissingEmail wraps a service so that a create request with no email property at all
// succeeds.
func acceptMissingEmail(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != servicedef.StudentsPath {
			inner.ServeHTTP(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var fields map[string]interface{}
		if json.Unmarshal(body, &fields) == nil {
			if _, ok := fields[servicedef.FieldEmail]; !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(201)
				_, _ = w.Write([]byte(`{"id":1}`))
				return
			}
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		inner.ServeHTTP(w, r)
	})
}

// inclusiveStartedAfter wraps a service so that started_after also matches students who started
// on that date.
func inclusiveStartedAfter(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		date, err := time.Parse(servicedef.StartedAtLayout, query.Get(servicedef.QueryStartedAfter))
		if r.Method == "GET" && r.URL.Path == servicedef.StudentsPath && err == nil {
			query.Set(servicedef.QueryStartedAfter, date.AddDate(0, 0, -1).Format(servicedef.StartedAtLayout))
			r.URL.RawQuery = query.Encode()
		}
		inner.ServeHTTP(w, r)
	})
}

func runSuite(t *testing.T, handler http.Handler, seed int64, filter framework.Filter) framework.Results {
	var results framework.Results
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		harness, err := framework.NewTestHarness(
			framework.HarnessConfig{ServiceBaseURL: server.URL},
			framework.NullLogger(),
			io.Discard,
		)
		require.NoError(t, err)
		results = RunTestSuite(harness, NewFixtureGenerator(seed), filter, nil)
	})
	return results
}

func failedTestIDs(results framework.Results) []string {
	var ids []string
	for _, f := range results.Failures {
		ids = append(ids, f.TestID.String())
	}
	return ids
}

func TestSuitePassesAgainstReferenceService(t *testing.T) {
	results := runSuite(t, referenceService(t), 1, nil)
	assert.Equal(t, []string(nil), failedTestIDs(results))
	assert.Len(t, results.Tests, leafTestCount)
	assert.Equal(t, leafTestCount, results.Passed())
}

func TestSuiteCanRunRepeatedlyAgainstTheSameService(t *testing.T) {
	service := referenceService(t)
	for _, seed := range []int64{1, 2, 3} {
		results := runSuite(t, service, seed, nil)
		assert.Equal(t, []string(nil), failedTestIDs(results), "seed %d", seed)
	}
}

func TestSuiteDetectsServiceThatAcceptsEverything(t *testing.T) {
	results := runSuite(t, acceptEverythingService(), 1, nil)
	require.False(t, results.OK())
	failed := failedTestIDs(results)
	assert.Contains(t, failed, "create/missing last name is invalid")
	assert.Contains(t, failed, "create/missing email is invalid")
	assert.Contains(t, failed, "create/empty email is invalid")
	assert.Contains(t, failed, "create/duplicate email is invalid")
	assert.Contains(t, failed, "create/generates display name")
	assert.Contains(t, failed, "fetch/unknown id is not found")
	assert.Contains(t, failed, "search/no criteria is invalid")
	assert.Contains(t, failed, "search/single match on first name")
	assert.Contains(t, failed, "schema/created record")
}

func TestSuiteDetectsCaseSensitiveSearch(t *testing.T) {
	results := runSuite(t, caseSensitiveSearch(referenceService(t)), 1, nil)
	failed := failedTestIDs(results)
	assert.Contains(t, failed, "search/multiple matches on any name")
	assert.NotContains(t, failed, "search/single match on first name")
	assert.NotContains(t, failed, "search/empty results with records and no match")
}

func TestSuiteDetectsServiceThatAcceptsMissingEmail(t *testing.T) {
	results := runSuite(t, acceptMissingEmail(referenceService(t)), 1, nil)
	assert.Equal(t, []string{"create/missing email is invalid"}, failedTestIDs(results))
}

func TestSuiteDetectsInclusiveStartedAfter(t *testing.T) {
	results := runSuite(t, inclusiveStartedAfter(referenceService(t)), 1, nil)
	failed := failedTestIDs(results)
	assert.Contains(t, failed, "search/multiple matches on started_after")
	assert.NotContains(t, failed, "search/no match on started_after")
	assert.NotContains(t, failed, "search/multiple matches on any name")
}

func TestSuiteHonorsFilter(t *testing.T) {
	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.SetList("search/no criteria"))
	results := runSuite(t, referenceService(t), 1, filters.AsFilter)
	assert.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	assert.Equal(t, "search/no criteria is invalid", results.Tests[0].TestID.String())
}
