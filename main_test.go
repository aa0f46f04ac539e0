package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/studentapi/student-contract-tests/refservice"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(append([]string{}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestNoServiceURLIsUsageError(t *testing.T) {
	code, _, stderr := runCommand()
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Usage: student-contract-tests <service-url>")

	code, _, stderr = runCommand("http://a", "http://b")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Usage:")
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	code, stdout, stderr := runCommand("--x", "http://a")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Usage: student-contract-tests <service-url>")
	assert.NotContains(t, stdout, "FAIL:")
}

func TestUnhealthyServiceStopsBeforeTests(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(503), func(server *httptest.Server) {
		code, stdout, _ := runCommand(server.URL)
		assert.Equal(t, 1, code)
		assert.Contains(t, stdout, "FAIL: Health check got bad status (503), not continuing")
		assert.NotContains(t, stdout, "Running test suite")
	})
}

func TestUnreachableServiceStopsBeforeTests(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	url := server.URL
	server.Close()

	code, stdout, _ := runCommand(url)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "FAIL: Caught exception with health check -- ")
	assert.NotContains(t, stdout, "Running test suite")
}

func TestConformingServicePasses(t *testing.T) {
	storage, err := refservice.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer storage.Close()
	handler := refservice.NewService(storage, slog.New(slog.NewTextHandler(io.Discard, nil)), nil).Handler()

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		code, stdout, _ := runCommand(server.URL + "/")
		assert.Equal(t, 0, code, stdout)
		assert.Contains(t, stdout, "Health check returned status 200")
		assert.Contains(t, stdout, "Running test suite")
		assert.Contains(t, stdout, "All tests passed (19 passed, 0 skipped)")
	})
}

func TestFailingServiceReportsFailures(t *testing.T) {
	t.Setenv("STUDENT_TESTS_RUN", "fetch/")
	httphelpers.WithServer(httphelpers.HandlerWithStatus(200), func(server *httptest.Server) {
		code, stdout, _ := runCommand(server.URL)
		assert.Equal(t, 1, code)
		assert.Contains(t, stdout, "FAILED TESTS (1 failed, 0 passed, 0 skipped):")
		assert.Contains(t, stdout, "* fetch/unknown id is not found")
	})
}

func TestSkippedTestsAreNotRun(t *testing.T) {
	t.Setenv("STUDENT_TESTS_SKIP", "create,fetch,search,schema")
	httphelpers.WithServer(httphelpers.HandlerWithStatus(200), func(server *httptest.Server) {
		code, stdout, _ := runCommand(server.URL)
		assert.Equal(t, 0, code, stdout)
		assert.Contains(t, stdout, `skip any matching "create" or "fetch" or "search" or "schema"`)
		assert.Contains(t, stdout, "All tests passed (0 passed, 0 skipped)")
	})
}

func TestCustomHealthPath(t *testing.T) {
	t.Setenv("STUDENT_TESTS_HEALTH_PATH", "ping")
	t.Setenv("STUDENT_TESTS_SKIP", ".")
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(204))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		code, _, _ := runCommand(server.URL)
		assert.Equal(t, 0, code)
		r := <-requests
		assert.Equal(t, "/ping", r.Request.URL.Path)
	})
}

func TestInvalidFilterIsReported(t *testing.T) {
	t.Setenv("STUDENT_TESTS_RUN", "(")
	httphelpers.WithServer(httphelpers.HandlerWithStatus(200), func(server *httptest.Server) {
		code, stdout, _ := runCommand(server.URL)
		assert.Equal(t, 1, code)
		assert.Contains(t, stdout, "FAIL: STUDENT_TESTS_RUN: invalid regex")
	})
}
