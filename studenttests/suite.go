package studenttests

import (
	"github.com/studentapi/student-contract-tests/framework"
)

// RunTestSuite runs every contract test against the service, one at a time.
func RunTestSuite(
	harness *framework.TestHarness,
	fixtures *FixtureGenerator,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	if fixtures == nil {
		fixtures = NewRandomFixtureGenerator()
	}
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, harness, fixtures)

		t.Run("create", DoCreateTests)
		t.Run("fetch", DoFetchTests)
		t.Run("search", DoSearchTests)
		t.Run("schema", DoSchemaTests)
	})
}
