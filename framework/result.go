package framework

import (
	"fmt"
	"io"
	"strings"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Passed returns the number of tests that ran to completion without a failure.
func (r Results) Passed() int {
	n := 0
	for _, t := range r.Tests {
		if !t.Skipped {
			n++
		}
	}
	return n - len(r.Failures)
}

// Skipped returns the number of tests that were skipped after they started.
func (r Results) Skipped() int {
	n := 0
	for _, t := range r.Tests {
		if t.Skipped {
			n++
		}
	}
	return n
}

type TestID struct {
	Path []string
}

// Plus returns the ID of a subtest of this test.
func (t TestID) Plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// PrintResults writes a summary of the run, listing every failed test with its errors.
func PrintResults(results Results, out io.Writer) {
	if results.OK() {
		fmt.Fprintf(out, "All tests passed (%d passed, %d skipped)\n", results.Passed(), results.Skipped())
		return
	}
	fmt.Fprintf(out, "FAILED TESTS (%d failed, %d passed, %d skipped):\n",
		len(results.Failures), results.Passed(), results.Skipped())
	for _, f := range results.Failures {
		fmt.Fprintf(out, "* %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(out, "    %s\n", line)
			}
		}
	}
}
