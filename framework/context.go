package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the state of one test or group of tests. It is the harness-side equivalent of
// *testing.T: it records failures, can abort the current test with FailNow, and runs subtests
// with Run.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	hasSubtests bool
}

// Run executes action as the root of a test run and returns the accumulated results.
//
// The root context has an empty TestID. It, like any other context that ran subtests, is only
// recorded in the results if it fails or skips on its own account.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				c.record()
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		c.record()
	}()

	action(c)
}

func (c *Context) record() {
	if (len(c.id.Path) == 0 || c.hasSubtests) && !c.failed && !c.skipped {
		return
	}
	result := TestResult{TestID: c.id, Errors: c.errors, Skipped: c.skipped}
	c.env.results.Tests = append(c.env.results.Tests, result)
	if c.failed && !c.skipped {
		c.env.results.Failures = append(c.env.results.Failures, result)
	}
}

// ID returns the full identifier of this test.
func (c *Context) ID() TestID {
	return c.id
}

// Failed reports whether this test has recorded a failure so far.
func (c *Context) Failed() bool {
	return c.failed
}

// Run runs a subtest. A failure in the subtest, including a panic, is recorded on the subtest
// only; the caller continues with its next statement.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)
	c.hasSubtests = true

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records a failure without stopping the test.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := reformatError(fmt.Errorf(format, args...))
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// FailNow stops the test immediately. Any failure message must already have been recorded
// with Errorf.
func (c *Context) FailNow() {
	c.failed = true
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Debug adds a line to the captured debug output of this test.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// reformatError drops the "Error Trace" section that testify adds to every failure, since the
// source locations inside the harness mean nothing to someone debugging the service under test.
// The remaining labeled sections are kept, one per line.
func reformatError(err error) error {
	s := err.Error()
	if !strings.Contains(s, "Error Trace:") {
		return err
	}
	var lines []string
	inTrace := false
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		isLabel := len(line) > 1 && line[0] == '\t' && line[1] != ' ' && line[1] != '\t'
		if isLabel {
			label := line[1:]
			inTrace = strings.HasPrefix(label, "Error Trace:")
			if inTrace {
				continue
			}
			if colon := strings.Index(label, ":"); colon >= 0 {
				label = label[:colon+1] + " " + strings.TrimSpace(label[colon+1:])
			}
			lines = append(lines, label)
			continue
		}
		if inTrace {
			continue
		}
		lines = append(lines, "  "+strings.TrimSpace(line))
	}
	return errors.New(strings.Join(lines, "\n"))
}
