package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/studentapi/student-contract-tests/framework"

	"github.com/fatih/color"
)

var (
	failedColor  = color.New(color.FgRed, color.Bold)
	skippedColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

// ConsoleTestLogger prints test progress as plain lines of text. Colors are only used when the
// output is a terminal.
type ConsoleTestLogger struct {
	Output               io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Output, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Output, "  %s\n", errorColor.Sprint(line))
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		fmt.Fprintf(c.Output, "  %s %s\n", failedColor.Sprint("FAILED:"), id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Output, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		fmt.Fprintf(c.Output, "  %s %s\n", skippedColor.Sprint("SKIPPED:"), id)
	} else {
		fmt.Fprintf(c.Output, "  %s %s (%s)\n", skippedColor.Sprint("SKIPPED:"), id, reason)
	}
}
