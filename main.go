package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/studentapi/student-contract-tests/framework"
	"github.com/studentapi/student-contract-tests/studenttests"

	"github.com/spf13/cobra"
)

var (
	errUsage       = errors.New("the URL of the service under test is required")
	errTestsFailed = errors.New("some tests failed")
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code: 0 if the service is healthy and
// every test passed, 1 otherwise.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errTestsFailed):
		return 1
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "Usage: %s\n", cmd.UseLine())
		return 1
	default:
		fmt.Fprintf(stdout, "FAIL: %s\n", err)
		return 1
	}
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student-contract-tests <service-url>",
		Short: "Verify a student records service against its API contract",
		Long: "Runs the student records contract tests against the service at <service-url>.\n\n" +
			"Optional settings are read from the environment:\n" + envHelp(),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := readParams(args[0])
			if err != nil {
				return err
			}
			return runTests(params, stdout)
		},
	}
	// the only accepted flag is --help
	cmd.SetFlagErrorFunc(func(*cobra.Command, error) error {
		return errUsage
	})
	return cmd
}

func runTests(params commandParams, stdout io.Writer) error {
	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(stdout, "", log.LstdFlags)
	}

	harness, err := framework.NewTestHarness(params.harnessConfig(), mainDebugLogger, stdout)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	framework.PrintFilterDescription(params.filters, stdout)

	fmt.Fprintln(stdout, "Running test suite")

	testLogger := &ConsoleTestLogger{
		Output:               stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	fixtures := studenttests.NewRandomFixtureGenerator()
	if params.seed != 0 {
		fixtures = studenttests.NewFixtureGenerator(params.seed)
	}

	results := studenttests.RunTestSuite(harness, fixtures, params.filters.AsFilter, testLogger)

	fmt.Fprintln(stdout)
	framework.PrintResults(results, stdout)
	if !results.OK() {
		return errTestsFailed
	}
	return nil
}
