package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/studentapi/student-contract-tests/framework"

	"github.com/ilyakaznacheev/cleanenv"
)

// envParams are the optional settings that can be provided through environment variables. The
// service URL itself is always a command-line argument.
type envParams struct {
	HealthPath string        `env:"STUDENT_TESTS_HEALTH_PATH" env-default:"/service/health" env-description:"path of the service health resource"`
	Run        string        `env:"STUDENT_TESTS_RUN" env-description:"comma-separated regex patterns selecting tests to run"`
	Skip       string        `env:"STUDENT_TESTS_SKIP" env-description:"comma-separated regex patterns selecting tests not to run"`
	Debug      bool          `env:"STUDENT_TESTS_DEBUG" env-description:"show debug output for failed tests"`
	DebugAll   bool          `env:"STUDENT_TESTS_DEBUG_ALL" env-description:"show debug output for all tests"`
	Timeout    time.Duration `env:"STUDENT_TESTS_TIMEOUT" env-description:"timeout for each HTTP request (default none)"`
	Seed       int64         `env:"STUDENT_TESTS_SEED" env-description:"seed for generated test data (default random)"`
}

type commandParams struct {
	serviceURL string
	healthPath string
	filters    framework.RegexFilters
	debug      bool
	debugAll   bool
	timeout    time.Duration
	seed       int64
}

func readParams(serviceURL string) (commandParams, error) {
	var env envParams
	if err := cleanenv.ReadEnv(&env); err != nil {
		return commandParams{}, fmt.Errorf("invalid environment settings: %w", err)
	}
	p := commandParams{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		healthPath: env.HealthPath,
		debug:      env.Debug,
		debugAll:   env.DebugAll,
		timeout:    env.Timeout,
		seed:       env.Seed,
	}
	if p.serviceURL == "" {
		return commandParams{}, errUsage
	}
	if !strings.HasPrefix(p.healthPath, "/") {
		p.healthPath = "/" + p.healthPath
	}
	if err := p.filters.MustMatch.SetList(env.Run); err != nil {
		return commandParams{}, fmt.Errorf("STUDENT_TESTS_RUN: %w", err)
	}
	if err := p.filters.MustNotMatch.SetList(env.Skip); err != nil {
		return commandParams{}, fmt.Errorf("STUDENT_TESTS_SKIP: %w", err)
	}
	return p, nil
}

func (p commandParams) harnessConfig() framework.HarnessConfig {
	config := framework.HarnessConfig{
		ServiceBaseURL: p.serviceURL,
		HealthPath:     p.healthPath,
	}
	if p.timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: p.timeout}
	}
	return config
}

// envHelp describes the environment variables, for the command's help text.
func envHelp() string {
	help, err := cleanenv.GetDescription(&envParams{}, nil)
	if err != nil {
		return ""
	}
	return help
}
