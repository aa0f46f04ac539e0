package framework

import (
	"fmt"
	"io"
	"net/http"
)

// DefaultHealthPath is the path of the liveness resource that every service under test must
// provide.
const DefaultHealthPath = "/service/health"

// TestHarness holds everything that tests need to know about the service under test.
type TestHarness struct {
	client     *ServiceClient
	healthPath string
	logger     Logger
}

// HarnessConfig describes how to reach the service under test.
type HarnessConfig struct {
	// ServiceBaseURL is the base URL of the service, such as "http://localhost:8000".
	ServiceBaseURL string

	// HealthPath is the path queried by the health check. Defaults to DefaultHealthPath.
	HealthPath string

	// HTTPClient is used for all requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// HealthCheckError means the service under test could not be verified as running. Tests
// should not be run at all in that case.
type HealthCheckError struct {
	URL    string
	Status int
	Err    error
}

func (e HealthCheckError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Caught exception with health check -- %s", e.Err)
	}
	return fmt.Sprintf("Health check got bad status (%d), not continuing", e.Status)
}

func (e HealthCheckError) Unwrap() error {
	return e.Err
}

// NewTestHarness creates a TestHarness and verifies that the service under test is up by
// querying its health resource once. Any status below 400 counts as healthy. If the check fails,
// the returned error is a HealthCheckError.
func NewTestHarness(
	config HarnessConfig,
	debugLogger Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if config.ServiceBaseURL == "" {
		return nil, fmt.Errorf("service base URL is required")
	}
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	if config.HealthPath == "" {
		config.HealthPath = DefaultHealthPath
	}

	h := &TestHarness{
		client:     NewServiceClient(config.ServiceBaseURL, config.HTTPClient),
		healthPath: config.HealthPath,
		logger:     debugLogger,
	}
	if err := h.checkHealth(startupOutput); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *TestHarness) checkHealth(output io.Writer) error {
	url := h.client.URL(h.healthPath, nil)
	fmt.Fprintf(output, "Checking health of service at %s\n", url)
	resp, err := h.client.Get(h.healthPath, nil, h.logger)
	if err != nil {
		return HealthCheckError{URL: url, Err: err}
	}
	if resp.Status >= 400 {
		return HealthCheckError{URL: url, Status: resp.Status}
	}
	fmt.Fprintf(output, "Health check returned status %d\n", resp.Status)
	return nil
}

// Client returns the client for the service under test.
func (h *TestHarness) Client() *ServiceClient {
	return h.client
}

// ServiceBaseURL returns the base URL of the service under test, without a trailing slash.
func (h *TestHarness) ServiceBaseURL() string {
	return h.client.BaseURL()
}
