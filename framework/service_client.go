package framework

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alessio/shellescape"
)

// ServiceClient sends requests to the service under test. Paths are relative to the service's
// base URL.
//
// There is no retry logic. A transport error is returned to the caller as is.
type ServiceClient struct {
	baseURL    string
	httpClient *http.Client
}

// ServiceResponse is a response from the service under test, with the body already read.
type ServiceResponse struct {
	Method string
	URL    string
	Status int
	Header http.Header
	Body   []byte
}

// NewServiceClient creates a ServiceClient. A trailing slash on baseURL is ignored. If
// httpClient is nil, http.DefaultClient is used.
func NewServiceClient(baseURL string, httpClient *http.Client) *ServiceClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ServiceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the base URL of the service, without a trailing slash.
func (c *ServiceClient) BaseURL() string {
	return c.baseURL
}

// URL builds the absolute URL for a path and optional query parameters.
func (c *ServiceClient) URL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Get sends a GET request.
func (c *ServiceClient) Get(path string, query url.Values, logger Logger) (ServiceResponse, error) {
	return c.do("GET", c.URL(path, query), nil, logger)
}

// PostJSON sends a POST request whose body is the JSON encoding of body.
func (c *ServiceClient) PostJSON(path string, body interface{}, logger Logger) (ServiceResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return ServiceResponse{}, fmt.Errorf("could not serialize request body: %w", err)
	}
	return c.do("POST", c.URL(path, nil), data, logger)
}

func (c *ServiceClient) do(method, url string, body []byte, logger Logger) (ServiceResponse, error) {
	if logger == nil {
		logger = NullLogger()
	}
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return ServiceResponse{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	logger.Printf("Request: %s", curlCommand(method, url, body))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Printf("Request failed: %s", err)
		return ServiceResponse{}, fmt.Errorf("%s %s failed: %w", method, url, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ServiceResponse{}, fmt.Errorf("error reading response body from %s %s: %w", method, url, err)
	}
	logger.Printf("Response: %d %s", resp.StatusCode, string(respBody))

	return ServiceResponse{
		Method: method,
		URL:    url,
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   respBody,
	}, nil
}

// DecodeJSON parses the response body into target.
func (r ServiceResponse) DecodeJSON(target interface{}) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return fmt.Errorf("%s %s returned status %d with an empty body, expected JSON", r.Method, r.URL, r.Status)
	}
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("%s %s returned malformed JSON (%s): %s", r.Method, r.URL, err, string(r.Body))
	}
	return nil
}

// curlCommand renders a request as a shell command that reproduces it, for debug output.
func curlCommand(method, url string, body []byte) string {
	var cmd commandBuilder
	cmd.add("curl", "-i", "-X", method)
	if body != nil {
		cmd.add("-H", "Content-Type: application/json", "--data", string(body))
	}
	cmd.add(url)
	return cmd.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
