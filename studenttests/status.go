package studenttests

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stretchr/testify/require"
)

// StatusExpectation decides whether an HTTP status is an acceptable outcome. Expectations are
// deliberately loose: a contract clause such as "the request is rejected" can be satisfied by
// more than one status code.
type StatusExpectation interface {
	Accepts(status int) bool
	String() string
}

// StatusSet accepts any of its status codes.
type StatusSet []int

var (
	// ValidStatuses are the statuses that mean a request was accepted.
	ValidStatuses = StatusSet{200, 201, 204}

	// InvalidStatuses are the statuses that mean a request was rejected as invalid.
	InvalidStatuses = StatusSet{400, 409, 422}

	// NotFoundStatuses are the statuses that mean a resource does not exist.
	NotFoundStatuses = StatusSet{404}

	// OKStatuses are the statuses that mean a read succeeded with a body.
	OKStatuses = StatusSet{200}
)

func (s StatusSet) Accepts(status int) bool {
	for _, code := range s {
		if code == status {
			return true
		}
	}
	return false
}

func (s StatusSet) String() string {
	codes := append([]int(nil), s...)
	sort.Ints(codes)
	ss := make([]string, 0, len(codes))
	for _, c := range codes {
		ss = append(ss, fmt.Sprint(c))
	}
	return "[" + strings.Join(ss, ", ") + "]"
}

// StatusRange accepts any status in the half-open range [Low, High).
type StatusRange struct {
	Low  int
	High int
}

func (r StatusRange) Accepts(status int) bool {
	return status >= r.Low && status < r.High
}

func (r StatusRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Low, r.High)
}

type notExpectation struct {
	StatusExpectation
}

// Not accepts exactly the statuses that e does not.
func Not(e StatusExpectation) StatusExpectation {
	return notExpectation{e}
}

func (n notExpectation) Accepts(status int) bool {
	return !n.StatusExpectation.Accepts(status)
}

func (n notExpectation) String() string {
	return "not " + n.StatusExpectation.String()
}

// RequireStatus fails and stops the test if status is not accepted by expected. The message
// starts with msg, which should say what request was being made.
func RequireStatus(t require.TestingT, status int, expected StatusExpectation, msg string) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if expected.Accepts(status) {
		return
	}
	if n, ok := expected.(notExpectation); ok {
		require.FailNow(t, fmt.Sprintf("%s: expected any status not in %s, got %d", msg, n.StatusExpectation, status))
		return
	}
	require.FailNow(t, fmt.Sprintf("%s: expected any status in %s, got %d", msg, expected, status))
}
