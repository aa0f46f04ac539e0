package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter is a Filter that runs a test only if its ID matches MustMatch (when defined) and does
// not match MustNotMatch.
//
// A group of tests is let through MustMatch if a pattern starts with the group ID followed by a
// slash, so that "search/single match" selects the "search" group as well as the one test in it.
func (r RegexFilters) AsFilter(id TestID) bool {
	name := id.String()
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(name) || r.MustMatch.AnyDescendant(name)) &&
		!r.MustNotMatch.AnyMatch(name)
}

// IsDefined is true if either list has at least one pattern.
func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set adds a pattern. It is called by the command line parser.
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

// SetList adds every pattern in a comma-separated list, as found in an environment variable.
func (r *RegexList) SetList(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		if err := r.Set(v); err != nil {
			return err
		}
	}
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// AnyDescendant is true if some pattern begins with the literal test path s followed by "/".
func (r RegexList) AnyDescendant(s string) bool {
	for _, p := range r.patterns {
		if strings.HasPrefix(strings.TrimPrefix(p.String(), "^"), s+"/") {
			return true
		}
	}
	return false
}

// PrintFilterDescription tells the user which tests will be skipped because of filters.
func PrintFilterDescription(filters RegexFilters, out io.Writer) {
	if !filters.IsDefined() {
		return
	}
	fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Fprintln(out)
}
