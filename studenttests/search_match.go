package studenttests

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/studentapi/student-contract-tests/servicedef"
)

// NameFields are the properties that a name search is matched against.
var NameFields = []string{
	servicedef.FieldFirstName,
	servicedef.FieldLastName,
	servicedef.FieldDisplayName,
}

// SearchCriteria is a student search. Empty fields are not sent.
type SearchCriteria struct {
	// Name matches any student with this text, ignoring case, anywhere in one of NameFields.
	Name string

	// StartedAfter matches any student whose started_at date is strictly later than this date,
	// in servicedef.StartedAtLayout.
	StartedAfter string
}

// IsEmpty is true if no criteria are set. The service must reject such a search.
func (c SearchCriteria) IsEmpty() bool {
	return c.Name == "" && c.StartedAfter == ""
}

// Query returns the criteria as query parameters.
func (c SearchCriteria) Query() url.Values {
	q := url.Values{}
	if c.Name != "" {
		q.Set(servicedef.QueryName, c.Name)
	}
	if c.StartedAfter != "" {
		q.Set(servicedef.QueryStartedAfter, c.StartedAfter)
	}
	return q
}

// Matches reports whether the service should include student in the results of this search.
// All criteria that are set must match. Empty criteria match nothing.
func (c SearchCriteria) Matches(student servicedef.Student) bool {
	if c.IsEmpty() {
		return false
	}
	if c.Name != "" && !nameMatches(student, c.Name) {
		return false
	}
	if c.StartedAfter != "" && !startedAfter(student, c.StartedAfter) {
		return false
	}
	return true
}

// Filter returns the students that match, in their original order.
func (c SearchCriteria) Filter(students []servicedef.Student) []servicedef.Student {
	var ret []servicedef.Student
	for _, s := range students {
		if c.Matches(s) {
			ret = append(ret, s)
		}
	}
	return ret
}

func nameMatches(student servicedef.Student, name string) bool {
	want := strings.ToLower(name)
	for _, field := range NameFields {
		if strings.Contains(strings.ToLower(student.String(field)), want) {
			return true
		}
	}
	return false
}

func startedAfter(student servicedef.Student, date string) bool {
	after, err := time.Parse(servicedef.StartedAtLayout, date)
	if err != nil {
		return false
	}
	started, err := time.Parse(servicedef.StartedAtLayout, student.String(servicedef.FieldStartedAt))
	if err != nil {
		return false
	}
	return started.After(after)
}

// SortedFirstNames returns the first names of the students in sorted order, so that two result
// sets can be compared regardless of the order the service returned them in.
func SortedFirstNames(students []servicedef.Student) []string {
	names := make([]string, 0, len(students))
	for _, s := range students {
		names = append(names, s.String(servicedef.FieldFirstName))
	}
	sort.Strings(names)
	return names
}

// PartitionByID splits search results into those whose id is one of ids and all the others.
//
// The service keeps every record created by earlier tests, and by earlier runs of the suite, so
// a search can legitimately return more than the records a test has just created.
func PartitionByID(results []servicedef.Student, ids []string) (own, others []servicedef.Student) {
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	for _, r := range results {
		if idSet[servicedef.IDString(r.ID())] {
			own = append(own, r)
		} else {
			others = append(others, r)
		}
	}
	return own, others
}
