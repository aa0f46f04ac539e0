// Package servicedef describes the HTTP interface of the student records service: its paths,
// the JSON fields of a student record, and the formats of its values.
package servicedef

import (
	"encoding/json"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	HealthPath   = "/service/health"
	StudentsPath = "/students"
)

// Fields of a student record.
const (
	FieldID          = "id"
	FieldEmail       = "email"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldDisplayName = "display_name"
	FieldStartedAt   = "started_at"
	FieldCreatedAt   = "created_at"
)

// Query parameters of a student search.
const (
	QueryName         = "name"
	QueryStartedAfter = "started_after"
)

// StudentsKey is the property of a search response that holds the matching students.
const StudentsKey = "students"

// Date layouts, in Go time format.
const (
	StartedAtLayout = "2006-01-02"
	CreatedAtLayout = "2006-01-02 15:04:05"
)

// Student is a student record as it appears on the wire.
//
// It is a map rather than a struct so that a request can contain a property with an explicit
// null value, which is different from leaving the property out, and so that the service is free
// to use any JSON type for the id.
type Student map[string]ldvalue.Value

// StudentPath returns the path of the resource for a single student.
func StudentPath(id ldvalue.Value) string {
	return StudentsPath + "/" + IDString(id)
}

// IDString returns the text form of an id, for use in a URL path.
func IDString(id ldvalue.Value) string {
	if id.IsString() {
		return id.StringValue()
	}
	return id.JSONString()
}

// Get returns the value of a property and whether it was present at all.
func (s Student) Get(field string) (ldvalue.Value, bool) {
	v, ok := s[field]
	return v, ok
}

// String returns the string value of a property, or "" if it is absent or not a string.
func (s Student) String(field string) string {
	return s[field].StringValue()
}

// ID returns the service-assigned identifier, which is null if absent.
func (s Student) ID() ldvalue.Value {
	return s[FieldID]
}

// With returns a copy of the record with the given properties replaced.
func (s Student) With(overrides Student) Student {
	ret := make(Student, len(s)+len(overrides))
	for k, v := range s {
		ret[k] = v
	}
	for k, v := range overrides {
		ret[k] = v
	}
	return ret
}

// Without returns a copy of the record with the given properties left out entirely, as opposed
// to set to null.
func (s Student) Without(fields ...string) Student {
	ret := s.With(nil)
	for _, f := range fields {
		delete(ret, f)
	}
	return ret
}

// JSONString returns the JSON representation of the record.
func (s Student) JSONString() string {
	data, _ := json.Marshal(s)
	return string(data)
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Students []Student `json:"students"`
}
