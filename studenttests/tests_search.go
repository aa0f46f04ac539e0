package studenttests

import (
	"net/url"

	"github.com/studentapi/student-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
)

// farFutureDate is later than any started_at the service could have chosen by default.
const farFutureDate = "2999-12-31"

func firstName(name string) servicedef.Student {
	return servicedef.Student{servicedef.FieldFirstName: ldvalue.String(name)}
}

func DoSearchTests(t *T) {
	t.Run("no criteria is invalid", func(t *T) {
		t.RequireGetIn(servicedef.StudentsPath, nil, InvalidStatuses, "With no criteria")
	})

	t.Run("unrecognized criteria only is invalid", func(t *T) {
		t.RequireGetIn(servicedef.StudentsPath, url.Values{"favorite_color": {"blue"}}, InvalidStatuses,
			"With only an unrecognized criterion")
	})

	t.Run("empty results with records and no match", func(t *T) {
		t.CreateStudent(nil)
		results := t.Search(SearchCriteria{Name: "Grover Cleveland"}, "With no match")
		assert.Empty(t, results)
	})

	t.Run("single match on first name", func(t *T) {
		ids := t.CreateStudents(firstName("Steve"), firstName("Simone"), firstName("Sylvie"), firstName("Sharky"))
		criteria := SearchCriteria{Name: "imon"}
		results := t.Search(criteria, "With a single match on first_name")
		t.RequireSearchResults(criteria, results, ids, []string{"Simone"})
	})

	t.Run("multiple matches on any name", func(t *T) {
		ids := t.CreateStudents(
			servicedef.Student{
				servicedef.FieldFirstName: ldvalue.String("Jamie"),
				servicedef.FieldLastName:  ldvalue.String("Jameson"),
			},
			servicedef.Student{
				servicedef.FieldFirstName:   ldvalue.String("Jimbo"),
				servicedef.FieldDisplayName: ldvalue.String("James Garrison III"),
			},
			firstName("Jennifer"),
			firstName("Jackie"),
		)
		criteria := SearchCriteria{Name: "JAM"}
		results := t.Search(criteria, "With multiple matches on name")
		t.RequireSearchResults(criteria, results, ids, []string{"Jamie", "Jimbo"})
	})

	t.Run("no match on started_after", func(t *T) {
		results := t.Search(SearchCriteria{StartedAfter: farFutureDate}, "With no match checking started_after")
		assert.Empty(t, results)
	})

	t.Run("multiple matches on started_after", func(t *T) {
		started := func(name, date string) servicedef.Student {
			return servicedef.Student{
				servicedef.FieldFirstName: ldvalue.String(name),
				servicedef.FieldStartedAt: ldvalue.String(date),
			}
		}
		ids := t.CreateStudents(
			started("Chuck", "2016-11-09"),
			started("Carol", "2019-01-13"),
			started("Cindy", "2018-04-08"),
			started("Carl", "2017-09-12"),
			started("Cassie", "2018-03-31"),
		)
		criteria := SearchCriteria{StartedAfter: "2018-03-31"}
		results := t.Search(criteria, "With multiple matches checking started_after")
		t.RequireSearchResults(criteria, results, ids, []string{"Carol", "Cindy"})
	})
}
