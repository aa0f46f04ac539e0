package studenttests

import (
	"time"

	"github.com/studentapi/student-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoCreateTests(t *T) {
	t.Run("missing last name is invalid", func(t *T) {
		toCreate := t.Fixtures().ValidStudent(servicedef.Student{servicedef.FieldLastName: ldvalue.Null()})
		t.RequirePostIn(toCreate, InvalidStatuses, "With no last name")
	})

	t.Run("missing email is invalid", func(t *T) {
		toCreate := t.Fixtures().ValidStudent(nil).Without(servicedef.FieldEmail)
		t.RequirePostIn(toCreate, InvalidStatuses, "With no email property")
	})

	t.Run("empty email is invalid", func(t *T) {
		toCreate := t.Fixtures().ValidStudent(servicedef.Student{servicedef.FieldEmail: ldvalue.String("")})
		t.RequirePostIn(toCreate, InvalidStatuses, "With no email or username")
	})

	t.Run("duplicate email is invalid", func(t *T) {
		toCreate := t.Fixtures().ValidStudent(nil)
		t.RequirePostIn(toCreate, ValidStatuses, "With valid data having an arbitrary email")
		t.RequirePostIn(toCreate, InvalidStatuses, "With valid data but the same arbitrary email")
	})

	t.Run("generates display name", func(t *T) {
		toCreate, created := t.CreateStudent(nil)
		assert.Equal(t,
			toCreate.String(servicedef.FieldFirstName)+" "+toCreate.String(servicedef.FieldLastName),
			created.String(servicedef.FieldDisplayName),
			"display_name should be first and last name separated by a space",
		)
	})

	t.Run("can provide display name", func(t *T) {
		_, created := t.CreateStudent(servicedef.Student{servicedef.FieldDisplayName: ldvalue.String("The Boss")})
		assert.Equal(t, "The Boss", created.String(servicedef.FieldDisplayName))
	})

	t.Run("can fetch created", func(t *T) {
		toCreate, created := t.CreateStudent(nil)
		resp := t.RequireGetIn(servicedef.StudentPath(created.ID()), nil, OKStatuses, "Fetching the created record")
		fetched := t.RequireStudentBody(resp)
		for field, want := range toCreate {
			got, ok := fetched.Get(field)
			if assert.True(t, ok, "fetched record is missing %q", field) {
				assert.Equal(t, want.JSONString(), got.JSONString(), "fetched value of %q", field)
			}
		}
		assert.Equal(t, created.ID().JSONString(), fetched.ID().JSONString(), "fetched id")
	})

	t.Run("fills in date fields", func(t *T) {
		_, created := t.CreateStudent(nil)
		requireDateField(t, created, servicedef.FieldCreatedAt, servicedef.CreatedAtLayout)
		requireDateField(t, created, servicedef.FieldStartedAt, servicedef.StartedAtLayout)
	})
}

// requireDateField checks that a date property is a non-empty string that parses with layout
// and formats back to the same string.
func requireDateField(t *T, student servicedef.Student, field, layout string) {
	value, ok := student.Get(field)
	require.True(t, ok, "created record is missing %q", field)
	require.False(t, value.IsNull(), "%q is null", field)
	require.True(t, value.IsString(), "%q is not a string: %s", field, value.JSONString())
	s := value.StringValue()
	require.NotEqual(t, "", s, "%q is empty", field)
	parsed, err := time.Parse(layout, s)
	require.NoError(t, err, "%q is not in the format %q", field, layout)
	assert.Equal(t, s, parsed.Format(layout), "%q does not survive a parse and format", field)
}
