package studenttests

import (
	"github.com/studentapi/student-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoSchemaTests(t *T) {
	t.Run("created record", func(t *T) {
		resp := t.RequirePostIn(t.Fixtures().ValidStudent(nil), ValidStatuses, "With valid data to check the record schema")
		assert.NoError(t, servicedef.ValidateStudentJSON(resp.Body))
	})

	t.Run("fetched record", func(t *T) {
		_, created := t.CreateStudent(nil)
		resp := t.RequireGetIn(servicedef.StudentPath(created.ID()), nil, OKStatuses, "Fetching the created record")
		assert.NoError(t, servicedef.ValidateStudentJSON(resp.Body))
	})

	t.Run("search response", func(t *T) {
		_, created := t.CreateStudent(nil)
		resp := t.RequireGetIn(servicedef.StudentsPath,
			SearchCriteria{Name: created.String(servicedef.FieldLastName)}.Query(),
			OKStatuses, "Searching for the created record")
		require.NoError(t, servicedef.ValidateSearchResponseJSON(resp.Body))
	})
}
