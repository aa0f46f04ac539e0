package studenttests

import (
	"github.com/studentapi/student-contract-tests/servicedef"
)

func DoFetchTests(t *T) {
	t.Run("unknown id is not found", func(t *T) {
		t.RequireGetIn(servicedef.StudentsPath+"/"+t.Fixtures().UnknownID(), nil, NotFoundStatuses, "With invalid ID")
	})
}
