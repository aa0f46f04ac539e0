package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(path ...string) TestID {
	return TestID{Path: path}
}

func TestRegexFiltersWithNoPatternsAllowEverything(t *testing.T) {
	var f RegexFilters
	assert.False(t, f.IsDefined())
	assert.True(t, f.AsFilter(id("create")))
	assert.True(t, f.AsFilter(id("create", "duplicate email is invalid")))
}

func TestRegexFiltersMustMatch(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("search/single"))

	assert.True(t, f.AsFilter(id("search")), "parent group of a selected test")
	assert.True(t, f.AsFilter(id("search", "single match on first name")))
	assert.False(t, f.AsFilter(id("search", "no criteria is invalid")))
	assert.False(t, f.AsFilter(id("create")))
}

func TestRegexFiltersMustNotMatch(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustNotMatch.Set("started_after"))

	assert.True(t, f.AsFilter(id("search")))
	assert.True(t, f.AsFilter(id("search", "no criteria is invalid")))
	assert.False(t, f.AsFilter(id("search", "no match on started_after")))
}

func TestRegexListSetList(t *testing.T) {
	var r RegexList
	require.NoError(t, r.SetList(" create , ^fetch,"))
	assert.Equal(t, `"create" or "^fetch"`, r.String())
	assert.False(t, r.AnyDescendant("fetch"))
	assert.True(t, r.AnyMatch("fetch/unknown id is not found"))

	assert.Error(t, r.SetList("fine,(broken"))
}

func TestPrintFilterDescription(t *testing.T) {
	var buf bytes.Buffer
	PrintFilterDescription(RegexFilters{}, &buf)
	assert.Equal(t, "", buf.String())

	var f RegexFilters
	require.NoError(t, f.MustNotMatch.Set("schema"))
	PrintFilterDescription(f, &buf)
	assert.Contains(t, buf.String(), `skip any matching "schema"`)
	assert.NotContains(t, buf.String(), "skip any not matching")
}
