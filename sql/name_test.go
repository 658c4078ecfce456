package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewNameLowerCasesComponents checks identifier normalization: every
// component is folded to lower case on construction.
func TestNewNameLowerCasesComponents(t *testing.T) {
	require := require.New(t)

	n, err := NewName(EntityName, "MySchema", "MyEntity")
	require.NoError(err)
	require.Equal("myschema.myentity", n.String())
}

// TestNewNameRejectsDelimiter checks a component may never carry the
// delimiter character.
func TestNewNameRejectsDelimiter(t *testing.T) {
	require := require.New(t)

	_, err := NewName(EntityName, "sch.ema")
	require.Error(err)
}

// TestNewNameWildcardOnlyForColumns checks the wildcard is rejected
// everywhere except as a whole column-name component.
func TestNewNameWildcardOnlyForColumns(t *testing.T) {
	require := require.New(t)

	_, err := NewName(EntityName, "e*")
	require.Error(err)

	_, err = NewName(ColumnName, "col*")
	require.Error(err, "wildcard embedded in a component is not a whole-component wildcard")

	_, err = NewColumnName("s", "e", "*")
	require.NoError(err)
}

// TestNameMatchesWildcard checks that "s.e.*" matches every column of the
// entity and nothing outside it.
func TestNameMatchesWildcard(t *testing.T) {
	require := require.New(t)

	pattern, err := NewColumnName("s", "e", "*")
	require.NoError(err)

	a, err := NewColumnName("s", "e", "a")
	require.NoError(err)
	require.True(a.Matches(pattern))

	other, err := NewColumnName("s", "other", "a")
	require.NoError(err)
	require.False(other.Matches(pattern))
}

// TestNameMatchesExact checks matching without a wildcard degrades to
// plain equality.
func TestNameMatchesExact(t *testing.T) {
	require := require.New(t)

	a, err := NewColumnName("s", "e", "a")
	require.NoError(err)
	b, err := NewColumnName("s", "e", "b")
	require.NoError(err)

	require.True(a.Matches(a))
	require.False(a.Matches(b))
}
