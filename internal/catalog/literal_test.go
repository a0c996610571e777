package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral_PythonDict(t *testing.T) {
	v, err := ParseLiteral(`{'destinationId': 'd1234567', 'rating': 4.5, 'isAc': True, 'note': None, 'tags': ('a', "b")}`)
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok, "want map, got %T", v)
	assert.Equal(t, "d1234567", m["destinationId"])
	assert.Equal(t, 4.5, m["rating"])
	assert.Equal(t, true, m["isAc"])
	assert.Nil(t, m["note"])
	assert.Equal(t, []any{"a", "b"}, m["tags"])
}

func TestParseLiteral_NestedListWithEscapes(t *testing.T) {
	v, err := ParseLiteral(`[{'mealPlan': 'cp', 'roomPrice': 8000, 'name': 'Tea\'s Inn'}, []]`)
	require.NoError(t, err)
	l := v.([]any)
	require.Len(t, l, 2)
	first := l[0].(map[string]any)
	assert.Equal(t, float64(8000), first["roomPrice"])
	assert.Equal(t, "Tea's Inn", first["name"])
	assert.Empty(t, l[1])
}

func TestParseLiteral_JSONAndCalls(t *testing.T) {
	v, err := ParseLiteral(`{"_id": ObjectId('64ab'), "n": null, "ok": false, "p": nan}`)
	require.NoError(t, err)
	m := v.(map[string]any)
	assert.Equal(t, "64ab", m["_id"])
	assert.Nil(t, m["n"])
	assert.Equal(t, false, m["ok"])
	assert.Nil(t, m["p"])
}

func TestParseLiteral_Errors(t *testing.T) {
	for _, in := range []string{"", "{'a': 1", "[1, 2", "'open", "{'a' 1}", "[1] trailing", "bogus"} {
		_, err := ParseLiteral(in)
		assert.Error(t, err, "input %q", in)
	}
}
