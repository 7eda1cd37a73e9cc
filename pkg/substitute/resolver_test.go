package substitute_test

import (
	"testing"

	"github.com/aretw0/propbind/pkg/domain"
	"github.com/aretw0/propbind/pkg/ports"
	"github.com/aretw0/propbind/pkg/substitute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource map[string]any

func (m mapSource) Lookup(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapSource) String() string { return "test map" }

func (m mapSource) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

var _ ports.Keyer = mapSource(nil)

func TestSubstitute_Chain(t *testing.T) {
	src := mapSource{
		"one":   "1",
		"two":   "2[one]",
		"three": "3[one]3[two]",
		"four":  "4[three]4[two]4[one]",
	}

	got, err := substitute.Substitute(src, src["four"].(string))
	require.NoError(t, err)
	assert.Equal(t, "43132142141", got)

	got, err = substitute.Substitute(src, "[four]")
	require.NoError(t, err)
	assert.Equal(t, "43132142141", got)
}

func TestSubstitute_MissingKeyBecomesEmpty(t *testing.T) {
	src := mapSource{"reference": "4 + [missing]"}

	got, err := substitute.Substitute(src, "4 + [missing]")
	require.NoError(t, err)
	assert.Equal(t, "4 + ", got)
}

func TestSubstitute_LiteralValuesUnchanged(t *testing.T) {
	src := mapSource{"a": "1"}
	for _, v := range []string{"", "plain", "a,b,c", "x]y", "no refs at all"} {
		got, err := substitute.Substitute(src, v)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestSubstitute_Idempotent(t *testing.T) {
	src := mapSource{
		"base": "http://[host]:[port]",
		"host": "example.org",
		"port": 8080,
	}

	once, err := substitute.Substitute(src, "[base]/api")
	require.NoError(t, err)
	twice, err := substitute.Substitute(src, once)
	require.NoError(t, err)

	assert.Equal(t, "http://example.org:8080/api", once)
	assert.Equal(t, once, twice)
}

func TestSubstitute_MetacharactersInKeys(t *testing.T) {
	src := mapSource{
		"server.host+1": "alpha",
		"a(b)*":         "beta",
	}

	got, err := substitute.Substitute(src, "[server.host+1]/[a(b)*]")
	require.NoError(t, err)
	assert.Equal(t, "alpha/beta", got)
}

func TestSubstitute_NestedBrackets(t *testing.T) {
	src := mapSource{
		"env":      "prod",
		"url.prod": "https://prod",
	}

	got, err := substitute.Substitute(src, "[url.[env]]")
	require.NoError(t, err)
	assert.Equal(t, "https://prod", got)
}

func TestSubstitute_SelfReferenceIsFixedPoint(t *testing.T) {
	// "[a]" expands to itself, so the first pass already changes nothing.
	src := mapSource{"a": "[a]"}

	got, err := substitute.Substitute(src, "[a]")
	require.NoError(t, err)
	assert.Equal(t, "[a]", got)
}

func TestSubstitute_GrowingCycle(t *testing.T) {
	src := mapSource{"a": "x[b]", "b": "y[a]"}

	_, err := substitute.Substitute(src, "[a]")
	var cyclic *domain.CyclicReferenceError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, "pass limit", cyclic.Limit)
}

func TestSubstitute_ExplodingCycleHitsLengthLimit(t *testing.T) {
	src := mapSource{"a": "[a][a]"}
	r := substitute.New(substitute.WithMaxLength(1024), substitute.WithMaxPasses(1000))

	_, err := r.Substitute(src, "[a]x")
	var cyclic *domain.CyclicReferenceError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, "length limit", cyclic.Limit)
}

func TestSubstitute_PassLimitGrowsWithKeys(t *testing.T) {
	src := mapSource{}
	// k0 -> k1 -> ... -> k9 = end
	for i := 0; i < 9; i++ {
		src[key(i)] = "[" + key(i+1) + "]"
	}
	src[key(9)] = "end"

	r := substitute.New(substitute.WithMaxPasses(2))
	got, err := r.Substitute(src, "[k0]")
	require.NoError(t, err)
	assert.Equal(t, "end", got)
}

func TestResolver_References(t *testing.T) {
	r := substitute.New()
	assert.Equal(t, []string{"a", "b.c"}, r.References("[a]-[b.c]-[a]"))
	assert.Empty(t, r.References("none"))
}

func key(i int) string {
	return "k" + string(rune('0'+i))
}
