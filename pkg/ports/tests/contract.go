package tests

import (
	"fmt"
	"testing"

	"github.com/aretw0/propbind/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SourceContractTest is a reusable test suite that verifies if an adapter complies with ports.Source.
// expected must hold every entry the source was seeded with.
func SourceContractTest(t *testing.T, src ports.Source, expected map[string]any) {
	t.Helper()

	// 1. Lookup of seeded keys
	t.Run("Lookup_Present", func(t *testing.T) {
		for key, want := range expected {
			got, ok := src.Lookup(key)
			require.True(t, ok, "key %q should be present", key)
			assert.Equal(t, fmt.Sprint(want), fmt.Sprint(got), "value mismatch for %q", key)
		}
	})

	// 2. Lookup of an unknown key
	t.Run("Lookup_Absent", func(t *testing.T) {
		_, ok := src.Lookup("contract.absent.key-that-does-not-exist")
		assert.False(t, ok)
	})

	t.Run("String", func(t *testing.T) {
		assert.NotEmpty(t, src.String())
	})

	// 3. Enumeration, for sources that support it
	keyer, ok := src.(ports.Keyer)
	if !ok {
		return
	}
	t.Run("Keys", func(t *testing.T) {
		keys := keyer.Keys()
		for key := range expected {
			assert.Contains(t, keys, key)
		}
	})
}
