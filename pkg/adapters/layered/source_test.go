package layered_test

import (
	"testing"

	"github.com/aretw0/propbind/pkg/adapters/layered"
	"github.com/aretw0/propbind/pkg/adapters/memory"
	"github.com/aretw0/propbind/pkg/ports"
	contract "github.com/aretw0/propbind/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
)

func TestSource_FirstHitWins(t *testing.T) {
	top := memory.FromStrings(map[string]string{"port": "9000"}).Named("top")
	bottom := memory.FromStrings(map[string]string{"port": "80", "host": "localhost"}).Named("bottom")
	s := layered.New(top, nil, bottom)

	contract.SourceContractTest(t, s, map[string]any{
		"port": "9000",
		"host": "localhost",
	})

	origin, ok := s.Origin("host")
	assert.True(t, ok)
	assert.Equal(t, "bottom(2 keys)", origin)
	assert.Equal(t, "layered(top(1 keys), bottom(2 keys))", s.String())
}

func TestSource_NonEnumerableLayer(t *testing.T) {
	fn := ports.SourceFunc(func(key string) (any, bool) {
		if key == "secret" {
			return "s3cr3t", true
		}
		return nil, false
	})
	s := layered.New(fn, memory.FromStrings(map[string]string{"a": "1"}))

	v, ok := s.Lookup("secret")
	assert.True(t, ok)
	assert.Equal(t, "s3cr3t", v)
	assert.Equal(t, []string{"a"}, s.Keys())
}
