package inspect_test

import (
	"testing"

	"github.com/aretw0/propbind/pkg/adapters/memory"
	"github.com/aretw0/propbind/pkg/domain"
	"github.com/aretw0/propbind/pkg/inspect"
	"github.com/aretw0/propbind/pkg/ports"
	"github.com/aretw0/propbind/pkg/substitute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource() *memory.Store {
	return memory.NewStore(map[string]any{
		"host": "db",
		"url":  "postgres://[host]/app",
		"loop": "[loop]x",
		"port": 5432,
	})
}

func TestInspector_Get(t *testing.T) {
	in := inspect.New(newSource())

	e, ok := in.Get("url", false)
	require.True(t, ok)
	assert.Equal(t, "postgres://db/app", e.Value)
	assert.Equal(t, "postgres://[host]/app", e.Raw)
	assert.NoError(t, e.Err)

	e, _ = in.Get("url", true)
	assert.Equal(t, "postgres://[host]/app", e.Value)

	e, _ = in.Get("port", false)
	assert.Equal(t, "5432", e.Value)

	e, _ = in.Get("loop", false)
	var cyclic *domain.CyclicReferenceError
	assert.ErrorAs(t, e.Err, &cyclic)
	assert.Empty(t, e.Value)

	_, ok = in.Get("missing", false)
	assert.False(t, ok)
}

func TestInspector_List(t *testing.T) {
	entries, err := inspect.New(newSource()).List()
	require.NoError(t, err)

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"host", "loop", "port", "url"}, keys)

	_, err = inspect.New(ports.SourceFunc(func(string) (any, bool) { return nil, false })).List()
	assert.ErrorIs(t, err, inspect.ErrNotEnumerable)
}

func TestInspector_Check(t *testing.T) {
	src := memory.FromStrings(map[string]string{
		"ok":       "[base]/x",
		"base":     "root",
		"dangling": "[nowhere]",
		"loop":     "a[loop]",
	})

	problems, err := inspect.New(src, inspect.WithResolver(substitute.New(substitute.WithMaxPasses(8)))).Check()
	require.NoError(t, err)
	assert.Equal(t, []inspect.Problem{
		{Key: "dangling", Kind: inspect.ProblemMissingReference, Detail: "nowhere"},
		{Key: "loop", Kind: inspect.ProblemCycle, Detail: "pass limit"},
	}, problems)
}

func TestInspector_Hooks(t *testing.T) {
	var events []*domain.AccessEvent
	in := inspect.New(newSource(), inspect.WithLifecycleHooks(domain.LifecycleHooks{
		OnAccess: func(e *domain.AccessEvent) { events = append(events, e) },
	}))

	in.Get("url", false)
	in.Get("missing", false)
	in.Get("loop", false)

	require.Len(t, events, 3)
	assert.Equal(t, inspect.Contract, events[0].Contract)
	assert.Equal(t, "url", events[0].Key)
	assert.Equal(t, domain.OriginSource, events[0].Origin)
	assert.Equal(t, domain.OriginNil, events[1].Origin)
	assert.Error(t, events[2].Err)
}
