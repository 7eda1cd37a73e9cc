package compiler_test

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/propbind/internal/compiler"
	"github.com/aretw0/propbind/pkg/convert"
	"github.com/aretw0/propbind/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverContract struct {
	Host     func() (string, error)      `prop:"server.host" default:"localhost"`
	MaxConns func() int                  `default:"10"`
	Peers    func() ([]string, error)    `sep:"\\s*;\\s*"`
	Ports    func() ([]int, error)       `sepExpr:"[ports.sep]"`
	Started  func() (time.Time, error)   `layout:"2006-01-02|02.01.2006"`
	Greeting func(name string) string    `prop:"greeting"`
	Pattern  func() (string, error)      `prop:"pattern,verbatim"`
	Timeout  func() domain.Optional[int] `defaultExpr:"[base.timeout]"`
	Ignored  func() string               `prop:"-"`
	String   func() string
	hidden   int
}

func (serverContract) Namespace() string { return "srv" }

func TestCompile_Server(t *testing.T) {
	schema, err := compiler.Compile(reflect.TypeFor[serverContract](), convert.NewRegistry(), compiler.KeyLowerCamel)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"server.host", "srv.maxConns", "srv.peers", "srv.ports", "srv.started", "greeting", "pattern", "srv.timeout",
	}, schema.Keys())

	host, ok := schema.Lookup("server.host")
	require.True(t, ok)
	assert.True(t, host.ReturnsError)
	assert.Equal(t, &compiler.ValueSpec{Text: "localhost"}, host.Default)

	maxConns, _ := schema.Lookup("srv.maxConns")
	assert.False(t, maxConns.ReturnsError)
	assert.True(t, maxConns.Shape.Required())

	peers, _ := schema.Lookup("srv.peers")
	require.NotNil(t, peers.Separator.Literal)
	assert.Equal(t, []string{"a", "b"}, peers.Separator.Literal.Split("a ; b", -1))

	ports, _ := schema.Lookup("srv.ports")
	assert.Equal(t, "[ports.sep]", ports.Separator.Expr)
	assert.Nil(t, ports.Separator.Literal)

	greeting, _ := schema.Lookup("greeting")
	assert.True(t, greeting.Positional)

	pattern, _ := schema.Lookup("pattern")
	assert.True(t, pattern.Verbatim)

	timeout, _ := schema.Lookup("srv.timeout")
	assert.Equal(t, domain.ShapeOptional, timeout.Shape.Kind)
	assert.True(t, timeout.Default.Expr)

	last := schema.Accessors[len(schema.Accessors)-1]
	assert.True(t, last.Diagnostic)
	assert.Equal(t, "String", last.Name)
}

type embeddedParent struct {
	Name func() string
}

type notFlat struct {
	embeddedParent
	Port func() int
}

type duplicateKeys struct {
	A func() string `prop:"same"`
	B func() int    `prop:"same"`
}

type bothSeparators struct {
	Values func() []int `sep:";" sepExpr:"[sep]"`
}

type separatorOnScalar struct {
	Value func() int `sep:";"`
}

type bothDefaults struct {
	Value func() int `default:"1" defaultExpr:"[x]"`
}

type arrayOfArrays struct {
	Matrix func() [][]int
}

type badRegexp struct {
	Values func() []int `sep:"(("`
}

type notAnAccessor struct {
	Port int
}

type badSignature struct {
	Port func() (int, string)
}

type unsupportedDefault struct {
	Endpoint func() struct{ Host string } `default:"x"`
}

type unknownOption struct {
	Port func() int `prop:"port,weird"`
}

func TestCompile_Rejections(t *testing.T) {
	cases := []struct {
		name     string
		contract reflect.Type
		sentinel error
		field    string
	}{
		{"not flat", reflect.TypeFor[notFlat](), domain.ErrNotFlat, "embeddedParent"},
		{"duplicate key", reflect.TypeFor[duplicateKeys](), domain.ErrDuplicateKey, "B"},
		{"both separators", reflect.TypeFor[bothSeparators](), domain.ErrConflict, "Values"},
		{"separator on scalar", reflect.TypeFor[separatorOnScalar](), domain.ErrMisplacedSeparator, "Value"},
		{"both defaults", reflect.TypeFor[bothDefaults](), domain.ErrConflict, "Value"},
		{"array of arrays", reflect.TypeFor[arrayOfArrays](), domain.ErrUnsupportedType, "Matrix"},
		{"bad regexp", reflect.TypeFor[badRegexp](), domain.ErrMalformed, "Values"},
		{"not an accessor", reflect.TypeFor[notAnAccessor](), domain.ErrMalformed, "Port"},
		{"bad signature", reflect.TypeFor[badSignature](), domain.ErrMalformed, "Port"},
		{"unsupported default", reflect.TypeFor[unsupportedDefault](), domain.ErrUnsupportedType, "Endpoint"},
		{"unknown option", reflect.TypeFor[unknownOption](), domain.ErrMalformed, "Port"},
		{"not a struct", reflect.TypeFor[int](), domain.ErrMalformed, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compiler.Compile(tc.contract, convert.NewRegistry(), compiler.KeyLowerCamel)
			require.ErrorIs(t, err, tc.sentinel)

			var schemaErr *domain.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tc.field, schemaErr.Field)
		})
	}
}

type defaultSeparatorBoth struct {
	Values func() []int `sep:"," sepExpr:"[sep]"`
}

func TestCompile_DefaultLiteralWithExpression(t *testing.T) {
	schema, err := compiler.Compile(reflect.TypeFor[defaultSeparatorBoth](), convert.NewRegistry(), compiler.KeyLowerCamel)
	require.NoError(t, err)

	acc, _ := schema.Lookup("values")
	assert.Equal(t, "[sep]", acc.Separator.Expr)
}

func TestKeyStyle(t *testing.T) {
	cases := []struct {
		name                        string
		camel, snake, dotted, exact string
	}{
		{"MaxConns", "maxConns", "max_conns", "max.conns", "MaxConns"},
		{"URLPath", "urlPath", "url_path", "url.path", "URLPath"},
		{"ID", "id", "id", "id", "ID"},
		{"HTTP2Port", "http2Port", "http2_port", "http2.port", "HTTP2Port"},
		{"Max_Conns", "maxConns", "max_conns", "max.conns", "Max_Conns"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.camel, compiler.KeyLowerCamel.Key(tc.name), tc.name)
		assert.Equal(t, tc.snake, compiler.KeySnake.Key(tc.name), tc.name)
		assert.Equal(t, tc.dotted, compiler.KeyDotted.Key(tc.name), tc.name)
		assert.Equal(t, tc.exact, compiler.KeyExact.Key(tc.name), tc.name)
	}
}

func TestCache_CompilesOncePerContract(t *testing.T) {
	cache := compiler.NewCache()
	registry := convert.NewRegistry()
	contract := reflect.TypeFor[serverContract]()

	var wg sync.WaitGroup
	schemas := make([]*compiler.Schema, 8)
	for i := range schemas {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := cache.Compile(contract, registry, compiler.KeyLowerCamel)
			assert.NoError(t, err)
			schemas[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range schemas[1:] {
		assert.Same(t, schemas[0], s)
	}

	other, err := cache.Compile(contract, registry, compiler.KeySnake)
	require.NoError(t, err)
	assert.NotSame(t, schemas[0], other)
}

func TestCache_MemoizesFailures(t *testing.T) {
	cache := compiler.NewCache()
	registry := convert.NewRegistry()

	_, err1 := cache.Compile(reflect.TypeFor[duplicateKeys](), registry, compiler.KeyLowerCamel)
	_, err2 := cache.Compile(reflect.TypeFor[duplicateKeys](), registry, compiler.KeyLowerCamel)
	require.Error(t, err1)
	assert.Same(t, err1, err2)
}
