package propbind_test

import (
	"bytes"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/propbind"
	"github.com/aretw0/propbind/pkg/adapters/memory"
	"github.com/aretw0/propbind/pkg/convert"
	"github.com/aretw0/propbind/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Level int

const (
	LevelLow Level = iota
	LevelHigh
)

func (l Level) String() string {
	if l == LevelHigh {
		return "HIGH"
	}
	return "LOW"
}

type Service struct {
	Host     func() (string, error) `default:"localhost"`
	Port     func() (int, error)
	Ports    func() ([]uint16, error) `sep:"\\s*;\\s*"`
	Addr     func() (net.IP, error)
	Timeout  func() (propbind.Optional[time.Duration], error)
	Level    func() (Level, error) `default:"low"`
	Greeting func(args ...any) string
	String   func() string
}

func (Service) Namespace() string { return "service" }

func levels() *convert.Registry {
	r := convert.NewRegistry()
	convert.RegisterEnum(r, LevelLow, LevelHigh)
	return r
}

func TestBind_EndToEnd(t *testing.T) {
	src := memory.FromStrings(map[string]string{
		"service.host":     "[env].example.com",
		"env":              "prod",
		"service.port":     "8443",
		"service.ports":    "80 ; 443",
		"service.addr":     "10.0.0.1",
		"service.level":    "high",
		"service.greeting": "hi %s",
	})

	svc, err := propbind.Bind[Service](src, propbind.WithRegistry(levels()))
	require.NoError(t, err)

	host, err := svc.Host()
	require.NoError(t, err)
	assert.Equal(t, "prod.example.com", host)

	port, err := svc.Port()
	require.NoError(t, err)
	assert.Equal(t, 8443, port)

	ports, err := svc.Ports()
	require.NoError(t, err)
	assert.Equal(t, []uint16{80, 443}, ports)

	addr, err := svc.Addr()
	require.NoError(t, err)
	assert.True(t, addr.Equal(net.ParseIP("10.0.0.1")))

	timeout, err := svc.Timeout()
	require.NoError(t, err)
	assert.Equal(t, propbind.None[time.Duration](), timeout)

	level, err := svc.Level()
	require.NoError(t, err)
	assert.Equal(t, LevelHigh, level)

	assert.Equal(t, "hi there", svc.Greeting("there"))
	assert.Contains(t, svc.String(), "propbind_test.Service bound to memory")
}

func TestBind_LiveSource(t *testing.T) {
	src := memory.NewStore(nil)
	svc := propbind.MustBind[Service](src, propbind.WithRegistry(levels()))

	_, err := svc.Port()
	var missing *propbind.MissingRequiredValueError
	require.ErrorAs(t, err, &missing)

	src.Set("service.port", 9000)
	port, err := svc.Port()
	require.NoError(t, err)
	assert.Equal(t, 9000, port)
}

type broken struct {
	Values func() ([]int, error) `sep:";" sepExpr:"[sep]"`
}

func TestNew_SchemaError(t *testing.T) {
	_, err := propbind.New[broken]()
	require.ErrorIs(t, err, propbind.ErrConflict)

	var schemaErr *propbind.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "Values", schemaErr.Field)

	assert.Panics(t, func() { propbind.MustBind[broken](memory.NewStore(nil)) })
}

func TestBinder_Reuse(t *testing.T) {
	b, err := propbind.New[Service](propbind.WithRegistry(levels()))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"service.host", "service.port", "service.ports", "service.addr",
		"service.timeout", "service.level", "service.greeting",
	}, b.Keys())

	first := b.MustBind(memory.FromStrings(map[string]string{"service.port": "1"}))
	second := b.MustBind(memory.FromStrings(map[string]string{"service.port": "2"}))

	p1, _ := first.Port()
	p2, _ := second.Port()
	assert.Equal(t, 1, p1)
	assert.Equal(t, 2, p2)

	_, err = b.Bind(nil)
	assert.Error(t, err)
}

type snakeContract struct {
	MaxConns func() int
}

func TestWithKeyStyle(t *testing.T) {
	src := memory.FromStrings(map[string]string{"max_conns": "12"})
	c, err := propbind.Bind[snakeContract](src, propbind.WithKeyStyle(propbind.KeySnake))
	require.NoError(t, err)
	assert.Equal(t, 12, c.MaxConns())
}

type loopContract struct {
	Value func() (string, error)
}

func TestWithMaxPasses(t *testing.T) {
	src := memory.FromStrings(map[string]string{"value": "a[value]"})
	c, err := propbind.Bind[loopContract](src, propbind.WithMaxPasses(5))
	require.NoError(t, err)

	_, err = c.Value()
	var cyclic *propbind.CyclicReferenceError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, 5, cyclic.Passes)
}

func TestWithLifecycleHooks(t *testing.T) {
	var keys []string
	hooks := domain.LifecycleHooks{
		OnAccess: func(e *domain.AccessEvent) { keys = append(keys, e.Key) },
	}
	c, err := propbind.Bind[snakeContract](memory.FromStrings(map[string]string{"maxConns": "1"}), propbind.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	c.MaxConns()
	c.MaxConns()
	assert.Equal(t, []string{"maxConns", "maxConns"}, keys)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c, err := propbind.Bind[snakeContract](memory.FromStrings(map[string]string{"maxConns": "1"}), propbind.WithLogger(logger))
	require.NoError(t, err)
	c.MaxConns()

	out := buf.String()
	assert.Contains(t, out, "contract=propbind_test.snakeContract")
	assert.Contains(t, out, "key=maxConns")
}

type fileContract struct {
	Host  func() (string, error) `prop:"server.host"`
	Port  func() (int, error)    `prop:"server.port"`
	Peers func() ([]string, error)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	doc := strings.Join([]string{
		"server:",
		"  host: db.[zone]",
		"  port: 5432",
		"zone: eu",
		"peers: [a, b]",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	c, err := propbind.Load[fileContract](path)
	require.NoError(t, err)

	host, err := c.Host()
	require.NoError(t, err)
	assert.Equal(t, "db.eu", host)

	port, err := c.Port()
	require.NoError(t, err)
	assert.Equal(t, 5432, port)

	peers, err := c.Peers()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, peers)

	_, err = propbind.Load[fileContract](filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(propbind.Version))
}
