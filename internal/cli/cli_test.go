package cli_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/propbind/internal/cli"
	"github.com/aretw0/propbind/internal/logging"
	"github.com/aretw0/propbind/internal/testutils"
	"github.com/aretw0/propbind/pkg/adapters/memory"
	"github.com/aretw0/propbind/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSource_Layers(t *testing.T) {
	dir := t.TempDir()
	base := testutils.WriteFile(t, dir, "base.properties", "host=base\nport=80\nname=app\n")
	override := testutils.WriteFile(t, dir, "override.yaml", "port: 8080\n")

	mr := miniredis.RunT(t)
	mr.HSet("props", "name", "from-redis")

	t.Setenv("CLITEST_HOST", "env-host")

	src, closer, err := cli.BuildSource(context.Background(), cli.SourceOptions{
		Files:     []string{base, override},
		EnvPrefix: "CLITEST",
		RedisAddr: mr.Addr(),
		RedisHash: "props",
	}, logging.NewNop())
	require.NoError(t, err)
	defer closer()

	for key, want := range map[string]string{
		"host": "env-host",
		"port": "8080",
		"name": "from-redis",
	} {
		v, ok := src.Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, want, v, key)
	}
}

func TestBuildSource_Bundle(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFile(t, dir, "messages.properties", "greeting=Hello\n")
	testutils.WriteFile(t, dir, "messages_fr.properties", "greeting=Bonjour\n")

	src, closer, err := cli.BuildSource(context.Background(), cli.SourceOptions{
		BundleDir: dir,
		Locale:    "fr-CA",
	}, logging.NewNop())
	require.NoError(t, err)
	defer closer()

	v, _ := src.Lookup("greeting")
	assert.Equal(t, "Bonjour", v)

	_, _, err = cli.BuildSource(context.Background(), cli.SourceOptions{BundleDir: dir, Locale: "not a locale!"}, logging.NewNop())
	assert.Error(t, err)
}

func TestBuildSource_Errors(t *testing.T) {
	_, _, err := cli.BuildSource(context.Background(), cli.SourceOptions{}, logging.NewNop())
	assert.ErrorContains(t, err, "no source configured")

	_, _, err = cli.BuildSource(context.Background(), cli.SourceOptions{
		Files: []string{filepath.Join(t.TempDir(), "missing.properties")},
	}, logging.NewNop())
	assert.Error(t, err)
}

func TestPrint_Plain(t *testing.T) {
	var buf bytes.Buffer
	err := cli.Print(&buf, "Keys", cli.Row{Key: "key", Value: "value"}, []cli.Row{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "x|y"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a=1\nb=x|y\n", buf.String())
	assert.False(t, cli.IsTerminal(&buf))
}

func TestMarkdown(t *testing.T) {
	md := cli.Markdown("Keys", cli.Row{Key: "key", Value: "value"}, []cli.Row{{Key: "b", Value: "x|y"}})
	assert.Contains(t, md, "## Keys")
	assert.Contains(t, md, "| `b` | x\\|y |")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var src ports.Source = memory.FromStrings(map[string]string{"a": "1"})
	go func() { done <- cli.Serve(ctx, addr, src, logging.NewNop()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get("http://" + addr + "/keys/a")
	require.NoError(t, err)
	resp.Body.Close()
	resp, err = http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `propbind_accesses_total{contract="inspect",key="a",origin="source",result="ok"} 1`)
	assert.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeMCP_UnknownTransport(t *testing.T) {
	src := memory.FromStrings(map[string]string{"a": "1"})
	err := cli.ServeMCP(context.Background(), cli.MCPOptions{Transport: "carrier-pigeon"}, src, logging.NewNop())
	assert.ErrorContains(t, err, `unknown MCP transport "carrier-pigeon"`)
}
