package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/propbind/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3\n")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.Contains(t, buf.String(), "|_|")
}

func TestRenderer(t *testing.T) {
	out, err := tui.NewRenderer()("| key | value |\n|---|---|\n| a | 1 |\n")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "key"))
}
