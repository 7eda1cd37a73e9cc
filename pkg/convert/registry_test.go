package convert_test

import (
	"bytes"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/aretw0/propbind/pkg/convert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Celsius float64

func TestRegistry_FirstRegistrantWins(t *testing.T) {
	var logs bytes.Buffer
	r := convert.NewRegistry(convert.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	first := convert.RegisterFunc(r, func(s string) (Celsius, error) {
		return Celsius(len(s)), nil
	})
	second := convert.RegisterFunc(r, func(s string) (Celsius, error) {
		return -1, nil
	})
	assert.True(t, first)
	assert.False(t, second)
	assert.Contains(t, logs.String(), "duplicate conversion ignored")

	c := converterFor[Celsius](t, r, convert.Meta{})
	got := convertAs[Celsius](t, c, "abcd", convert.Call{})
	assert.Equal(t, Celsius(4), got)
}

func TestRegistry_RegisteredOverridesBuiltin(t *testing.T) {
	r := convert.NewRegistry()
	convert.RegisterFunc(r, func(s string) (bool, error) {
		return strings.EqualFold(s, "yes"), nil
	})

	c := converterFor[bool](t, r, convert.Meta{})
	assert.True(t, convertAs[bool](t, c, "YES", convert.Call{}))
}

func TestRegistry_WrongReturnType(t *testing.T) {
	r := convert.NewRegistry()
	r.Register(reflect.TypeFor[Celsius](), func(s string) (any, error) {
		return "not a number", nil
	})

	c := converterFor[Celsius](t, r, convert.Meta{})
	_, err := c.Convert("1", convert.Call{})
	assert.ErrorContains(t, err, "registered conversion returned string")
}

func TestDefault_StandardModule(t *testing.T) {
	r := convert.Default()
	require.Same(t, r, convert.Default())
	assert.True(t, r.Registered(reflect.TypeFor[os.FileMode]()))

	c := converterFor[os.FileMode](t, r, convert.Meta{})
	assert.Equal(t, os.FileMode(0o644), convertAs[os.FileMode](t, c, "644", convert.Call{}))
}
