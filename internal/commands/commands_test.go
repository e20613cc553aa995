package commands

import (
	"bytes"
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(ran *string, width *float64, rest *[]string) *Registry {
	r := NewRegistry("run")

	runFlags := flag.NewFlagSet("run", flag.ExitOnError)
	variant := runFlags.String("variant", "textured", "scene variant")
	r.Register("run", "open the playground window", runFlags, func(args []string) error {
		*ran = "run:" + *variant
		return nil
	})

	dumpFlags := flag.NewFlagSet("dump", flag.ExitOnError)
	w := dumpFlags.Float64("width", 2, "base width")
	r.Register("dump", "print buffers", dumpFlags, func(args []string) error {
		*ran = "dump"
		*width = *w
		*rest = args
		return nil
	})
	return r
}

func TestExecute(t *testing.T) {
	var ran string
	var width float64
	var rest []string
	r := newTestRegistry(&ran, &width, &rest)

	require.NoError(t, r.Execute([]string{"dump", "-width", "3.5", "extra"}))
	assert.Equal(t, "dump", ran)
	assert.Equal(t, 3.5, width)
	assert.Equal(t, []string{"extra"}, rest)

	require.NoError(t, r.Execute([]string{"run", "-variant", "lit"}))
	assert.Equal(t, "run:lit", ran)
}

func TestExecuteFallback(t *testing.T) {
	var ran string
	var width float64
	var rest []string
	r := newTestRegistry(&ran, &width, &rest)

	require.NoError(t, r.Execute(nil))
	assert.Equal(t, "run:textured", ran)

	require.NoError(t, r.Execute([]string{"-variant", "silhouette"}))
	assert.Equal(t, "run:silhouette", ran)
}

func TestExecuteErrors(t *testing.T) {
	var ran string
	var width float64
	var rest []string
	r := newTestRegistry(&ran, &width, &rest)

	err := r.Execute([]string{"serve"})
	assert.True(t, errors.Is(err, ErrUnknownCommand))

	var buf bytes.Buffer
	r.cmds["dump"].FlagSet.SetOutput(&buf)
	err = r.Execute([]string{"dump", "-width", "wide"})
	assert.Error(t, err)

	assert.EqualError(t, NewRegistry("").Execute(nil), "missing subcommand")
}

func TestNamesAndUsage(t *testing.T) {
	var ran string
	var width float64
	var rest []string
	r := newTestRegistry(&ran, &width, &rest)
	assert.Equal(t, []string{"dump", "run"}, r.Names())

	var buf bytes.Buffer
	r.PrintUsage(&buf)
	assert.Contains(t, buf.String(), "print buffers")
	assert.Contains(t, buf.String(), "-variant")
}
