package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommand_Plugins(t *testing.T) {
	out, err := execute(t, "plugins")
	require.NoError(t, err)
	assert.Equal(t, "delete\nfail\nfail-run\noption\noptions\nset\n", out)
}

func TestCommand_Version(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "enhance version")
}

func TestCommand_Validate(t *testing.T) {
	out, err := execute(t, "validate", filepath.Join("testdata", "pipeline.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Manifest is valid")

	_, err = execute(t, "validate", filepath.Join("testdata", "ghost.yaml"))
	assert.ErrorContains(t, err, "validation failed")
}

func TestCommand_RunStrict(t *testing.T) {
	out, err := execute(t, "run", filepath.Join("testdata", "pipeline.yaml"), "--strict", "-c", "x=1", "--log-level", "error")
	require.ErrorIs(t, err, ErrStrict)
	assert.Contains(t, out, `"foo": "fooooo"`)
	assert.Contains(t, out, "contained:")
}

func TestCommand_BadLogLevel(t *testing.T) {
	_, err := execute(t, "version", "--log-level", "loud")
	assert.ErrorContains(t, err, "unknown log level")
}
