package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCommand runs the whole command line the way `bazel run` does: the
// process starts elsewhere and BUILD_WORKSPACE_DIRECTORY names the checkout.
func TestRootCommand(t *testing.T) {
	f := sampleProject(t)
	snapshot := f.jsonSnapshot()

	t.Chdir(t.TempDir())
	t.Setenv(workspaceDirectoryEnv, f.dir)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"--reporter", "json", snapshot})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	var files []SourceFileWithUnusedImports
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &files))
	assert.Equal(t, sampleProjectUnused, files)
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), "unused-imports dev")
	assert.Contains(t, stdout.String(), "Go version: go")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, true).Debug("shown", "key", "value")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "key=value")
}
