package main

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineCache_ReadsOnce(t *testing.T) {
	cache, err := newLineCache(4)
	require.NoError(t, err)

	var mu sync.Mutex
	reads := 0
	cache.readFile = func(path string) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		reads++
		return []byte("import A\nimport B\n"), nil
	}

	for range 3 {
		lines, err := cache.lines("/repo/F.swift")
		require.NoError(t, err)
		assert.Equal(t, []string{"import A", "import B", ""}, lines)
	}
	assert.Equal(t, 1, reads)
}

func TestLineCache_CRLF(t *testing.T) {
	cache, err := newLineCache(1)
	require.NoError(t, err)
	cache.readFile = func(string) ([]byte, error) {
		return []byte("import A // @ignore-import\r\nimport B\r\nlet s = \"a\\r\"\n"), nil
	}

	lines, err := cache.lines("/repo/F.swift")
	require.NoError(t, err)
	assert.Equal(t, []string{"import A // @ignore-import", "import B", `let s = "a\r"`, ""}, lines)
}

func TestLineCache_ReadError(t *testing.T) {
	cache, err := newLineCache(0)
	require.NoError(t, err)

	boom := errors.New("permission denied")
	cache.readFile = func(string) ([]byte, error) { return nil, boom }

	_, err = cache.lines("/repo/F.swift")
	assert.ErrorIs(t, err, boom)
}

func TestLineAt(t *testing.T) {
	lines := []string{"import A", "", "let x = 1"}

	line, ok := lineAt(lines, 1)
	assert.True(t, ok)
	assert.Equal(t, "import A", line)

	line, ok = lineAt(lines, 3)
	assert.True(t, ok)
	assert.Equal(t, "let x = 1", line)

	_, ok = lineAt(lines, 0)
	assert.False(t, ok)
	_, ok = lineAt(lines, 4)
	assert.False(t, ok)
}

func TestTracker(t *testing.T) {
	var nilTracker *tracker
	assert.NotPanics(t, func() {
		nilTracker.Tick()
		nilTracker.Finish()
	})

	var buf bytes.Buffer
	progress := newTracker(&buf, "Reading records", 2)
	progress.Tick()
	progress.Tick()
	progress.Finish()
	assert.True(t, progress.bar.IsFinished())
}
