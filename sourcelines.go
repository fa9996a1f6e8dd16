package main

import (
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// lineCache holds the line-split source text of every analyzed file. It is
// sized to the number of files in the run so entries are never evicted.
type lineCache struct {
	cache    *lru.Cache[string, []string]
	readFile func(string) ([]byte, error)
}

func newLineCache(size int) (*lineCache, error) {
	if size < 1 {
		size = 1
	}
	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, err
	}
	return &lineCache{cache: cache, readFile: os.ReadFile}, nil
}

// lines returns the lines of path, reading the file on first use.
func (c *lineCache) lines(path string) ([]string, error) {
	if lines, ok := c.cache.Get(path); ok {
		return lines, nil
	}

	data, err := c.readFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	c.cache.Add(path, lines)
	return lines, nil
}

// lineAt returns the text of a 1-based line, or false when the line does not
// exist (the file changed since it was indexed).
func lineAt(lines []string, line int) (string, bool) {
	if line < 1 || line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}
