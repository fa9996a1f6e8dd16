package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportedFiles = []SourceFileWithUnusedImports{
	{
		Path: "App/Feature.swift",
		UnusedImportStatements: []UnusedImportStatement{
			{ModuleName: "Networking", LineNumber: 3},
			{ModuleName: "Storage", LineNumber: 5},
		},
	},
	{
		Path:                   "App/Other.swift",
		UnusedImportStatements: []UnusedImportStatement{{ModuleName: "UI", LineNumber: 1}},
	},
}

func TestSedCommandReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sedCommandReporter{}.Report(&buf, reportedFiles))

	assert.Equal(t,
		`/usr/bin/sed -i "" '3d;5d' 'App/Feature.swift'`+"\n"+
			`/usr/bin/sed -i "" '1d' 'App/Other.swift'`+"\n",
		buf.String())
}

func TestSedCommandReporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sedCommandReporter{}.Report(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jsonReporter{}.Report(&buf, reportedFiles[1:]))

	assert.Equal(t,
		`[{"path":"App/Other.swift","unusedImportStatements":[{"moduleName":"UI","lineNumber":1}]}]`+"\n",
		buf.String())
}

func TestJSONReporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jsonReporter{}.Report(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestTextReporter(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	require.NoError(t, textReporter{}.Report(&buf, reportedFiles))

	out := buf.String()
	assert.Contains(t, out, "UNUSED IMPORTS")
	assert.Contains(t, out, "Found 2 file(s)")
	assert.Contains(t, out, "  App/Feature.swift\n")
	assert.Contains(t, out, "        3: import Networking\n")
	assert.Contains(t, out, "• Unused imports: 3")
}

func TestTextReporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, textReporter{}.Report(&buf, nil))
	assert.Equal(t, "No unused imports found!\n", buf.String())
}

func TestNewReporter(t *testing.T) {
	for name, want := range map[string]Reporter{
		"":     sedCommandReporter{},
		"sed":  sedCommandReporter{},
		"json": jsonReporter{},
		"text": textReporter{},
	} {
		reporter, err := newReporter(name)
		require.NoError(t, err, name)
		assert.IsType(t, want, reporter, name)
	}

	_, err := newReporter("xml")
	require.ErrorIs(t, err, ErrInvalidReporter)
	assert.Contains(t, err.Error(), `"xml"`)
	assert.Contains(t, err.Error(), `Setting the "reporter" key to "json"`)
}
