package main

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/mirrir0/unused-imports/indexstore"
)

// stringSet is an unordered set of module names, USRs or identifiers.
type stringSet map[string]struct{}

func newStringSet(values ...string) stringSet {
	s := make(stringSet, len(values))
	for _, v := range values {
		s.add(v)
	}
	return s
}

func (s stringSet) add(v string) {
	s[v] = struct{}{}
}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

// intersects reports whether s and other share at least one element.
func (s stringSet) intersects(other stringSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for v := range small {
		if large.has(v) {
			return true
		}
	}
	return false
}

func (s stringSet) sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// FileDefinitions is what one source file defines.
type FileDefinitions struct {
	USRs        stringSet
	Typealiases stringSet
}

// FileImports is what one source file imports.
type FileImports struct {
	Modules     stringSet
	LineNumbers map[string]int
	// Reexported holds the modules imported with re-export semantics.
	Reexported stringSet
}

// FileReferences is what one source file uses.
type FileReferences struct {
	USRs stringSet
	// Typealiases holds identifiers recovered from extension declarations
	// that differ from the extended type's own name.
	Typealiases stringSet
}

// UnusedImportStatement is one import that can be deleted.
type UnusedImportStatement struct {
	ModuleName string `json:"moduleName"`
	LineNumber int    `json:"lineNumber"`
}

// SourceFileWithUnusedImports groups the unused imports of one file.
type SourceFileWithUnusedImports struct {
	Path                   string                  `json:"path"`
	UnusedImportStatements []UnusedImportStatement `json:"unusedImportStatements"`
}

// AnalysisResult contains the complete analysis results
type AnalysisResult struct {
	StorePaths             []string
	Units                  int
	Modules                int
	SkippedFiles           []string
	FilesWithUnusedImports []SourceFileWithUnusedImports
}

// sourceFile is one unit selected for analysis together with everything
// extracted from its record.
type sourceFile struct {
	unit   indexstore.Unit
	record indexstore.Record

	definitions *FileDefinitions
	imports     *FileImports
	references  *FileReferences
	// unreadable is set when the source text could not be read and the
	// unreadable-files policy is skip.
	unreadable bool
}

// analysisContext is the cross-file state built by the aggregation pass and
// read by usage resolution. It is not modified once aggregation is done.
type analysisContext struct {
	modulesToUnits map[string][]indexstore.Unit
	allModuleNames stringSet
	definitions    map[string]*FileDefinitions
	moduleExports  map[string]stringSet
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		modulesToUnits: make(map[string][]indexstore.Unit),
		allModuleNames: newStringSet(),
		definitions:    make(map[string]*FileDefinitions),
		moduleExports:  make(map[string]stringSet),
	}
}

// Analyzer finds unused imports across one or more index stores
type Analyzer struct {
	config *Config
	logger *slog.Logger
	stores []indexstore.Store
	lines  *lineCache

	files []*sourceFile
	state *analysisContext
}
