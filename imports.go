package main

import (
	"regexp"
	"strings"

	"github.com/mirrir0/unused-imports/indexstore"
)

// importExtractor finds the import statements of a file by matching module
// references against the source line they sit on. The index does not tell
// an import statement apart from any other mention of a module, so the line
// text decides. Multi-statement lines can be misclassified.
type importExtractor struct {
	lines          []string
	ignoreMarker   *regexp.Regexp
	reexportMarker string
	imports        *FileImports
}

func newImportExtractor(lines []string, config *Config) *importExtractor {
	return &importExtractor{
		lines:          lines,
		ignoreMarker:   config.IgnoreImportMarker,
		reexportMarker: config.ReexportMarker,
		imports: &FileImports{
			Modules:     newStringSet(),
			LineNumbers: make(map[string]int),
			Reexported:  newStringSet(),
		},
	}
}

func (e *importExtractor) visit(occurrence indexstore.Occurrence) {
	if occurrence.Symbol.Kind != indexstore.KindModule || !occurrence.Roles.Contains(indexstore.RoleReference) {
		return
	}

	line, ok := lineAt(e.lines, occurrence.Location.Line)
	if !ok || !isImportStatement(line, e.ignoreMarker) {
		return
	}

	module := occurrence.Symbol.Name
	e.imports.Modules.add(module)
	e.imports.LineNumbers[module] = occurrence.Location.Line

	if e.reexportMarker != "" && strings.Contains(line, e.reexportMarker) {
		e.imports.Reexported.add(module)
	}
}

// isImportStatement reports whether a source line is an import the tool may
// suggest removing.
func isImportStatement(line string, ignoreMarker *regexp.Regexp) bool {
	if !strings.HasPrefix(line, "import ") && !strings.Contains(line, " import ") {
		return false
	}
	return ignoreMarker == nil || !ignoreMarker.MatchString(line)
}
