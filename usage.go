package main

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"
)

// findUnusedImports resolves every analyzed file and returns the files with
// unused imports, sorted by path.
func (a *Analyzer) findUnusedImports() []SourceFileWithUnusedImports {
	var found []SourceFileWithUnusedImports
	for _, file := range a.files {
		if statements := a.unusedImportsIn(file); len(statements) > 0 {
			found = append(found, SourceFileWithUnusedImports{
				Path:                   relativePath(a.config.WorkingDirectory, file.unit.MainFile),
				UnusedImportStatements: statements,
			})
		}
	}

	slices.SortFunc(found, func(x, y SourceFileWithUnusedImports) int {
		return cmp.Compare(x.Path, y.Path)
	})
	return found
}

// unusedImportsIn decides, for one file, which imports nothing in the file
// depends on.
func (a *Analyzer) unusedImportsIn(file *sourceFile) []UnusedImportStatement {
	if file.imports == nil || file.references == nil {
		return nil
	}
	if a.config.shouldIgnoreFile(file.unit.MainFile) || a.config.shouldIgnoreModule(file.unit.ModuleName) {
		return nil
	}

	// Imports of modules outside the index (system frameworks) are never
	// judged.
	allImports := newStringSet()
	for module := range file.imports.Modules {
		if a.state.allModuleNames.has(module) {
			allImports.add(module)
		}
	}
	if len(allImports) == 0 {
		return nil
	}

	used := newStringSet()
	for module := range allImports {
		if a.isImportUsed(module, allImports, file.references) {
			used.add(module)
		}
	}

	var statements []UnusedImportStatement
	for module := range allImports {
		if used.has(module) || a.config.AlwaysKeepImports.has(module) || file.imports.Reexported.has(module) {
			continue
		}
		statements = append(statements, UnusedImportStatement{
			ModuleName: module,
			LineNumber: file.imports.LineNumbers[module],
		})
	}

	slices.SortFunc(statements, func(x, y UnusedImportStatement) int {
		if c := cmp.Compare(x.ModuleName, y.ModuleName); c != 0 {
			return c
		}
		return cmp.Compare(x.LineNumber, y.LineNumber)
	})
	return statements
}

// isImportUsed reports whether the file uses anything defined by module or
// by a module it transitively re-exports.
func (a *Analyzer) isImportUsed(module string, allImports stringSet, refs *FileReferences) bool {
	candidates := []string{module}
	candidates = append(candidates, TransitiveExports(module, a.state.moduleExports).sorted()...)

	for _, candidate := range candidates {
		for _, unit := range a.state.modulesToUnits[candidate] {
			// Empty files have units but no records and therefore no USRs.
			defs, ok := a.state.definitions[unit.MainFile]
			if !ok {
				continue
			}

			if defs.USRs.intersects(refs.USRs) {
				return true
			}
			// A typealias match only counts when its module is imported
			// directly, otherwise it is probably a different alias with the
			// same name.
			if defs.Typealiases.intersects(refs.Typealiases) && allImports.has(candidate) {
				return true
			}
		}
	}
	return false
}

// relativePath strips the working directory prefix from path. Paths outside
// the working directory, and every path when it is the filesystem root, are
// returned unchanged.
func relativePath(workingDirectory, path string) string {
	trimmed := strings.TrimSuffix(workingDirectory, string(filepath.Separator))
	if trimmed == "" {
		return path
	}
	return strings.TrimPrefix(path, trimmed+string(filepath.Separator))
}
