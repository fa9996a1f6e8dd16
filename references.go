package main

import (
	"regexp"

	"github.com/mirrir0/unused-imports/indexstore"
)

var identifierRegex = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)

// referenceExtractor collects the USRs a file uses, plus the typealias names
// it names in extension declarations.
type referenceExtractor struct {
	lines []string
	refs  *FileReferences
}

func newReferenceExtractor(lines []string) *referenceExtractor {
	return &referenceExtractor{
		lines: lines,
		refs: &FileReferences{
			USRs:        newStringSet(),
			Typealiases: newStringSet(),
		},
	}
}

func (e *referenceExtractor) visit(occurrence indexstore.Occurrence) {
	if occurrence.Symbol.Subkind == indexstore.SubkindSwiftExtensionOfStruct {
		// An extension always uses the type it extends.
		e.refs.USRs.add(occurrence.Symbol.USR)

		// `extension MyAlias` is indexed against the aliased struct, so the
		// alias only shows up in the source text.
		line, ok := lineAt(e.lines, occurrence.Location.Line)
		if !ok {
			return
		}
		identifier, ok := IdentifierAt(line, occurrence.Location.Column)
		if ok && identifier != occurrence.Symbol.Name {
			e.refs.Typealiases.add(identifier)
		}
		return
	}

	if occurrence.Roles.Contains(indexstore.RoleReference) {
		e.refs.USRs.add(occurrence.Symbol.USR)
	}
}

// IdentifierAt returns the first identifier found at or after a 1-based
// byte column of line. Columns past the end of the line find nothing.
// Non-identifier type syntax such as `[Int]` is skipped over, so it may
// yield the element type's name.
func IdentifierAt(line string, column int) (string, bool) {
	if column < 1 || column > len(line) {
		return "", false
	}
	match := identifierRegex.FindString(line[column-1:])
	if match == "" {
		return "", false
	}
	return match, true
}
