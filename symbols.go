package main

import (
	"github.com/mirrir0/unused-imports/indexstore"
)

// definitionBuilder collects the USRs and typealias names a file defines.
type definitionBuilder struct {
	defs *FileDefinitions
}

func newDefinitionBuilder() *definitionBuilder {
	return &definitionBuilder{
		defs: &FileDefinitions{
			USRs:        newStringSet(),
			Typealiases: newStringSet(),
		},
	}
}

// visit processes one occurrence
func (b *definitionBuilder) visit(occurrence indexstore.Occurrence) {
	if !occurrence.Roles.Contains(indexstore.RoleDefinition) {
		return
	}

	b.defs.USRs.add(occurrence.Symbol.USR)
	if occurrence.Symbol.Kind == indexstore.KindTypealias {
		b.defs.Typealiases.add(occurrence.Symbol.Name)
	}
}

// findDefinitions extracts the definitions of a whole record
func findDefinitions(record indexstore.Record) *FileDefinitions {
	b := newDefinitionBuilder()
	for occurrence := range record.Occurrences() {
		b.visit(occurrence)
	}
	return b.defs
}
