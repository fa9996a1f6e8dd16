package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mirrir0/unused-imports/indexstore"
	"github.com/mirrir0/unused-imports/indexstore/jsonstore"
)

// fixture builds an in-memory index store whose main files are real files in
// a temporary directory.
type fixture struct {
	t     *testing.T
	dir   string
	store *indexstore.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	// The analysis compares against os.Getwd, which resolves symlinks.
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return &fixture{
		t:     t,
		dir:   dir,
		store: indexstore.NewMemoryStore(filepath.Join(dir, "index")),
	}
}

// file writes source to <dir>/<module>/<name> and registers a unit with a
// record holding occurrences. It returns the absolute path.
func (f *fixture) file(module, name, source string, occurrences ...indexstore.Occurrence) string {
	f.t.Helper()
	path := f.write(module, name, source)
	recordName := module + "-" + name + "-record"
	f.store.AddUnit(indexstore.Unit{
		Name:       module + "-" + name,
		MainFile:   path,
		ModuleName: module,
		RecordName: recordName,
	}, indexstore.NewMemoryRecord(recordName, nil, occurrences))
	return path
}

// emptyFile registers a unit without a record, like an empty source file.
func (f *fixture) emptyFile(module, name string) string {
	f.t.Helper()
	path := f.write(module, name, "")
	f.store.AddUnit(indexstore.Unit{
		Name:       module + "-" + name,
		MainFile:   path,
		ModuleName: module,
	}, nil)
	return path
}

func (f *fixture) write(module, name, source string) string {
	f.t.Helper()
	path := filepath.Join(f.dir, module, name)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(f.t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func (f *fixture) config() *Config {
	config := DefaultConfig()
	config.WorkingDirectory = f.dir
	config.Workers = 4
	return config
}

func (f *fixture) analyze(config *Config) (*AnalysisResult, error) {
	f.t.Helper()
	return NewAnalyzer(config, discardLogger(), []indexstore.Store{f.store}).Analyze()
}

// unused runs the analysis with the default configuration and fails the
// test on error.
func (f *fixture) unused() []SourceFileWithUnusedImports {
	f.t.Helper()
	result, err := f.analyze(f.config())
	require.NoError(f.t, err)
	return result.FilesWithUnusedImports
}

func (f *fixture) sedOutput(config *Config) string {
	f.t.Helper()
	result, err := f.analyze(config)
	require.NoError(f.t, err)
	var buf bytes.Buffer
	require.NoError(f.t, sedCommandReporter{}.Report(&buf, result.FilesWithUnusedImports))
	return buf.String()
}

// jsonSnapshot writes the fixture's store as a JSON snapshot directory and
// returns its path.
func (f *fixture) jsonSnapshot() string {
	f.t.Helper()
	root := filepath.Join(f.dir, "index-snapshot")
	w, err := jsonstore.NewWriter(root)
	require.NoError(f.t, err)

	for unit := range f.store.Units() {
		var record indexstore.Record
		if unit.HasRecord() {
			record, err = f.store.OpenRecord(unit.RecordName)
			require.NoError(f.t, err)
		}
		require.NoError(f.t, w.WriteUnit(unit, record))
	}
	return root
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func def(usr, name string, kind indexstore.Kind, line, column int) indexstore.Occurrence {
	return indexstore.Occurrence{
		Symbol:   indexstore.Symbol{USR: usr, Name: name, Kind: kind},
		Roles:    indexstore.RoleDefinition | indexstore.RoleDeclaration,
		Location: indexstore.Location{Line: line, Column: column},
	}
}

func ref(usr, name string, line, column int) indexstore.Occurrence {
	return indexstore.Occurrence{
		Symbol:   indexstore.Symbol{USR: usr, Name: name, Kind: indexstore.KindFunction},
		Roles:    indexstore.RoleReference | indexstore.RoleCall,
		Location: indexstore.Location{Line: line, Column: column},
	}
}

func moduleRef(module string, line, column int) indexstore.Occurrence {
	return indexstore.Occurrence{
		Symbol:   indexstore.Symbol{USR: "c:@M@" + module, Name: module, Kind: indexstore.KindModule},
		Roles:    indexstore.RoleReference,
		Location: indexstore.Location{Line: line, Column: column},
	}
}

// structExtension is the occurrence the index records for `extension X {`;
// the symbol carries the extended struct's real name.
func structExtension(usr, structName string, line, column int) indexstore.Occurrence {
	return indexstore.Occurrence{
		Symbol: indexstore.Symbol{
			USR:     usr,
			Name:    structName,
			Kind:    indexstore.KindExtension,
			Subkind: indexstore.SubkindSwiftExtensionOfStruct,
		},
		Roles:    indexstore.RoleDefinition,
		Location: indexstore.Location{Line: line, Column: column},
	}
}

func statement(module string, line int) UnusedImportStatement {
	return UnusedImportStatement{ModuleName: module, LineNumber: line}
}
