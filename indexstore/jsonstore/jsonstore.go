// Package jsonstore reads and writes index store snapshots kept as a
// directory of JSON documents:
//
//	<root>/units/<unit-name>.json      one indexstore.Unit per file
//	<root>/records/<record-name>.json  symbols and occurrences of one record
//
// Occurrences and relations refer to symbols by their position in the
// record's symbol table.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mirrir0/unused-imports/indexstore"
)

const (
	unitsDir   = "units"
	recordsDir = "records"
	fileExt    = ".json"
)

type recordDocument struct {
	Symbols     []indexstore.Symbol  `json:"symbols"`
	Occurrences []occurrenceDocument `json:"occurrences"`
}

type occurrenceDocument struct {
	Symbol    int                `json:"symbol"`
	Roles     indexstore.Roles   `json:"roles"`
	Line      int                `json:"line"`
	Column    int                `json:"column"`
	Relations []relationDocument `json:"relations,omitempty"`
}

type relationDocument struct {
	Symbol int              `json:"symbol"`
	Roles  indexstore.Roles `json:"roles"`
}

// Store is a snapshot directory opened for reading.
type Store struct {
	root  string
	units []indexstore.Unit
}

// IsSnapshot reports whether dir looks like a JSON snapshot.
func IsSnapshot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, unitsDir))
	return err == nil && info.IsDir()
}

// Open reads every unit document below root. Records are loaded lazily by
// OpenRecord.
func Open(root string) (*Store, error) {
	if !IsSnapshot(root) {
		return nil, fmt.Errorf("%s is not a JSON index snapshot: missing %s directory", root, unitsDir)
	}

	entries, err := os.ReadDir(filepath.Join(root, unitsDir))
	if err != nil {
		return nil, fmt.Errorf("reading units of %s: %w", root, err)
	}

	var units []indexstore.Unit
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}

		path := filepath.Join(root, unitsDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading unit %s: %w", path, err)
		}

		var unit indexstore.Unit
		if err := json.Unmarshal(data, &unit); err != nil {
			return nil, fmt.Errorf("decoding unit %s: %w", path, err)
		}
		if unit.Name == "" {
			unit.Name = strings.TrimSuffix(entry.Name(), fileExt)
		}
		units = append(units, unit)
	}

	return &Store{root: root, units: units}, nil
}

func (s *Store) Path() string {
	return s.root
}

func (s *Store) Units() iter.Seq[indexstore.Unit] {
	return slices.Values(s.units)
}

func (s *Store) OpenRecord(name string) (indexstore.Record, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	path := filepath.Join(s.root, recordsDir, name+fileExt)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", indexstore.ErrRecordNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", path, err)
	}

	var doc recordDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding record %s: %w", path, err)
	}

	occurrences := make([]indexstore.Occurrence, 0, len(doc.Occurrences))
	for i, od := range doc.Occurrences {
		symbol, err := lookupSymbol(doc.Symbols, od.Symbol)
		if err != nil {
			return nil, fmt.Errorf("record %s occurrence %d: %w", name, i, err)
		}

		occurrence := indexstore.Occurrence{
			Symbol:   symbol,
			Roles:    od.Roles,
			Location: indexstore.Location{Line: od.Line, Column: od.Column},
		}
		for _, rd := range od.Relations {
			related, err := lookupSymbol(doc.Symbols, rd.Symbol)
			if err != nil {
				return nil, fmt.Errorf("record %s occurrence %d relation: %w", name, i, err)
			}
			occurrence.Relations = append(occurrence.Relations, indexstore.Relation{Symbol: related, Roles: rd.Roles})
		}
		occurrences = append(occurrences, occurrence)
	}

	return indexstore.NewMemoryRecord(name, doc.Symbols, occurrences), nil
}

func (s *Store) Close() error {
	return nil
}

func lookupSymbol(symbols []indexstore.Symbol, index int) (indexstore.Symbol, error) {
	if index < 0 || index >= len(symbols) {
		return indexstore.Symbol{}, fmt.Errorf("symbol index %d out of range (%d symbols)", index, len(symbols))
	}
	return symbols[index], nil
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid record or unit name %q", name)
	}
	return nil
}

// Writer produces a snapshot directory.
type Writer struct {
	root string
}

// NewWriter creates the snapshot directory layout below root.
func NewWriter(root string) (*Writer, error) {
	for _, dir := range []string{unitsDir, recordsDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}
	return &Writer{root: root}, nil
}

// WriteUnit stores a unit document and, when record is non-nil, the record
// named by unit.RecordName.
func (w *Writer) WriteUnit(unit indexstore.Unit, record indexstore.Record) error {
	if err := checkName(unit.Name); err != nil {
		return err
	}

	data, err := json.MarshalIndent(unit, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding unit %s: %w", unit.Name, err)
	}
	if err := os.WriteFile(filepath.Join(w.root, unitsDir, unit.Name+fileExt), data, 0o644); err != nil {
		return fmt.Errorf("writing unit %s: %w", unit.Name, err)
	}

	if record == nil {
		return nil
	}
	if err := checkName(unit.RecordName); err != nil {
		return err
	}
	return w.writeRecord(unit.RecordName, record)
}

func (w *Writer) writeRecord(name string, record indexstore.Record) error {
	var doc recordDocument
	index := make(map[indexstore.Symbol]int)
	symbolIndex := func(symbol indexstore.Symbol) int {
		if i, ok := index[symbol]; ok {
			return i
		}
		index[symbol] = len(doc.Symbols)
		doc.Symbols = append(doc.Symbols, symbol)
		return index[symbol]
	}

	for symbol := range record.Symbols() {
		symbolIndex(symbol)
	}

	for occurrence := range record.Occurrences() {
		od := occurrenceDocument{
			Symbol: symbolIndex(occurrence.Symbol),
			Roles:  occurrence.Roles,
			Line:   occurrence.Location.Line,
			Column: occurrence.Location.Column,
		}
		for _, relation := range occurrence.Relations {
			od.Relations = append(od.Relations, relationDocument{
				Symbol: symbolIndex(relation.Symbol),
				Roles:  relation.Roles,
			})
		}
		doc.Occurrences = append(doc.Occurrences, od)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(w.root, recordsDir, name+fileExt), data, 0o644); err != nil {
		return fmt.Errorf("writing record %s: %w", name, err)
	}
	return nil
}
