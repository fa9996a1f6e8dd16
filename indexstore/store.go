package indexstore

import (
	"errors"
	"iter"
	"slices"
)

// ErrRecordNotFound is returned by Store.OpenRecord when the store holds no
// record with the requested name.
var ErrRecordNotFound = errors.New("record not found")

// Unit is the index's representation of one compiled source file.
type Unit struct {
	Name               string `json:"name"`
	MainFile           string `json:"mainFile"`
	ModuleName         string `json:"moduleName"`
	IsSystem           bool   `json:"isSystem,omitempty"`
	IsModule           bool   `json:"isModule,omitempty"`
	IsDebugCompilation bool   `json:"isDebugCompilation,omitempty"`
	WorkingDirectory   string `json:"workingDirectory,omitempty"`
	// RecordName is empty when the unit has no record, which is the case
	// for empty source files.
	RecordName string `json:"recordName,omitempty"`
}

// HasRecord reports whether the unit names a record.
func (u Unit) HasRecord() bool {
	return u.RecordName != ""
}

// Store enumerates units and opens records.
type Store interface {
	// Path is the location the store was opened from.
	Path() string
	// Units yields every unit in the store, in no particular order.
	Units() iter.Seq[Unit]
	// OpenRecord opens the record with the given name.
	OpenRecord(name string) (Record, error)
	Close() error
}

// Record holds the symbols and occurrences of one unit's main file.
type Record interface {
	Name() string
	Symbols() iter.Seq[Symbol]
	Occurrences() iter.Seq[Occurrence]
}

// MemoryRecord is a fully loaded record. Every backend in this module
// decodes a record completely before handing it out.
type MemoryRecord struct {
	name        string
	symbols     []Symbol
	occurrences []Occurrence
}

// NewMemoryRecord builds a record from already decoded data.
func NewMemoryRecord(name string, symbols []Symbol, occurrences []Occurrence) *MemoryRecord {
	return &MemoryRecord{
		name:        name,
		symbols:     symbols,
		occurrences: occurrences,
	}
}

func (r *MemoryRecord) Name() string {
	return r.name
}

func (r *MemoryRecord) Symbols() iter.Seq[Symbol] {
	return slices.Values(r.symbols)
}

func (r *MemoryRecord) Occurrences() iter.Seq[Occurrence] {
	return slices.Values(r.occurrences)
}
