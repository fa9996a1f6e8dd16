package indexstore

import (
	"fmt"
	"iter"
	"slices"
)

// MemoryStore is a Store held entirely in memory.
type MemoryStore struct {
	path    string
	units   []Unit
	records map[string]*MemoryRecord
}

// NewMemoryStore returns an empty store reporting the given path.
func NewMemoryStore(path string) *MemoryStore {
	return &MemoryStore{
		path:    path,
		records: make(map[string]*MemoryRecord),
	}
}

// AddUnit appends a unit. If record is non-nil it is stored under the
// unit's RecordName.
func (s *MemoryStore) AddUnit(unit Unit, record *MemoryRecord) {
	s.units = append(s.units, unit)
	if record != nil {
		s.records[unit.RecordName] = record
	}
}

func (s *MemoryStore) Path() string {
	return s.path
}

func (s *MemoryStore) Units() iter.Seq[Unit] {
	return slices.Values(s.units)
}

func (s *MemoryStore) OpenRecord(name string) (Record, error) {
	record, ok := s.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, name)
	}
	return record, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
