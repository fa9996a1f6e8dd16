package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mirrir0/unused-imports/indexstore"
	"github.com/mirrir0/unused-imports/indexstore/jsonstore"
	"github.com/mirrir0/unused-imports/indexstore/sqlitestore"
)

// openStore opens an index snapshot: a directory is read as a JSON snapshot
// and a regular file as a SQLite snapshot.
func openStore(path string) (indexstore.Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrStoreOpen, path, err)
	}

	if info.IsDir() {
		if !jsonstore.IsSnapshot(path) {
			return nil, fmt.Errorf("%w %s: directory is not a JSON index snapshot", ErrStoreOpen, path)
		}
		store, err := jsonstore.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrStoreOpen, path, err)
		}
		return store, nil
	}

	store, err := sqlitestore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrStoreOpen, path, err)
	}
	return store, nil
}

// openStores opens every path, closing the already opened stores on error.
func openStores(paths []string) ([]indexstore.Store, error) {
	stores := make([]indexstore.Store, 0, len(paths))
	for _, path := range paths {
		store, err := openStore(path)
		if err != nil {
			closeStores(stores)
			return nil, err
		}
		stores = append(stores, store)
	}
	return stores, nil
}

func closeStores(stores []indexstore.Store) {
	for _, store := range stores {
		_ = store.Close()
	}
}

// collectUnits selects the units to analyze and opens their records.
// Synthetic units without a main file are dropped. When several units
// share a main file the first one with a record wins, unless the duplicate
// policy turns that into an error.
func (a *Analyzer) collectUnits() error {
	seen := make(map[string]string)

	for _, store := range a.stores {
		for unit := range store.Units() {
			if unit.MainFile == "" {
				continue
			}

			if first, ok := seen[unit.MainFile]; ok {
				if a.config.DuplicateUnits == DuplicateError {
					return fmt.Errorf("%w %s: units %s and %s", ErrDuplicateUnit, unit.MainFile, first, unit.Name)
				}
				a.logger.Debug("skipping duplicate unit", "unit", unit.Name, "main_file", unit.MainFile, "kept", first)
				continue
			}

			file := &sourceFile{unit: unit}
			if unit.HasRecord() {
				record, err := store.OpenRecord(unit.RecordName)
				if err != nil {
					return fmt.Errorf("%w: %s %w", ErrRecordOpen, unit.RecordName, err)
				}
				file.record = record
				seen[unit.MainFile] = unit.Name
			}
			a.files = append(a.files, file)
		}
	}

	if len(a.files) == 0 {
		return fmt.Errorf("%w from %s", ErrNoUnits, strings.Join(storePaths(a.stores), ", "))
	}
	return nil
}

func storePaths(stores []indexstore.Store) []string {
	paths := make([]string, 0, len(stores))
	for _, store := range stores {
		paths = append(paths, store.Path())
	}
	return paths
}
