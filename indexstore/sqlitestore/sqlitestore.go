// Package sqlitestore keeps an index store snapshot in a single SQLite
// file using the pure Go modernc.org/sqlite driver.
package sqlitestore

import (
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mirrir0/unused-imports/indexstore"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Store is a SQLite snapshot opened read-only.
type Store struct {
	path  string
	db    *sql.DB
	units []indexstore.Unit

	recordStmt     *sql.Stmt
	symbolsStmt    *sql.Stmt
	occurrenceStmt *sql.Stmt
	relationStmt   *sql.Stmt
}

// Open opens an existing snapshot file and loads its unit table.
func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite index snapshot %q: %w", cleanPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("sqlite index snapshot %q is a directory, expected file", cleanPath)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite index snapshot %q: %w", cleanPath, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite index snapshot %q: %w", cleanPath, err)
	}
	if err := checkSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite index snapshot %q: %w", cleanPath, err)
	}

	s := &Store{path: cleanPath, db: db}
	if err := s.prepare(); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := s.loadUnits(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) prepare() error {
	var err error
	if s.recordStmt, err = s.db.Prepare(`SELECT name FROM records WHERE name = ?`); err != nil {
		return fmt.Errorf("prepare record stmt: %w", err)
	}
	if s.symbolsStmt, err = s.db.Prepare(`SELECT idx, usr, name, kind, subkind
FROM symbols
WHERE record_name = ?
ORDER BY idx`); err != nil {
		return fmt.Errorf("prepare symbols stmt: %w", err)
	}
	if s.occurrenceStmt, err = s.db.Prepare(`SELECT idx, symbol_idx, roles, line, col
FROM occurrences
WHERE record_name = ?
ORDER BY idx`); err != nil {
		return fmt.Errorf("prepare occurrences stmt: %w", err)
	}
	if s.relationStmt, err = s.db.Prepare(`SELECT occurrence_idx, symbol_idx, roles
FROM relations
WHERE record_name = ?
ORDER BY occurrence_idx, rowid`); err != nil {
		return fmt.Errorf("prepare relations stmt: %w", err)
	}
	return nil
}

func (s *Store) loadUnits() error {
	rows, err := s.db.Query(`SELECT name, main_file, module_name, is_system, is_module, is_debug, working_dir, record_name
FROM units
ORDER BY name`)
	if err != nil {
		return fmt.Errorf("query units: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u indexstore.Unit
		if err := rows.Scan(&u.Name, &u.MainFile, &u.ModuleName, &u.IsSystem, &u.IsModule,
			&u.IsDebugCompilation, &u.WorkingDirectory, &u.RecordName); err != nil {
			return fmt.Errorf("scan unit: %w", err)
		}
		s.units = append(s.units, u)
	}
	return rows.Err()
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Units() iter.Seq[indexstore.Unit] {
	return slices.Values(s.units)
}

func (s *Store) OpenRecord(name string) (indexstore.Record, error) {
	var found string
	err := s.recordStmt.QueryRow(name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", indexstore.ErrRecordNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup record %s: %w", name, err)
	}

	symbols, err := s.loadSymbols(name)
	if err != nil {
		return nil, err
	}
	relations, err := s.loadRelations(name, symbols)
	if err != nil {
		return nil, err
	}

	rows, err := s.occurrenceStmt.Query(name)
	if err != nil {
		return nil, fmt.Errorf("query occurrences of %s: %w", name, err)
	}
	defer rows.Close()

	var occurrences []indexstore.Occurrence
	for rows.Next() {
		var (
			idx, symbolIdx int
			roles          int64
			o              indexstore.Occurrence
		)
		if err := rows.Scan(&idx, &symbolIdx, &roles, &o.Location.Line, &o.Location.Column); err != nil {
			return nil, fmt.Errorf("scan occurrence of %s: %w", name, err)
		}
		if symbolIdx < 0 || symbolIdx >= len(symbols) {
			return nil, fmt.Errorf("record %s occurrence %d: symbol index %d out of range", name, idx, symbolIdx)
		}
		o.Symbol = symbols[symbolIdx]
		o.Roles = indexstore.Roles(roles)
		o.Relations = relations[idx]
		occurrences = append(occurrences, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occurrences of %s: %w", name, err)
	}

	return indexstore.NewMemoryRecord(name, symbols, occurrences), nil
}

func (s *Store) loadSymbols(record string) ([]indexstore.Symbol, error) {
	rows, err := s.symbolsStmt.Query(record)
	if err != nil {
		return nil, fmt.Errorf("query symbols of %s: %w", record, err)
	}
	defer rows.Close()

	var symbols []indexstore.Symbol
	for rows.Next() {
		var (
			idx           int
			kind, subkind string
			sym           indexstore.Symbol
		)
		if err := rows.Scan(&idx, &sym.USR, &sym.Name, &kind, &subkind); err != nil {
			return nil, fmt.Errorf("scan symbol of %s: %w", record, err)
		}
		if idx != len(symbols) {
			return nil, fmt.Errorf("record %s: symbol table has a gap at index %d", record, len(symbols))
		}
		if sym.Kind, err = indexstore.ParseKind(kind); err != nil {
			return nil, fmt.Errorf("record %s symbol %d: %w", record, idx, err)
		}
		if sym.Subkind, err = indexstore.ParseSubkind(subkind); err != nil {
			return nil, fmt.Errorf("record %s symbol %d: %w", record, idx, err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

func (s *Store) loadRelations(record string, symbols []indexstore.Symbol) (map[int][]indexstore.Relation, error) {
	rows, err := s.relationStmt.Query(record)
	if err != nil {
		return nil, fmt.Errorf("query relations of %s: %w", record, err)
	}
	defer rows.Close()

	relations := make(map[int][]indexstore.Relation)
	for rows.Next() {
		var (
			occurrenceIdx, symbolIdx int
			roles                    int64
		)
		if err := rows.Scan(&occurrenceIdx, &symbolIdx, &roles); err != nil {
			return nil, fmt.Errorf("scan relation of %s: %w", record, err)
		}
		if symbolIdx < 0 || symbolIdx >= len(symbols) {
			return nil, fmt.Errorf("record %s relation: symbol index %d out of range", record, symbolIdx)
		}
		relations[occurrenceIdx] = append(relations[occurrenceIdx], indexstore.Relation{
			Symbol: symbols[symbolIdx],
			Roles:  indexstore.Roles(roles),
		})
	}
	return relations, rows.Err()
}

func (s *Store) Close() error {
	for _, stmt := range []*sql.Stmt{s.recordStmt, s.symbolsStmt, s.occurrenceStmt, s.relationStmt} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	return s.db.Close()
}

// Writer fills a new snapshot file.
type Writer struct {
	db *sql.DB
}

// Create creates (or truncates) a snapshot file at path.
func Create(path string) (*Writer, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("sqlite index snapshot path must not be empty")
	}
	if dir := filepath.Dir(cleanPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot directory %q: %w", dir, err)
		}
	}
	if err := os.Remove(cleanPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("replace sqlite index snapshot %q: %w", cleanPath, err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("create sqlite index snapshot %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := migrateSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Writer{db: db}, nil
}

// WriteUnit stores a unit row and, when record is non-nil, the record named
// by unit.RecordName. Each call runs in its own transaction.
func (w *Writer) WriteUnit(unit indexstore.Unit, record indexstore.Record) (err error) {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("begin unit %s: %w", unit.Name, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`INSERT INTO units(name, main_file, module_name, is_system, is_module, is_debug, working_dir, record_name)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		unit.Name, unit.MainFile, unit.ModuleName, unit.IsSystem, unit.IsModule,
		unit.IsDebugCompilation, unit.WorkingDirectory, unit.RecordName); err != nil {
		return fmt.Errorf("insert unit %s: %w", unit.Name, err)
	}

	if record != nil {
		if err = writeRecord(tx, unit.RecordName, record); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit unit %s: %w", unit.Name, err)
	}
	return nil
}

func writeRecord(tx *sql.Tx, name string, record indexstore.Record) error {
	if _, err := tx.Exec(`INSERT INTO records(name) VALUES(?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return fmt.Errorf("insert record %s: %w", name, err)
	}
	// A record shared by several units is written once.
	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM symbols WHERE record_name = ?`, name).Scan(&count); err != nil {
		return fmt.Errorf("inspect record %s: %w", name, err)
	}
	if count > 0 {
		return nil
	}

	index := make(map[indexstore.Symbol]int)
	insertSymbol := func(sym indexstore.Symbol) (int, error) {
		if i, ok := index[sym]; ok {
			return i, nil
		}
		i := len(index)
		if _, err := tx.Exec(`INSERT INTO symbols(record_name, idx, usr, name, kind, subkind) VALUES(?, ?, ?, ?, ?, ?)`,
			name, i, sym.USR, sym.Name, sym.Kind.String(), sym.Subkind.String()); err != nil {
			return 0, fmt.Errorf("insert symbol %s of %s: %w", sym.USR, name, err)
		}
		index[sym] = i
		return i, nil
	}

	for sym := range record.Symbols() {
		if _, err := insertSymbol(sym); err != nil {
			return err
		}
	}

	idx := 0
	for o := range record.Occurrences() {
		symbolIdx, err := insertSymbol(o.Symbol)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO occurrences(record_name, idx, symbol_idx, roles, line, col) VALUES(?, ?, ?, ?, ?, ?)`,
			name, idx, symbolIdx, int64(o.Roles), o.Location.Line, o.Location.Column); err != nil {
			return fmt.Errorf("insert occurrence %d of %s: %w", idx, name, err)
		}
		for _, rel := range o.Relations {
			relatedIdx, err := insertSymbol(rel.Symbol)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(`INSERT INTO relations(record_name, occurrence_idx, symbol_idx, roles) VALUES(?, ?, ?, ?)`,
				name, idx, relatedIdx, int64(rel.Roles)); err != nil {
				return fmt.Errorf("insert relation of occurrence %d of %s: %w", idx, name, err)
			}
		}
		idx++
	}
	return nil
}

// Close flushes and closes the snapshot file.
func (w *Writer) Close() error {
	return w.db.Close()
}
