package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mirrir0/unused-imports/indexstore"
	"github.com/mirrir0/unused-imports/indexstore/jsonstore"
	"github.com/mirrir0/unused-imports/indexstore/sqlitestore"
)

var convertCmd = &cobra.Command{
	Use:   "convert <json-snapshot-dir> <sqlite-file>",
	Short: "Convert a JSON index snapshot into a SQLite snapshot",
	Long: `Convert reads a JSON index snapshot directory and writes the same units and
records into a single SQLite file, which loads faster for large indexes.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		units, err := convertSnapshot(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Converted %d units into %s\n", units, args[1])
		return nil
	},
}

// convertSnapshot copies every unit and record of a JSON snapshot into a new
// SQLite snapshot and returns the number of units written.
func convertSnapshot(source, destination string) (int, error) {
	src, err := jsonstore.Open(source)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %w", ErrStoreOpen, source, err)
	}
	defer src.Close()

	dst, err := sqlitestore.Create(destination)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", destination, err)
	}

	count := 0
	for unit := range src.Units() {
		var record indexstore.Record
		if unit.HasRecord() {
			record, err = src.OpenRecord(unit.RecordName)
			if err != nil {
				return 0, errors.Join(fmt.Errorf("%w: %s %w", ErrRecordOpen, unit.RecordName, err), dst.Close())
			}
		}
		if err := dst.WriteUnit(unit, record); err != nil {
			return 0, errors.Join(err, dst.Close())
		}
		count++
	}

	if err := dst.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", destination, err)
	}
	return count, nil
}
