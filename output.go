package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const (
	reporterSed  = "sed"
	reporterJSON = "json"
	reporterText = "text"
)

// Reporter turns the analysis decision into output a user or tool can act on.
type Reporter interface {
	Report(w io.Writer, files []SourceFileWithUnusedImports) error
}

func newReporter(name string) (Reporter, error) {
	switch name {
	case reporterSed, "":
		return sedCommandReporter{}, nil
	case reporterJSON:
		return jsonReporter{}, nil
	case reporterText:
		return textReporter{}, nil
	default:
		return nil, fmt.Errorf(`%w: %q
In your unused-imports configuration try either:

    1. Removing the %q key to get the default sed command reporter or
    2. Setting the %q key to %q to get the JSON reporter`, ErrInvalidReporter, name, keyReporter, keyReporter, reporterJSON)
	}
}

// sedCommandReporter prints one in-place sed command per file that deletes
// the unused import lines.
type sedCommandReporter struct{}

func (sedCommandReporter) Report(w io.Writer, files []SourceFileWithUnusedImports) error {
	for _, file := range files {
		commands := make([]string, 0, len(file.UnusedImportStatements))
		for _, statement := range file.UnusedImportStatements {
			commands = append(commands, fmt.Sprintf("%dd", statement.LineNumber))
		}
		if _, err := fmt.Fprintf(w, "/usr/bin/sed -i \"\" '%s' '%s'\n", strings.Join(commands, ";"), file.Path); err != nil {
			return err
		}
	}
	return nil
}

// jsonReporter prints the files as a single compact JSON array.
type jsonReporter struct{}

func (jsonReporter) Report(w io.Writer, files []SourceFileWithUnusedImports) error {
	if files == nil {
		files = []SourceFileWithUnusedImports{}
	}
	data, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// textReporter prints a human-readable listing with a short summary.
type textReporter struct{}

func (textReporter) Report(w io.Writer, files []SourceFileWithUnusedImports) error {
	header := color.New(color.Bold)
	path := color.New(color.FgCyan)
	module := color.New(color.FgYellow)

	if len(files) == 0 {
		_, err := fmt.Fprintln(w, "No unused imports found!")
		return err
	}

	header.Fprintf(w, "UNUSED IMPORTS\n")
	fmt.Fprintf(w, "Found %d file(s) with imports nothing in the file uses:\n\n", len(files))

	total := 0
	for _, file := range files {
		path.Fprintf(w, "  %s\n", file.Path)
		for _, statement := range file.UnusedImportStatements {
			fmt.Fprintf(w, "    %s ", formatLine(statement.LineNumber))
			module.Fprintf(w, "import %s\n", statement.ModuleName)
			total++
		}
	}

	fmt.Fprintf(w, "\nSummary:\n")
	fmt.Fprintf(w, "  • Files: %d\n", len(files))
	_, err := fmt.Fprintf(w, "  • Unused imports: %d\n", total)
	return err
}

// formatLine formats a line number for display
func formatLine(line int) string {
	return fmt.Sprintf("%5d:", line)
}
