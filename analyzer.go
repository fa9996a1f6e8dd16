package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sourcegraph/conc/pool"

	"github.com/mirrir0/unused-imports/indexstore"
)

// NewAnalyzer creates a new analyzer over already opened stores
func NewAnalyzer(config *Config, logger *slog.Logger, stores []indexstore.Store) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Analyzer{
		config: config,
		logger: logger,
		stores: stores,
		state:  newAnalysisContext(),
	}
}

// Analyze performs the complete unused import analysis
func (a *Analyzer) Analyze() (*AnalysisResult, error) {
	if err := a.collectUnits(); err != nil {
		return nil, err
	}
	a.logger.Debug("collected units", "files", len(a.files), "stores", len(a.stores))

	lines, err := newLineCache(len(a.files))
	if err != nil {
		return nil, fmt.Errorf("creating source cache: %w", err)
	}
	a.lines = lines

	if err := a.extract(); err != nil {
		return nil, err
	}

	a.aggregate()
	a.logger.Debug("aggregated index",
		"modules", len(a.state.allModuleNames),
		"reexporting_modules", len(a.state.moduleExports))

	result := &AnalysisResult{
		StorePaths:             storePaths(a.stores),
		Units:                  len(a.files),
		Modules:                len(a.state.allModuleNames),
		FilesWithUnusedImports: a.findUnusedImports(),
	}
	for _, file := range a.files {
		if file.unreadable {
			result.SkippedFiles = append(result.SkippedFiles, file.unit.MainFile)
		}
	}

	return result, nil
}

// extract runs the per-file extraction on a bounded worker pool. Every file
// writes only to its own sourceFile, so no locking is needed.
func (a *Analyzer) extract() error {
	var progress *tracker
	if a.config.Progress {
		progress = newTracker(os.Stderr, "Reading records", len(a.files))
		defer progress.Finish()
	}

	p := pool.New().WithErrors().WithMaxGoroutines(max(a.config.Workers, 1))
	for _, file := range a.files {
		p.Go(func() error {
			defer progress.Tick()
			return a.extractFile(file)
		})
	}
	return p.Wait()
}

// extractFile walks a record once, feeding every occurrence to the
// definition, import and reference extractors.
func (a *Analyzer) extractFile(file *sourceFile) error {
	if file.record == nil {
		return nil
	}

	lines, err := a.lines.lines(file.unit.MainFile)
	if err != nil {
		if a.config.UnreadableFiles == UnreadableFail {
			return fmt.Errorf("%w %s: %w", ErrUnreadableSource, file.unit.MainFile, err)
		}
		a.logger.Warn("skipping unreadable source file", "path", file.unit.MainFile, "error", err)
		file.unreadable = true
		file.definitions = findDefinitions(file.record)
		return nil
	}

	definitions := newDefinitionBuilder()
	imports := newImportExtractor(lines, a.config)
	references := newReferenceExtractor(lines)
	for occurrence := range file.record.Occurrences() {
		definitions.visit(occurrence)
		imports.visit(occurrence)
		references.visit(occurrence)
	}

	file.definitions = definitions.defs
	file.imports = imports.imports
	file.references = references.refs
	return nil
}

// aggregate merges per-file results into the cross-file analysis context.
func (a *Analyzer) aggregate() {
	for _, file := range a.files {
		module := file.unit.ModuleName
		a.state.allModuleNames.add(module)
		a.state.modulesToUnits[module] = append(a.state.modulesToUnits[module], file.unit)

		if file.definitions != nil {
			a.state.definitions[file.unit.MainFile] = file.definitions
		}

		if file.imports != nil && len(file.imports.Reexported) > 0 {
			exports, ok := a.state.moduleExports[module]
			if !ok {
				exports = newStringSet()
				a.state.moduleExports[module] = exports
			}
			for exported := range file.imports.Reexported {
				exports.add(exported)
			}
		}
	}
}
