package main

import (
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/viper"
)

// Configuration keys. The first four keep the names used by existing
// unused-imports JSON configuration files.
const (
	keyIgnoredFileRegex   = "ignored-file-regex"
	keyIgnoredModuleRegex = "ignored-module-regex"
	keyAlwaysKeepImports  = "always-keep-imports"
	keyReporter           = "reporter"
	keyIgnoredFileGlobs   = "ignored-file-globs"
	keyDuplicateUnits     = "duplicate-units"
	keyUnreadableFiles    = "unreadable-files"
	keyWorkers            = "workers"
	keyIgnoreImportMarker = "ignore-import-marker"
	keyReexportMarker     = "reexport-marker"
	keyVerbose            = "verbose"
	keyProgress           = "progress"
)

const (
	defaultIgnoreImportMarker = `// *@ignore-import$`
	defaultReexportMarker     = "@_exported"
)

// DuplicatePolicy decides what happens when two units share a main file.
type DuplicatePolicy string

const (
	DuplicateKeepFirst DuplicatePolicy = "first"
	DuplicateError     DuplicatePolicy = "error"
)

// UnreadablePolicy decides what happens when a source file can't be read.
type UnreadablePolicy string

const (
	UnreadableFail UnreadablePolicy = "fail"
	UnreadableSkip UnreadablePolicy = "skip"
)

// Config holds the configuration for the analysis
type Config struct {
	StorePaths       []string
	WorkingDirectory string

	IgnoredFileRegex   *regexp.Regexp
	IgnoredModuleRegex *regexp.Regexp
	IgnoredFileGlobs   []glob.Glob
	AlwaysKeepImports  stringSet

	Reporter        string
	DuplicateUnits  DuplicatePolicy
	UnreadableFiles UnreadablePolicy
	Workers         int

	IgnoreImportMarker *regexp.Regexp
	ReexportMarker     string

	Verbose  bool
	Progress bool
}

// DefaultConfig ignores nothing, keeps nothing extra and reports sed
// commands.
func DefaultConfig() *Config {
	return &Config{
		AlwaysKeepImports:  newStringSet(),
		Reporter:           reporterSed,
		DuplicateUnits:     DuplicateKeepFirst,
		UnreadableFiles:    UnreadableFail,
		Workers:            runtime.NumCPU() * 2,
		IgnoreImportMarker: regexp.MustCompile(defaultIgnoreImportMarker),
		ReexportMarker:     defaultReexportMarker,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyReporter, reporterSed)
	v.SetDefault(keyDuplicateUnits, string(DuplicateKeepFirst))
	v.SetDefault(keyUnreadableFiles, string(UnreadableFail))
	v.SetDefault(keyWorkers, 0)
	v.SetDefault(keyIgnoreImportMarker, defaultIgnoreImportMarker)
	v.SetDefault(keyReexportMarker, defaultReexportMarker)
}

// loadConfig builds a Config from every source viper knows about.
func loadConfig(v *viper.Viper) (*Config, error) {
	config := DefaultConfig()
	config.Verbose = v.GetBool(keyVerbose)
	config.Progress = v.GetBool(keyProgress)

	var err error
	if config.IgnoredFileRegex, err = compileWholeMatch(v.GetString(keyIgnoredFileRegex)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, keyIgnoredFileRegex, err)
	}
	if config.IgnoredModuleRegex, err = compileWholeMatch(v.GetString(keyIgnoredModuleRegex)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, keyIgnoredModuleRegex, err)
	}

	for _, pattern := range v.GetStringSlice(keyIgnoredFileGlobs) {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern, filepath.Separator)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: invalid glob %q: %w", ErrInvalidConfig, keyIgnoredFileGlobs, pattern, err)
		}
		config.IgnoredFileGlobs = append(config.IgnoredFileGlobs, g)
	}

	for _, module := range v.GetStringSlice(keyAlwaysKeepImports) {
		if module = strings.TrimSpace(module); module != "" {
			config.AlwaysKeepImports.add(module)
		}
	}

	if reporter := strings.TrimSpace(v.GetString(keyReporter)); reporter != "" {
		if _, err := newReporter(reporter); err != nil {
			return nil, err
		}
		config.Reporter = reporter
	}

	switch policy := DuplicatePolicy(v.GetString(keyDuplicateUnits)); policy {
	case DuplicateKeepFirst, DuplicateError:
		config.DuplicateUnits = policy
	case "":
	default:
		return nil, fmt.Errorf("%w: %s must be %q or %q, got %q",
			ErrInvalidConfig, keyDuplicateUnits, DuplicateKeepFirst, DuplicateError, policy)
	}

	switch policy := UnreadablePolicy(v.GetString(keyUnreadableFiles)); policy {
	case UnreadableFail, UnreadableSkip:
		config.UnreadableFiles = policy
	case "":
	default:
		return nil, fmt.Errorf("%w: %s must be %q or %q, got %q",
			ErrInvalidConfig, keyUnreadableFiles, UnreadableFail, UnreadableSkip, policy)
	}

	if workers := v.GetInt(keyWorkers); workers > 0 {
		config.Workers = workers
	} else if workers < 0 {
		return nil, fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, keyWorkers)
	}

	if marker := v.GetString(keyIgnoreImportMarker); marker != "" {
		re, err := regexp.Compile(marker)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, keyIgnoreImportMarker, err)
		}
		config.IgnoreImportMarker = re
	}
	if marker := v.GetString(keyReexportMarker); marker != "" {
		config.ReexportMarker = marker
	}

	return config, nil
}

// compileWholeMatch compiles a pattern that must match an entire string.
// An empty pattern yields a nil regexp, which matches nothing.
func compileWholeMatch(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(`^(?:` + pattern + `)$`)
}

// shouldIgnoreFile reports whether a file is excluded from reporting.
func (c *Config) shouldIgnoreFile(path string) bool {
	if c.IgnoredFileRegex != nil && c.IgnoredFileRegex.MatchString(path) {
		return true
	}
	for _, g := range c.IgnoredFileGlobs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// shouldIgnoreModule reports whether files of a module are excluded from
// reporting.
func (c *Config) shouldIgnoreModule(module string) bool {
	return c.IgnoredModuleRegex != nil && c.IgnoredModuleRegex.MatchString(module)
}

// isConfigFile reports whether a positional argument names a configuration
// file rather than an index store.
func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	default:
		return false
	}
}
