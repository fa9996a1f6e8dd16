package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version information (set by build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"

	// CLI flags
	configFile string
)

const workspaceDirectoryEnv = "BUILD_WORKSPACE_DIRECTORY"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "unused-imports [flags] [config-file] <index-store>...",
	Short: "Find module imports nothing in the file uses",
	Long: `unused-imports reads compiler index snapshots and reports, per source file,
the module imports that no symbol reference in that file depends on.

Re-exported modules are followed transitively, @_exported imports are never
reported, and imports marked with "// @ignore-import" are left alone.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Example: `  # Print sed commands that delete unused imports
  unused-imports ./index-snapshot

  # Use a configuration file (legacy positional form)
  unused-imports unused-imports.json ./index-snapshot

  # Report as JSON for tooling
  unused-imports --reporter json ./index.db

  # Ignore generated files and keep some imports regardless
  unused-imports --ignore-file-regex '.*/Generated/.*' --keep Foundation ./index.db`,
	Args:          cobra.MinimumNArgs(1),
	RunE:          runAnalysis,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .unused-imports.{yaml,json,toml} in the working or home directory)")
	rootCmd.PersistentFlags().BoolP(keyVerbose, "v", false, "verbose output")

	// Analysis flags
	rootCmd.Flags().String(keyReporter, reporterSed, "output format: sed, json or text")
	rootCmd.Flags().String("ignore-file-regex", "", "skip files whose full path matches this regular expression")
	rootCmd.Flags().String("ignore-module-regex", "", "skip files of modules whose name matches this regular expression")
	rootCmd.Flags().StringSlice("ignore-file-glob", nil, "skip files whose full path matches these glob patterns")
	rootCmd.Flags().StringSlice("keep", nil, "module names that are never reported as unused")
	rootCmd.Flags().String(keyDuplicateUnits, string(DuplicateKeepFirst), "units sharing a main file: first or error")
	rootCmd.Flags().String(keyUnreadableFiles, string(UnreadableFail), "unreadable source files: fail or skip")
	rootCmd.Flags().Int(keyWorkers, 0, "number of records read in parallel (default 2x CPUs)")
	rootCmd.Flags().Bool(keyProgress, false, "show a progress bar on stderr")

	// Bind flags to viper
	viper.BindPFlag(keyVerbose, rootCmd.PersistentFlags().Lookup(keyVerbose))
	viper.BindPFlag(keyReporter, rootCmd.Flags().Lookup(keyReporter))
	viper.BindPFlag(keyIgnoredFileRegex, rootCmd.Flags().Lookup("ignore-file-regex"))
	viper.BindPFlag(keyIgnoredModuleRegex, rootCmd.Flags().Lookup("ignore-module-regex"))
	viper.BindPFlag(keyIgnoredFileGlobs, rootCmd.Flags().Lookup("ignore-file-glob"))
	viper.BindPFlag(keyAlwaysKeepImports, rootCmd.Flags().Lookup("keep"))
	viper.BindPFlag(keyDuplicateUnits, rootCmd.Flags().Lookup(keyDuplicateUnits))
	viper.BindPFlag(keyUnreadableFiles, rootCmd.Flags().Lookup(keyUnreadableFiles))
	viper.BindPFlag(keyWorkers, rootCmd.Flags().Lookup(keyWorkers))
	viper.BindPFlag(keyProgress, rootCmd.Flags().Lookup(keyProgress))
	setDefaults(viper.GetViper())

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(convertCmd)
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".unused-imports")
	}

	// Environment variable support
	viper.SetEnvPrefix("UNUSED_IMPORTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err == nil && viper.GetBool(keyVerbose) {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	// Legacy form: a configuration file may precede the index stores.
	if isConfigFile(args[0]) {
		if info, err := os.Stat(args[0]); err == nil && info.Mode().IsRegular() {
			viper.SetConfigFile(args[0])
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("%w: reading %s: %w", ErrInvalidConfig, args[0], err)
			}
			args = args[1:]
		}
	}
	if len(args) == 0 {
		return fmt.Errorf("no index store given")
	}

	config, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	// Under `bazel run` the process starts in the runfiles tree.
	if dir := os.Getenv(workspaceDirectoryEnv); dir != "" {
		if err := os.Chdir(dir); err != nil {
			return fmt.Errorf("changing to %s: %w", dir, err)
		}
	}
	config.WorkingDirectory, err = os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	config.StorePaths = args

	logger := newLogger(cmd.ErrOrStderr(), config.Verbose)
	logger.Debug("analyzing index stores", "stores", config.StorePaths, "reporter", config.Reporter)

	stores, err := openStores(config.StorePaths)
	if err != nil {
		return err
	}
	defer closeStores(stores)

	analyzer := NewAnalyzer(config, logger, stores)
	result, err := analyzer.Analyze()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	logger.Debug("analysis finished",
		"units", result.Units,
		"modules", result.Modules,
		"files_with_unused_imports", len(result.FilesWithUnusedImports),
		"skipped_files", len(result.SkippedFiles))

	reporter, err := newReporter(config.Reporter)
	if err != nil {
		return err
	}
	if len(result.FilesWithUnusedImports) == 0 && config.Reporter != reporterText {
		return nil
	}
	return reporter.Report(cmd.OutOrStdout(), result.FilesWithUnusedImports)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print detailed version information including build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "unused-imports %s\n", version)
		fmt.Fprintf(out, "Commit: %s\n", commit)
		fmt.Fprintf(out, "Built: %s\n", date)
		fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
	},
}

// Config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  "Manage unused-imports configuration settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current configuration values from all sources",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Current configuration:")
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
		fmt.Fprintf(out, "Reporter: %s\n", viper.GetString(keyReporter))
		fmt.Fprintf(out, "Ignored file regex: %q\n", viper.GetString(keyIgnoredFileRegex))
		fmt.Fprintf(out, "Ignored file globs: %v\n", viper.GetStringSlice(keyIgnoredFileGlobs))
		fmt.Fprintf(out, "Ignored module regex: %q\n", viper.GetString(keyIgnoredModuleRegex))
		fmt.Fprintf(out, "Always keep imports: %v\n", viper.GetStringSlice(keyAlwaysKeepImports))
		fmt.Fprintf(out, "Duplicate units: %s\n", viper.GetString(keyDuplicateUnits))
		fmt.Fprintf(out, "Unreadable files: %s\n", viper.GetString(keyUnreadableFiles))
		fmt.Fprintf(out, "Verbose: %v\n", viper.GetBool(keyVerbose))
	},
}

const defaultConfigFile = `# unused-imports configuration file

# Output format: sed, json or text
reporter: sed

# Files and modules to skip (regular expressions matched against the whole
# path or module name)
# ignored-file-regex: ".*/Generated/.*"
# ignored-module-regex: ".*Tests"

# Glob patterns for files to skip
ignored-file-globs: []

# Imports that are never reported
always-keep-imports: []

# Policies
duplicate-units: first     # or "error"
unreadable-files: fail     # or "skip"
`

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  "Create a default configuration file in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := filepath.Join(".", ".unused-imports.yaml")

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists at %s", configPath)
		}

		if err := os.WriteFile(configPath, []byte(defaultConfigFile), 0o644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
