package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/fspec/packages/config"
	"github.com/abdul-hamid-achik/fspec/packages/history"
	"github.com/abdul-hamid-achik/fspec/packages/manifest"
	"github.com/abdul-hamid-achik/fspec/packages/output"
	"github.com/abdul-hamid-achik/fspec/packages/runner"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file|directory>",
	Short: "Run filesystem checks from fspec manifests",
	Long: `Run filesystem checks defined in .fspec.yaml or .fspec.yml files.

Examples:
  fspec run checks.fspec.yaml
  fspec run ./deploy/ --tags smoke
  fspec run checks.fspec.yaml --name "config*"
  fspec run checks.fspec.yaml --output json --output-file results.json
  fspec run ./deploy/ --watch
  fspec run checks.fspec.yaml --history .fspec-history.db`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	configFlag      string
	nameFlag        string
	tagsFlag        string
	verboseFlag     int
	quietFlag       bool
	bailFlag        bool
	noColorFlag     bool
	outputFlag      string
	outputFileFlag  string
	parallelFlag    bool
	concurrencyFlag int
	watchFlag       bool
	envFileFlag     string
	pathRemoveFlag  string
	pathAddFlag     string
	historyFlag     string
)

func init() {
	// Core flags
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("FSPEC_CONFIG", ""), "Path to config file (env: FSPEC_CONFIG)")
	runCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only checks matching name pattern")
	runCmd.Flags().StringVarP(&tagsFlag, "tags", "t", getEnvString("FSPEC_TAGS", ""), "Run only checks with specified tags (comma-separated) (env: FSPEC_TAGS)")
	runCmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("FSPEC_ENV_FILE", ""), "Path to .env file loaded before variable resolution (env: FSPEC_ENV_FILE)")

	// Output flags
	runCmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output")
	runCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", getEnvBool("FSPEC_QUIET", false), "Suppress all output except errors (env: FSPEC_QUIET)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("FSPEC_NO_COLOR", false), "Disable colored output (env: FSPEC_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("FSPEC_OUTPUT", "console"), "Output format: console, json, junit, tap (env: FSPEC_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("FSPEC_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: FSPEC_OUTPUT_FILE)")
	runCmd.Flags().StringVar(&pathRemoveFlag, "path-remove", getEnvString("FSPEC_PATH_REMOVE", ""), "Pattern removed from paths in diagnostics (env: FSPEC_PATH_REMOVE)")
	runCmd.Flags().StringVar(&pathAddFlag, "path-add", getEnvString("FSPEC_PATH_ADD", ""), "Replacement for the removed path pattern (env: FSPEC_PATH_ADD)")

	// Execution flags
	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("FSPEC_BAIL", false), "Stop on first failure (env: FSPEC_BAIL)")
	runCmd.Flags().BoolVarP(&parallelFlag, "parallel", "p", getEnvBool("FSPEC_PARALLEL", false), "Run checks in parallel (env: FSPEC_PARALLEL)")
	runCmd.Flags().IntVar(&concurrencyFlag, "concurrency", getEnvInt("FSPEC_CONCURRENCY", 5), "Number of concurrent checks when running in parallel (env: FSPEC_CONCURRENCY)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch manifests and checked paths, re-run on changes")
	runCmd.Flags().StringVar(&historyFlag, "history", getEnvString("FSPEC_HISTORY", ""), "Record results to a history database (env: FSPEC_HISTORY)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// flagOverrides builds a config carrying only the settings the user
// set explicitly, via flag or FSPEC_* environment, so file config
// wins everywhere else.
func flagOverrides(cmd *cobra.Command) *config.Config {
	o := &config.Config{}
	flags := cmd.Flags()

	if flags.Changed("output") || os.Getenv("FSPEC_OUTPUT") != "" {
		o.Output = outputFlag
	}
	if flags.Changed("concurrency") || os.Getenv("FSPEC_CONCURRENCY") != "" {
		o.Concurrency = concurrencyFlag
	}
	if flags.Changed("history") || os.Getenv("FSPEC_HISTORY") != "" {
		o.HistoryPath = historyFlag
	}
	if flags.Changed("env-file") || os.Getenv("FSPEC_ENV_FILE") != "" {
		o.EnvFile = envFileFlag
	}
	if flags.Changed("parallel") || os.Getenv("FSPEC_PARALLEL") != "" {
		o.Parallel = config.BoolPtr(parallelFlag)
	}
	if flags.Changed("bail") || os.Getenv("FSPEC_BAIL") != "" {
		o.Bail = config.BoolPtr(bailFlag)
	}
	if flags.Changed("verbose") {
		o.Verbose = config.BoolPtr(verboseFlag > 0)
	}
	if flags.Changed("no-color") || os.Getenv("FSPEC_NO_COLOR") != "" {
		o.NoColor = config.BoolPtr(noColorFlag)
	}
	if flags.Changed("path-remove") || flags.Changed("path-add") ||
		os.Getenv("FSPEC_PATH_REMOVE") != "" || os.Getenv("FSPEC_PATH_ADD") != "" {
		o.PathDisplay = &config.PathDisplay{Remove: pathRemoveFlag, Add: pathAddFlag}
	}

	return o
}

func runCommand(cmd *cobra.Command, args []string) error {
	fileConfig, err := config.Load(configFlag)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(ExitConfigError)
	}
	cfg := fileConfig.Merge(flagOverrides(cmd))

	// Setup output writer
	var outWriter *os.File
	if outputFileFlag != "" {
		outWriter, err = os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer outWriter.Close()
	}

	formatter := newFormatter(cfg, outWriter)
	formatter.FormatHeader(version)

	files, err := collectFiles(args)
	if err != nil {
		reportError(formatter, err)
		return err
	}

	if len(files) == 0 {
		err := fmt.Errorf("no .fspec.yaml or .fspec.yml files found")
		reportError(formatter, err)
		return err
	}

	var tagsFilter []string
	if tagsFlag != "" {
		for _, t := range strings.Split(tagsFlag, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				tagsFilter = append(tagsFilter, t)
			}
		}
	}

	remove, add := cfg.GetPathDisplay()
	r := runner.NewRunner(&runner.Config{
		PathRemove:  remove,
		PathAdd:     add,
		NameFilter:  nameFlag,
		TagsFilter:  tagsFilter,
		Bail:        cfg.GetBail(),
		Parallel:    cfg.GetParallel(),
		Concurrency: cfg.Concurrency,
		EnvFile:     cfg.EnvFile,
		Warn:        warnToStderr,
	})

	var store *history.Store
	if cfg.HistoryPath != "" {
		store, err = history.Open(cfg.HistoryPath)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			os.Exit(ExitConfigError)
		}
		defer store.Close()
	}

	// Run all manifests once, returning totals for exit code and flush
	runChecks := func() (failed, fileErrors int, duration time.Duration) {
		start := time.Now()

		for _, file := range files {
			result, err := r.RunFile(file)
			if err != nil {
				reportError(formatter, err)
				fileErrors++
				if cfg.GetBail() {
					break
				}
				continue
			}

			formatter.FormatResult(result)
			failed += result.Failed

			if store != nil {
				if _, err := store.Record(result); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to record run: %v\n", err)
				}
			}

			if cfg.GetBail() && result.Failed > 0 {
				break
			}
		}

		return failed, fileErrors, time.Since(start)
	}

	totalFailed, fileErrors, totalDuration := runChecks()

	// Flush output for formatters that accumulate results
	if flushable, ok := formatter.(Flushable); ok {
		if err := flushable.Flush(totalDuration); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}

	// If watch mode is not enabled, exit normally
	if !watchFlag {
		if totalFailed > 0 {
			os.Exit(ExitCheckFailure)
		}
		if fileErrors > 0 {
			os.Exit(ExitParseError)
		}
		return nil
	}

	// Watch mode: watch manifest directories and the directories of
	// every checked path, re-running on changes
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	watchDir := func(dir string) {
		if dir == "" || watched[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to watch %s: %v\n", dir, err)
		}
		watched[dir] = true
	}

	for _, file := range files {
		watchDir(filepath.Dir(file))
	}
	for _, dir := range checkedDirs(files) {
		watchDir(dir)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				// Debounce: reset timer on each event
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\n\nChanged: %s\nRe-running checks...\n\n", event.Name)

					// Accumulating formatters need fresh state per run
					formatter = newFormatter(cfg, nil)

					_, _, duration := runChecks()

					if flushable, ok := formatter.(Flushable); ok {
						_ = flushable.Flush(duration)
					}

					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			reportError(formatter, fmt.Errorf("watcher error: %w", err))
		}
	}
}

func newFormatter(cfg *config.Config, outWriter *os.File) Formatter {
	switch strings.ToLower(cfg.Output) {
	case "json":
		opts := []output.JSONOption{}
		if outWriter != nil {
			opts = append(opts, output.JSONWithWriter(outWriter))
		}
		return output.NewJSONFormatter(opts...)
	case "junit":
		opts := []output.JUnitOption{}
		if outWriter != nil {
			opts = append(opts, output.JUnitWithWriter(outWriter))
		}
		return output.NewJUnitFormatter(opts...)
	case "tap":
		opts := []output.TAPOption{}
		if outWriter != nil {
			opts = append(opts, output.TAPWithWriter(outWriter))
		}
		return output.NewTAPFormatter(opts...)
	default: // "console"
		consoleOpts := []output.ConsoleOption{
			output.WithVerbose(cfg.GetVerbose()),
			output.WithNoColor(cfg.GetNoColor() || quietFlag),
		}
		if quietFlag {
			consoleOpts = append(consoleOpts, output.WithWriter(io.Discard))
		} else if outWriter != nil {
			consoleOpts = append(consoleOpts, output.WithWriter(outWriter))
		}
		return output.NewConsoleFormatter(consoleOpts...)
	}
}

// reportError routes errors to the formatter, or to stderr when the
// formatter is silenced by --quiet.
func reportError(f Formatter, err error) {
	if quietFlag {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	f.FormatError(err)
}

func warnToStderr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isManifestFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			if isManifestFile(arg) {
				files = append(files, arg)
			}
		}
	}

	return files, nil
}

// isManifestFile reports whether path names a check manifest. The
// hidden config names are excluded: a .fspec.yaml at the project root
// configures fspec, it does not describe checks.
func isManifestFile(path string) bool {
	base := filepath.Base(path)
	if base == ".fspec.yaml" || base == ".fspec.yml" {
		return false
	}
	return strings.HasSuffix(base, ".fspec.yaml") || strings.HasSuffix(base, ".fspec.yml")
}

// checkedDirs returns the directories of every path the manifests
// check, so watch mode reacts when checked files change.
func checkedDirs(files []string) []string {
	var dirs []string
	for _, file := range files {
		doc, err := manifest.ParseFile(file)
		if err != nil {
			continue
		}
		resolver := manifest.NewResolver(doc.Vars)
		for _, c := range doc.Checks {
			rc := resolver.ResolveCheck(c)
			for _, p := range []string{rc.Path, rc.Other, rc.Schema} {
				if p == "" {
					continue
				}
				if !filepath.IsAbs(p) {
					p = filepath.Join(doc.Dir(), p)
				}
				dirs = append(dirs, filepath.Dir(p))
			}
		}
	}
	return dirs
}
