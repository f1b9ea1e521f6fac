package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/abdul-hamid-achik/fspec/packages/config"
	"github.com/abdul-hamid-achik/fspec/packages/history"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [manifest]",
	Short: "Show pass rates and latency trends from recorded runs",
	Long: `Read the history database written by 'fspec run --history' and
summarize it. Without arguments, lists the manifests that have
recorded runs. With a manifest path, shows per-check pass rate,
flakiness (pass/fail flips between consecutive runs) and duration
percentiles.

Examples:
  fspec run checks.fspec.yaml --history .fspec-history.db
  fspec stats --history .fspec-history.db
  fspec stats checks.fspec.yaml --history .fspec-history.db`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: statsCommand,
}

var (
	statsHistoryFlag string
	statsNoColorFlag bool
)

func init() {
	statsCmd.Flags().StringVar(&statsHistoryFlag, "history", getEnvString("FSPEC_HISTORY", ""), "Path to the history database (env: FSPEC_HISTORY)")
	statsCmd.Flags().BoolVar(&statsNoColorFlag, "no-color", getEnvBool("FSPEC_NO_COLOR", false), "Disable colored output (env: FSPEC_NO_COLOR)")
}

func statsCommand(cmd *cobra.Command, args []string) error {
	if statsNoColorFlag {
		color.NoColor = true
	}

	historyPath := statsHistoryFlag
	if historyPath == "" {
		cfg, err := config.Load("")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			os.Exit(ExitConfigError)
		}
		historyPath = cfg.HistoryPath
	}
	if historyPath == "" {
		return fmt.Errorf("no history database configured (use --history or historyPath in the config)")
	}

	store, err := history.Open(historyPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(ExitConfigError)
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if len(args) == 0 {
		manifests, err := store.Manifests()
		if err != nil {
			return err
		}
		if len(manifests) == 0 {
			fmt.Fprintln(out, "No runs recorded yet.")
			return nil
		}
		fmt.Fprintf(out, "Manifests in %s:\n\n", historyPath)
		for _, m := range manifests {
			fmt.Fprintf(out, "  %s\n", m)
		}
		fmt.Fprintln(out, "\nRun 'fspec stats <manifest>' for details.")
		return nil
	}

	stats, err := store.Stats(args[0])
	if err != nil {
		return err
	}
	if stats.Runs == 0 {
		fmt.Fprintf(out, "No runs recorded for %s\n", args[0])
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	const timeFmt = "2006-01-02 15:04"
	fmt.Fprintf(out, "%s\n", bold(stats.Manifest))
	fmt.Fprintf(out, "%d runs between %s and %s\n\n",
		stats.Runs,
		stats.FirstRun.Local().Format(timeFmt),
		stats.LastRun.Local().Format(timeFmt))

	width := len("CHECK")
	for _, cs := range stats.Checks {
		if len(cs.Name) > width {
			width = len(cs.Name)
		}
	}

	fmt.Fprintf(out, "  %-*s  %5s  %6s  %6s  %9s  %9s  %9s  %9s\n",
		width, "CHECK", "RUNS", "PASS%", "FLIPS", "P50", "P95", "P99", "MAX")

	for _, cs := range stats.Checks {
		// Pad before coloring, ANSI escapes would break the columns.
		passPct := fmt.Sprintf("%5.1f%%", cs.PassRate*100)
		if cs.PassRate < 1 {
			passPct = red(passPct)
		}
		flips := fmt.Sprintf("%6d", cs.Flips)
		if cs.Flips > 1 {
			flips = yellow(flips)
		}
		fmt.Fprintf(out, "  %-*s  %5d  %s  %s  %9s  %9s  %9s  %9s\n",
			width, cs.Name, cs.Runs, passPct, flips,
			fmtLatency(cs.P50), fmtLatency(cs.P95), fmtLatency(cs.P99), fmtLatency(cs.Max))
	}

	return nil
}

func fmtLatency(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
	default:
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
}
