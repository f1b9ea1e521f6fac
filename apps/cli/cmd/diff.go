package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/abdul-hamid-achik/fspec/packages/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <before.json> <after.json>",
	Short: "Compare two JSON run reports",
	Long: `Compare two reports produced by 'fspec run --output json' and
show what changed: checks that started failing, checks that
recovered, and checks that appeared or went away.

Exits 1 when any check is newly failing.

Examples:
  fspec run checks.fspec.yaml -o json --output-file before.json
  fspec run checks.fspec.yaml -o json --output-file after.json
  fspec diff before.json after.json`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: diffCommand,
}

var diffNoColorFlag bool

func init() {
	diffCmd.Flags().BoolVar(&diffNoColorFlag, "no-color", getEnvBool("FSPEC_NO_COLOR", false), "Disable colored output (env: FSPEC_NO_COLOR)")
}

func diffCommand(cmd *cobra.Command, args []string) error {
	if diffNoColorFlag {
		color.NoColor = true
	}

	before, err := loadReport(args[0])
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(ExitParseError)
	}
	after, err := loadReport(args[1])
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(ExitParseError)
	}

	beforeChecks := indexReport(before)
	afterChecks := indexReport(after)

	var newlyFailing, recovered, stillFailing, added, removed []string

	for k, a := range afterChecks {
		b, seen := beforeChecks[k]
		label := k
		if !a.Passed && a.Diagnostic != nil && a.Diagnostic.Title != "" {
			label = fmt.Sprintf("%s (%s)", k, a.Diagnostic.Title)
		}
		switch {
		case !seen:
			added = append(added, label)
		case b.Passed && !a.Passed:
			newlyFailing = append(newlyFailing, label)
		case !b.Passed && a.Passed:
			recovered = append(recovered, label)
		case !a.Passed:
			stillFailing = append(stillFailing, label)
		}
	}
	for k := range beforeChecks {
		if _, seen := afterChecks[k]; !seen {
			removed = append(removed, k)
		}
	}

	for _, section := range [][]string{newlyFailing, recovered, stillFailing, added, removed} {
		sort.Strings(section)
	}

	out := cmd.OutOrStdout()
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	printSection := func(header, glyph string, entries []string) {
		if len(entries) == 0 {
			return
		}
		fmt.Fprintf(out, "%s (%d):\n", header, len(entries))
		for _, e := range entries {
			fmt.Fprintf(out, "  %s %s\n", glyph, e)
		}
		fmt.Fprintln(out)
	}

	printSection("Newly failing", red("✗"), newlyFailing)
	printSection("Recovered", green("✓"), recovered)
	printSection("Still failing", red("✗"), stillFailing)
	printSection("Added", yellow("+"), added)
	printSection("Removed", yellow("-"), removed)

	if len(newlyFailing)+len(recovered)+len(stillFailing)+len(added)+len(removed) == 0 {
		fmt.Fprintln(out, "No changes.")
		return nil
	}

	fmt.Fprintf(out, "%d newly failing, %d recovered, %d still failing, %d added, %d removed\n",
		len(newlyFailing), len(recovered), len(stillFailing), len(added), len(removed))

	if len(newlyFailing) > 0 {
		os.Exit(ExitCheckFailure)
	}
	return nil
}

func loadReport(path string) (*output.JSONOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read report: %w", err)
	}
	var report output.JSONOutput
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &report, nil
}

// indexReport keys non-skipped checks by file::name. Skipped checks
// say nothing about the filesystem, so they do not participate.
func indexReport(r *output.JSONOutput) map[string]output.JSONCheck {
	m := make(map[string]output.JSONCheck, len(r.Checks))
	for _, c := range r.Checks {
		if c.Skipped {
			continue
		}
		m[c.File+"::"+c.Name] = c
	}
	return m
}
