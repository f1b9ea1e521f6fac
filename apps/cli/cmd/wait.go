package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abdul-hamid-achik/fspec/packages/output"
	"github.com/abdul-hamid-achik/fspec/packages/runner"
	"github.com/spf13/cobra"
)

var waitCmd = &cobra.Command{
	Use:   "wait <file|directory>",
	Short: "Poll checks until they pass or a timeout expires",
	Long: `Run checks repeatedly until every one passes.

Useful when another process is still producing the files under check:
deploys unpacking artifacts, build pipelines, services writing
readiness markers. The timeout bounds the whole invocation, not each
file.

Examples:
  fspec wait deploy.fspec.yaml
  fspec wait deploy.fspec.yaml --timeout 2m --interval 1s
  fspec wait ./deploy/ --timeout 30s`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: waitCommand,
}

var (
	waitTimeoutFlag  string
	waitIntervalFlag string
	waitVerboseFlag  bool
	waitNoColorFlag  bool
)

func init() {
	waitCmd.Flags().StringVar(&waitTimeoutFlag, "timeout", "30s", "Give up after this long (e.g. 30s, 2m)")
	waitCmd.Flags().StringVar(&waitIntervalFlag, "interval", "500ms", "Delay between attempts (e.g. 500ms, 1s)")
	waitCmd.Flags().BoolVarP(&waitVerboseFlag, "verbose", "v", false, "Verbose output")
	waitCmd.Flags().BoolVar(&waitNoColorFlag, "no-color", getEnvBool("FSPEC_NO_COLOR", false), "Disable colored output (env: FSPEC_NO_COLOR)")
}

func waitCommand(cmd *cobra.Command, args []string) error {
	timeout, err := time.ParseDuration(waitTimeoutFlag)
	if err != nil {
		return usageError{fmt.Errorf("invalid --timeout %q: %w", waitTimeoutFlag, err)}
	}
	interval, err := time.ParseDuration(waitIntervalFlag)
	if err != nil {
		return usageError{fmt.Errorf("invalid --interval %q: %w", waitIntervalFlag, err)}
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .fspec.yaml or .fspec.yml files found")
	}

	formatter := output.NewConsoleFormatter(
		output.WithVerbose(waitVerboseFlag),
		output.WithNoColor(waitNoColorFlag),
	)
	formatter.FormatHeader(version)

	r := runner.NewRunner(&runner.Config{Warn: warnToStderr})

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	wcfg := &runner.WaitConfig{Timeout: timeout, Interval: interval}

	var checksFailed, parseErrors int

	for _, file := range files {
		result, err := r.WaitFile(ctx, file, wcfg)
		if result != nil {
			formatter.FormatResult(result)
		}
		switch {
		case err == nil:
			// green
		case result != nil:
			// Timed out with checks still failing; the last result
			// above shows which ones.
			formatter.FormatError(err)
			checksFailed += result.Failed
		case errors.Is(err, context.DeadlineExceeded):
			formatter.FormatError(err)
			checksFailed++
		default:
			formatter.FormatError(err)
			parseErrors++
		}
	}

	if checksFailed > 0 {
		os.Exit(ExitCheckFailure)
	}
	if parseErrors > 0 {
		os.Exit(ExitParseError)
	}
	return nil
}
