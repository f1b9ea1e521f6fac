package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "fspec",
	Short: "Declarative filesystem checks. No magic.",
	Long: `fspec asserts facts about the filesystem: files that must exist,
stay empty, match a pattern, or carry an exact size. Describe the
expected state in plain YAML manifests and run them from the CLI,
CI, or Go tests.`,
}

// usageError marks an error as invalid CLI usage so Execute can map
// it to the right exit code.
type usageError struct {
	err error
}

func (u usageError) Error() string { return u.err.Error() }
func (u usageError) Unwrap() error { return u.err }

// usageArgs wraps a positional args validator so its failures count
// as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		var uerr usageError
		if errors.As(err, &uerr) {
			os.Exit(ExitUsageError)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err: err}
	})

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(assertCmd)
	rootCmd.AddCommand(waitCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}
