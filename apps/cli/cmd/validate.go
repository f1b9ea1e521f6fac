package cmd

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/fspec/packages/manifest"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Validate manifests without running checks",
	Long: `Parse manifests and report structural problems: unknown
operations, missing or conflicting arguments, duplicate check names.
Nothing on the filesystem is touched.

Examples:
  fspec validate checks.fspec.yaml
  fspec validate ./deploy/`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: validateCommand,
}

var validateNoColorFlag bool

func init() {
	validateCmd.Flags().BoolVar(&validateNoColorFlag, "no-color", getEnvBool("FSPEC_NO_COLOR", false), "Disable colored output (env: FSPEC_NO_COLOR)")
}

func validateCommand(cmd *cobra.Command, args []string) error {
	if validateNoColorFlag {
		color.NoColor = true
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .fspec.yaml or .fspec.yml files found")
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	invalid := 0
	for _, file := range files {
		doc, err := manifest.ParseFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", red(fmt.Sprintf("Error in %s:", file)), err)
			invalid++
			continue
		}

		if errs := doc.Validate(); len(errs) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", red(fmt.Sprintf("Error in %s:", file)))
			for _, e := range errs {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", e.Error())
			}
			invalid++
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("Valid:"), file)
	}

	if invalid > 0 {
		os.Exit(ExitParseError)
	}
	return nil
}
