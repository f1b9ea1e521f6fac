package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/fspec/packages/check"
	"github.com/abdul-hamid-achik/fspec/packages/manifest"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>",
	Short: "List checks in manifests without running them",
	Long: `List every check the given manifests define, with operation,
tags and skip markers.

Examples:
  fspec list checks.fspec.yaml
  fspec list ./deploy/ --tags smoke
  fspec list --ops`,
	Args: cobra.ArbitraryArgs,
	RunE: listCommand,
}

var (
	listTagsFlag    string
	listOpsFlag     bool
	listNoColorFlag bool
)

func init() {
	listCmd.Flags().StringVarP(&listTagsFlag, "tags", "t", "", "Only list checks with specified tags (comma-separated)")
	listCmd.Flags().BoolVar(&listOpsFlag, "ops", false, "List the supported operations instead")
	listCmd.Flags().BoolVar(&listNoColorFlag, "no-color", getEnvBool("FSPEC_NO_COLOR", false), "Disable colored output (env: FSPEC_NO_COLOR)")
}

func listCommand(cmd *cobra.Command, args []string) error {
	if listOpsFlag {
		for _, op := range check.Ops() {
			fmt.Fprintln(cmd.OutOrStdout(), op)
		}
		return nil
	}

	if len(args) == 0 {
		return usageError{fmt.Errorf("requires a manifest file or directory (or --ops)")}
	}

	if listNoColorFlag {
		color.NoColor = true
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .fspec.yaml or .fspec.yml files found")
	}

	var tagsFilter []string
	if listTagsFlag != "" {
		for _, t := range strings.Split(listTagsFlag, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				tagsFilter = append(tagsFilter, t)
			}
		}
	}

	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	total := 0
	for _, file := range files {
		doc, err := manifest.ParseFile(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			continue
		}

		var checks []*manifest.Check
		for _, c := range doc.Checks {
			if hasAnyListedTag(c, tagsFilter) {
				checks = append(checks, c)
			}
		}
		if len(checks) == 0 {
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", bold(file))
		for _, c := range checks {
			line := fmt.Sprintf("  %s %s", c.Name, cyan("("+c.Check+")"))
			if len(c.Tags) > 0 {
				line += " " + yellow("["+strings.Join(c.Tags, ", ")+"]")
			}
			if c.Skip != "" {
				line += " " + yellow("skip: "+c.Skip)
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			total++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d checks\n", total)
	return nil
}

func hasAnyListedTag(c *manifest.Check, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if c.HasTag(t) {
			return true
		}
	}
	return false
}
