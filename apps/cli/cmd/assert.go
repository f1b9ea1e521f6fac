package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/fspec/packages/check"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var assertCmd = &cobra.Command{
	Use:   "assert <op> <path> [args...]",
	Short: "Run a single check without a manifest",
	Long: `Run one filesystem check straight from the command line.

Operation names match the manifest ops (see 'fspec list --ops').
Most take just a path. file-contains, file-not-contains,
file-size-equals, file-mode, symlink-to, files-equal, files-not-equal
and file-matches-schema take one extra argument. file-json takes a
query and, optionally, an expected value.

Examples:
  fspec assert file-exists /etc/hosts
  fspec assert file-contains ./app.log "listening on"
  fspec assert file-mode ./deploy.sh 0755
  fspec assert file-json ./package.json name fspec
  fspec assert file-json ./package.json scripts.build`,
	Args: usageArgs(cobra.RangeArgs(2, 4)),
	RunE: assertCommand,
}

var (
	assertPathRemove string
	assertPathAdd    string
	assertNoColor    bool
)

func init() {
	assertCmd.Flags().StringVar(&assertPathRemove, "path-remove", "", "Pattern removed from paths in diagnostics")
	assertCmd.Flags().StringVar(&assertPathAdd, "path-add", "", "Replacement for the removed path pattern")
	assertCmd.Flags().BoolVar(&assertNoColor, "no-color", getEnvBool("FSPEC_NO_COLOR", false), "Disable colored output (env: FSPEC_NO_COLOR)")
}

func assertCommand(cmd *cobra.Command, args []string) error {
	if assertNoColor {
		color.NoColor = true
	}

	op := args[0]
	path := args[1]

	c := check.New(check.WithPathDisplay(assertPathRemove, assertPathAdd))
	result, err := evalAssert(c, op, path, args[2:])
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if result.Passed {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", green("✓"), op, path)
		return nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s %s\n", red("✗"), op, path)
	if result.Diagnostic != nil {
		for _, line := range strings.Split(result.Diagnostic.String(), "\n") {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", line)
		}
	}
	os.Exit(ExitCheckFailure)
	return nil
}

// evalAssert dispatches one CLI invocation to the checker. Arity and
// argument-type mistakes come back as usage errors, not check failures.
func evalAssert(c *check.Checker, op, path string, rest []string) (*check.Result, error) {
	usage := func(format string, args ...any) error {
		return usageError{fmt.Errorf(format, args...)}
	}
	need := func(n int, argNames string) error {
		if len(rest) != n {
			if argNames == "" {
				return usage("%s takes no arguments after the path", op)
			}
			return usage("usage: fspec assert %s <path> %s", op, argNames)
		}
		return nil
	}

	switch op {
	case check.OpFileExists:
		if err := need(0, ""); err != nil {
			return nil, err
		}
		return c.FileExists(path), nil
	case check.OpFileNotExists:
		if err := need(0, ""); err != nil {
			return nil, err
		}
		return c.FileNotExists(path), nil
	case check.OpFileEmpty:
		if err := need(0, ""); err != nil {
			return nil, err
		}
		return c.FileEmpty(path), nil
	case check.OpFileNotEmpty:
		if err := need(0, ""); err != nil {
			return nil, err
		}
		return c.FileNotEmpty(path), nil
	case check.OpFileContains:
		if err := need(1, "<pattern>"); err != nil {
			return nil, err
		}
		return c.FileContains(path, rest[0]), nil
	case check.OpFileNotContains:
		if err := need(1, "<pattern>"); err != nil {
			return nil, err
		}
		return c.FileNotContains(path, rest[0]), nil
	case check.OpFileSizeEquals:
		if err := need(1, "<size>"); err != nil {
			return nil, err
		}
		size, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return nil, usage("%s: size must be an integer, got %q", op, rest[0])
		}
		return c.FileSizeEquals(path, size), nil
	case check.OpDirExists:
		if err := need(0, ""); err != nil {
			return nil, err
		}
		return c.DirExists(path), nil
	case check.OpDirNotExists:
		if err := need(0, ""); err != nil {
			return nil, err
		}
		return c.DirNotExists(path), nil
	case check.OpSymlinkExists:
		if err := need(0, ""); err != nil {
			return nil, err
		}
		return c.SymlinkExists(path), nil
	case check.OpSymlinkTo:
		if err := need(1, "<target>"); err != nil {
			return nil, err
		}
		return c.SymlinkTo(path, rest[0]), nil
	case check.OpFileExecutable:
		if err := need(0, ""); err != nil {
			return nil, err
		}
		return c.FileExecutable(path), nil
	case check.OpFileMode:
		if err := need(1, "<mode>"); err != nil {
			return nil, err
		}
		return c.FileMode(path, rest[0]), nil
	case check.OpFilesEqual:
		if err := need(1, "<other>"); err != nil {
			return nil, err
		}
		return c.FilesEqual(path, rest[0]), nil
	case check.OpFilesNotEqual:
		if err := need(1, "<other>"); err != nil {
			return nil, err
		}
		return c.FilesNotEqual(path, rest[0]), nil
	case check.OpFileJSON:
		switch len(rest) {
		case 1:
			return c.FileJSONHas(path, rest[0]), nil
		case 2:
			return c.FileJSON(path, rest[0], rest[1]), nil
		default:
			return nil, usage("usage: fspec assert %s <path> <query> [expected]", op)
		}
	case check.OpFileMatchesSchema:
		if err := need(1, "<schema>"); err != nil {
			return nil, err
		}
		return c.FileMatchesSchema(path, rest[0]), nil
	default:
		return nil, usage("unknown operation %q (one of: %s)", op, strings.Join(check.Ops(), ", "))
	}
}
