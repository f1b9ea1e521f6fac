package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config and example manifest",
	Long: `Write an fspec.yaml config and an example.fspec.yaml manifest
into the current directory. Existing files are left alone unless
--force is given.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: initCommand,
}

var forceInit bool

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleManifest = `# Example fspec manifest. Run it with:
#
#   fspec run example.fspec.yaml
#
vars:
  dir: .

checks:
  - name: config present
    check: file-exists
    path: "{{dir}}/fspec.yaml"

  - name: config mentions output
    check: file-contains
    path: "{{dir}}/fspec.yaml"
    pattern: "output:"

  - name: no leftover lockfile
    check: file-not-exists
    path: "{{dir}}/.fspec.lock"
`

func initCommand(cmd *cobra.Command, args []string) error {
	configData, err := yaml.Marshal(map[string]any{
		"output":      "console",
		"concurrency": 5,
	})
	if err != nil {
		return err
	}

	files := []struct {
		name string
		data []byte
	}{
		{"fspec.yaml", configData},
		{"example.fspec.yaml", []byte(exampleManifest)},
	}

	if !forceInit {
		for _, f := range files {
			if _, err := os.Stat(f.name); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f.name)
			}
		}
	}

	for _, f := range files {
		if err := os.WriteFile(f.name, f.data, 0644); err != nil {
			return fmt.Errorf("cannot write %s: %w", f.name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", f.name)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nRun the example with: fspec run example.fspec.yaml\n")
	return nil
}
