package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/fspec/packages/check"
	"github.com/abdul-hamid-achik/fspec/packages/manifest"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <directory>",
	Short: "Generate a manifest from a directory's current state",
	Long: `Walk a directory and emit a manifest asserting what is there
now: file-exists and file-size-equals for regular files, symlink-to
for symlinks, dir-exists for empty directories. Paths are written
against a {{root}} variable, so the manifest keeps working when the
tree moves and {{root}} is overridden.

Examples:
  fspec snapshot ./dist -o dist.fspec.yaml
  fspec snapshot /etc/myapp`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: snapshotCommand,
}

var (
	snapshotOutFlag   string
	snapshotSizesFlag bool
)

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOutFlag, "output", "o", "", "Write the manifest to a file (default: stdout)")
	snapshotCmd.Flags().BoolVar(&snapshotSizesFlag, "sizes", true, "Record file sizes (disable with --sizes=false)")
}

func snapshotCommand(cmd *cobra.Command, args []string) error {
	root := args[0]
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return usageError{fmt.Errorf("%s is not a directory", root)}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	// The output file must not snapshot itself when it lands inside
	// the tree being walked.
	var absOut string
	if snapshotOutFlag != "" {
		absOut, err = filepath.Abs(snapshotOutFlag)
		if err != nil {
			return err
		}
	}

	doc, err := snapshotTree(absRoot, absOut, snapshotSizesFlag)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	if snapshotOutFlag == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(snapshotOutFlag, data, 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", snapshotOutFlag, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s (%d checks)\n", snapshotOutFlag, len(doc.Checks))
	return nil
}

func snapshotTree(absRoot, absOut string, sizes bool) (*manifest.Document, error) {
	doc := &manifest.Document{Vars: map[string]string{"root": absRoot}}

	err := filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if absOut != "" && path == absOut {
			return nil
		}

		ref := "{{root}}/" + filepath.ToSlash(rel)

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			doc.Checks = append(doc.Checks, &manifest.Check{
				Name:   rel + " symlink",
				Check:  check.OpSymlinkTo,
				Path:   ref,
				Target: target,
			})
		case info.IsDir():
			entries, err := os.ReadDir(path)
			if err != nil {
				return err
			}
			// Non-empty directories are implied by their contents.
			if len(entries) == 0 {
				doc.Checks = append(doc.Checks, &manifest.Check{
					Name:  rel + " exists",
					Check: check.OpDirExists,
					Path:  ref,
				})
			}
		case info.Mode().IsRegular():
			doc.Checks = append(doc.Checks, &manifest.Check{
				Name:  rel + " exists",
				Check: check.OpFileExists,
				Path:  ref,
			})
			if sizes {
				size := info.Size()
				doc.Checks = append(doc.Checks, &manifest.Check{
					Name:  rel + " size",
					Check: check.OpFileSizeEquals,
					Path:  ref,
					Size:  &size,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}
