// Package cmd implements the fspec CLI commands using Cobra.
//
// Available commands:
//   - run: Execute filesystem checks from manifest files
//   - assert: Run a single check and exit 0/1
//   - wait: Poll manifests until every check passes
//   - validate: Check manifest syntax without executing
//   - list: Display all checks defined in manifests
//   - snapshot: Generate a manifest from the current state of a tree
//   - stats: Show aggregates from a run history database
//   - diff: Compare two JSON result files
//   - init: Create a new fspec project with example files
//   - version: Show fspec version information
//
// The CLI supports various flags for filtering, output formatting,
// parallel execution, and watch mode for development workflows.
package cmd
