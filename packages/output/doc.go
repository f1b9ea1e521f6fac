// Package output provides formatters for displaying check results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//
// Formatters receive diagnostics already rendered or as structured
// title/details; they never re-derive them. Formats that accumulate
// results before writing implement a Flush method taking the total
// run duration.
package output
