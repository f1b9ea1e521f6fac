// Package check implements the filesystem predicates behind fspec.
//
// A Checker exposes one method per operation (FileExists, FileEmpty,
// FileContains, ...). Every method performs a single read-only check
// against the filesystem and returns a Result: Passed plus, on failure,
// a diagnostic with a title and key/value details. Checks never write
// to any stream and never mutate the filesystem; rendering and
// pass/fail policy belong to the caller.
//
// Paths shown in diagnostics go through the path display transform
// configured with WithPathDisplay, a literal first-occurrence
// replacement. The transform affects presentation only, never which
// path is checked.
package check
