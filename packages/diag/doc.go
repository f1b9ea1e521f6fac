// Package diag builds and renders assertion failure diagnostics.
//
// A diagnostic is a title plus key/value detail lines, rendered as:
//
//	-- file does not exist --
//	path : /tmp/example
//	--
//
// Keys are padded to a shared column width. Values spanning multiple lines
// switch to a block layout automatically, so callers never pick a layout.
package diag
