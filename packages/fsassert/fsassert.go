package fsassert

import (
	"github.com/abdul-hamid-achik/fspec/packages/check"
)

// TestingT is the subset of *testing.T the assertions need.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
}

// Option configures the underlying checker.
type Option = check.Option

// WithPathDisplay mirrors check.WithPathDisplay for callers that only
// import this package.
func WithPathDisplay(remove, add string) Option {
	return check.WithPathDisplay(remove, add)
}

// Asserter binds a TestingT and checker options so individual calls
// stay short.
type Asserter struct {
	t TestingT
	c *check.Checker
}

func New(t TestingT, opts ...Option) *Asserter {
	return &Asserter{t: t, c: check.New(opts...)}
}

func report(t TestingT, r *check.Result) bool {
	if r.Passed {
		return true
	}
	t.Helper()
	t.Errorf("%s", r.Diagnostic.String())
	return false
}

func (a *Asserter) FileExists(path string) bool {
	a.t.Helper()
	return report(a.t, a.c.FileExists(path))
}

func (a *Asserter) FileNotExists(path string) bool {
	a.t.Helper()
	return report(a.t, a.c.FileNotExists(path))
}

func (a *Asserter) FileEmpty(path string) bool {
	a.t.Helper()
	return report(a.t, a.c.FileEmpty(path))
}

func (a *Asserter) FileNotEmpty(path string) bool {
	a.t.Helper()
	return report(a.t, a.c.FileNotEmpty(path))
}

func (a *Asserter) FileContains(path, pattern string) bool {
	a.t.Helper()
	return report(a.t, a.c.FileContains(path, pattern))
}

func (a *Asserter) FileNotContains(path, pattern string) bool {
	a.t.Helper()
	return report(a.t, a.c.FileNotContains(path, pattern))
}

func (a *Asserter) FileSizeEquals(path string, size int64) bool {
	a.t.Helper()
	return report(a.t, a.c.FileSizeEquals(path, size))
}

func (a *Asserter) DirExists(path string) bool {
	a.t.Helper()
	return report(a.t, a.c.DirExists(path))
}

func (a *Asserter) DirNotExists(path string) bool {
	a.t.Helper()
	return report(a.t, a.c.DirNotExists(path))
}

func (a *Asserter) SymlinkExists(path string) bool {
	a.t.Helper()
	return report(a.t, a.c.SymlinkExists(path))
}

func (a *Asserter) SymlinkTo(path, target string) bool {
	a.t.Helper()
	return report(a.t, a.c.SymlinkTo(path, target))
}

func (a *Asserter) FileExecutable(path string) bool {
	a.t.Helper()
	return report(a.t, a.c.FileExecutable(path))
}

func (a *Asserter) FileMode(path, mode string) bool {
	a.t.Helper()
	return report(a.t, a.c.FileMode(path, mode))
}

func (a *Asserter) FilesEqual(path, other string) bool {
	a.t.Helper()
	return report(a.t, a.c.FilesEqual(path, other))
}

func (a *Asserter) FilesNotEqual(path, other string) bool {
	a.t.Helper()
	return report(a.t, a.c.FilesNotEqual(path, other))
}

func (a *Asserter) FileJSON(path, query, expected string) bool {
	a.t.Helper()
	return report(a.t, a.c.FileJSON(path, query, expected))
}

func (a *Asserter) FileJSONHas(path, query string) bool {
	a.t.Helper()
	return report(a.t, a.c.FileJSONHas(path, query))
}

func (a *Asserter) FileMatchesSchema(path, schemaPath string) bool {
	a.t.Helper()
	return report(a.t, a.c.FileMatchesSchema(path, schemaPath))
}

var std = check.New()

// Package-level forms run with no path display transform.

func FileExists(t TestingT, path string) bool {
	t.Helper()
	return report(t, std.FileExists(path))
}

func FileNotExists(t TestingT, path string) bool {
	t.Helper()
	return report(t, std.FileNotExists(path))
}

func FileEmpty(t TestingT, path string) bool {
	t.Helper()
	return report(t, std.FileEmpty(path))
}

func FileNotEmpty(t TestingT, path string) bool {
	t.Helper()
	return report(t, std.FileNotEmpty(path))
}

func FileContains(t TestingT, path, pattern string) bool {
	t.Helper()
	return report(t, std.FileContains(path, pattern))
}

func FileNotContains(t TestingT, path, pattern string) bool {
	t.Helper()
	return report(t, std.FileNotContains(path, pattern))
}

func FileSizeEquals(t TestingT, path string, size int64) bool {
	t.Helper()
	return report(t, std.FileSizeEquals(path, size))
}

func DirExists(t TestingT, path string) bool {
	t.Helper()
	return report(t, std.DirExists(path))
}

func DirNotExists(t TestingT, path string) bool {
	t.Helper()
	return report(t, std.DirNotExists(path))
}

func SymlinkExists(t TestingT, path string) bool {
	t.Helper()
	return report(t, std.SymlinkExists(path))
}

func SymlinkTo(t TestingT, path, target string) bool {
	t.Helper()
	return report(t, std.SymlinkTo(path, target))
}

func FileExecutable(t TestingT, path string) bool {
	t.Helper()
	return report(t, std.FileExecutable(path))
}

func FileMode(t TestingT, path, mode string) bool {
	t.Helper()
	return report(t, std.FileMode(path, mode))
}

func FilesEqual(t TestingT, path, other string) bool {
	t.Helper()
	return report(t, std.FilesEqual(path, other))
}

func FilesNotEqual(t TestingT, path, other string) bool {
	t.Helper()
	return report(t, std.FilesNotEqual(path, other))
}

func FileJSON(t TestingT, path, query, expected string) bool {
	t.Helper()
	return report(t, std.FileJSON(path, query, expected))
}

func FileJSONHas(t TestingT, path, query string) bool {
	t.Helper()
	return report(t, std.FileJSONHas(path, query))
}

func FileMatchesSchema(t TestingT, path, schemaPath string) bool {
	t.Helper()
	return report(t, std.FileMatchesSchema(path, schemaPath))
}
