package check

import (
	"errors"
	"strings"

	"github.com/abdul-hamid-achik/fspec/packages/diag"
)

// Operation names, as used in manifests and on the CLI.
const (
	OpFileExists        = "file-exists"
	OpFileNotExists     = "file-not-exists"
	OpFileEmpty         = "file-empty"
	OpFileNotEmpty      = "file-not-empty"
	OpFileContains      = "file-contains"
	OpFileNotContains   = "file-not-contains"
	OpFileSizeEquals    = "file-size-equals"
	OpDirExists         = "dir-exists"
	OpDirNotExists      = "dir-not-exists"
	OpSymlinkExists     = "symlink-exists"
	OpSymlinkTo         = "symlink-to"
	OpFileExecutable    = "file-executable"
	OpFileMode          = "file-mode"
	OpFilesEqual        = "files-equal"
	OpFilesNotEqual     = "files-not-equal"
	OpFileJSON          = "file-json"
	OpFileMatchesSchema = "file-matches-schema"
)

// Ops lists every operation name the checker understands, in a stable order.
func Ops() []string {
	return []string{
		OpFileExists,
		OpFileNotExists,
		OpFileEmpty,
		OpFileNotEmpty,
		OpFileContains,
		OpFileNotContains,
		OpFileSizeEquals,
		OpDirExists,
		OpDirNotExists,
		OpSymlinkExists,
		OpSymlinkTo,
		OpFileExecutable,
		OpFileMode,
		OpFilesEqual,
		OpFilesNotEqual,
		OpFileJSON,
		OpFileMatchesSchema,
	}
}

// Result is the outcome of a single check. Failure is a normal value:
// Diagnostic is set when Passed is false and nil otherwise.
type Result struct {
	Passed     bool
	Op         string
	Path       string // the path as checked, never transformed
	Diagnostic *diag.Diagnostic
}

// Checker runs filesystem checks. The zero value is usable; options
// configure the path display transform applied to diagnostics.
type Checker struct {
	pathRemove string
	pathAdd    string
}

// Option is a functional option for configuring a Checker.
type Option func(*Checker)

// WithPathDisplay sets the display transform: the first occurrence of
// remove in any path-valued detail is replaced with add. An empty
// remove disables the transform.
func WithPathDisplay(remove, add string) Option {
	return func(c *Checker) {
		c.pathRemove = remove
		c.pathAdd = add
	}
}

func New(opts ...Option) *Checker {
	c := &Checker{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var errEmptyPath = errors.New("path is empty")

// display rewrites a path for presentation. Literal substring
// replacement, first occurrence only.
func (c *Checker) display(path string) string {
	if c.pathRemove == "" {
		return path
	}
	return strings.Replace(path, c.pathRemove, c.pathAdd, 1)
}

func pass(op, path string) *Result {
	return &Result{Passed: true, Op: op, Path: path}
}

func (c *Checker) fail(op, path, title string) *Result {
	d := diag.New(title)
	d.Add("path", c.display(path))
	return &Result{Op: op, Path: path, Diagnostic: d}
}

func (c *Checker) invalidArgument(op, path string, err error) *Result {
	d := diag.New("invalid argument")
	d.Add("op", op)
	d.Add("error", err.Error())
	return &Result{Op: op, Path: path, Diagnostic: d}
}

func (c *Checker) cannotRead(op, path string, err error) *Result {
	d := diag.New("cannot read file")
	d.Add("path", c.display(path))
	d.Add("error", err.Error())
	return &Result{Op: op, Path: path, Diagnostic: d}
}
