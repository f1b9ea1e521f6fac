package check

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// FileExists checks that path refers to an existing entry of any type.
// Stat semantics: a dangling symlink does not count, SymlinkExists does.
func (c *Checker) FileExists(path string) *Result {
	if path == "" {
		return c.invalidArgument(OpFileExists, path, errEmptyPath)
	}
	if _, err := os.Stat(path); err != nil {
		return c.fail(OpFileExists, path, "file does not exist")
	}
	return pass(OpFileExists, path)
}

// FileNotExists checks that path does not refer to an existing entry.
func (c *Checker) FileNotExists(path string) *Result {
	if path == "" {
		return c.invalidArgument(OpFileNotExists, path, errEmptyPath)
	}
	if _, err := os.Stat(path); err == nil {
		return c.fail(OpFileNotExists, path, "file exists, but it was expected to be absent")
	}
	return pass(OpFileNotExists, path)
}

// FileEmpty checks that path has zero size. A path that does not exist
// counts as empty, so the check passes. On failure the diagnostic
// carries the file's current contents under the output key.
func (c *Checker) FileEmpty(path string) *Result {
	if path == "" {
		return c.invalidArgument(OpFileEmpty, path, errEmptyPath)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return pass(OpFileEmpty, path)
	}
	r := c.fail(OpFileEmpty, path, "file is not empty")
	contents, err := os.ReadFile(path)
	if err != nil {
		r.Diagnostic.Add("error", err.Error())
		return r
	}
	r.Diagnostic.Add("output", string(contents))
	return r
}

// FileNotEmpty checks that path has non-zero size. A path that does not
// exist counts as empty, so the check fails.
func (c *Checker) FileNotEmpty(path string) *Result {
	if path == "" {
		return c.invalidArgument(OpFileNotEmpty, path, errEmptyPath)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return c.fail(OpFileNotEmpty, path, "file empty, but it was expected to contain something")
	}
	return pass(OpFileNotEmpty, path)
}

// FileContains checks that the file's contents match pattern anywhere.
// The pattern is a raw regular expression; no escaping is performed.
func (c *Checker) FileContains(path, pattern string) *Result {
	if path == "" {
		return c.invalidArgument(OpFileContains, path, errEmptyPath)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return c.invalidArgument(OpFileContains, path, fmt.Errorf("invalid regex pattern: %v", err))
	}
	contents, err := os.ReadFile(path)
	if err != nil || !re.Match(contents) {
		return c.fail(OpFileContains, path, "file does not contain regex")
	}
	return pass(OpFileContains, path)
}

// FileNotContains checks that pattern matches nowhere in the file's
// contents. An unreadable file has no observable contents and passes.
func (c *Checker) FileNotContains(path, pattern string) *Result {
	if path == "" {
		return c.invalidArgument(OpFileNotContains, path, errEmptyPath)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return c.invalidArgument(OpFileNotContains, path, fmt.Errorf("invalid regex pattern: %v", err))
	}
	contents, err := os.ReadFile(path)
	if err != nil || !re.Match(contents) {
		return pass(OpFileNotContains, path)
	}
	r := c.fail(OpFileNotContains, path, "file contains regex, but it was expected not to")
	r.Diagnostic.Add("pattern", pattern)
	return r
}

// FileSizeEquals checks that the file's byte length equals size exactly.
// A path that does not exist is a failure.
func (c *Checker) FileSizeEquals(path string, size int64) *Result {
	if path == "" {
		return c.invalidArgument(OpFileSizeEquals, path, errEmptyPath)
	}
	if size < 0 {
		return c.invalidArgument(OpFileSizeEquals, path, fmt.Errorf("expected size is negative: %d", size))
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() != size {
		return c.fail(OpFileSizeEquals, path, "file size does not match expected size")
	}
	return pass(OpFileSizeEquals, path)
}

// DirExists checks that path is an existing directory.
func (c *Checker) DirExists(path string) *Result {
	if path == "" {
		return c.invalidArgument(OpDirExists, path, errEmptyPath)
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return c.fail(OpDirExists, path, "directory does not exist")
	}
	return pass(OpDirExists, path)
}

// DirNotExists checks that path is not an existing directory.
func (c *Checker) DirNotExists(path string) *Result {
	if path == "" {
		return c.invalidArgument(OpDirNotExists, path, errEmptyPath)
	}
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return c.fail(OpDirNotExists, path, "directory exists, but it was expected to be absent")
	}
	return pass(OpDirNotExists, path)
}

// SymlinkExists checks that path is a symbolic link. Lstat semantics:
// a dangling link still counts.
func (c *Checker) SymlinkExists(path string) *Result {
	if path == "" {
		return c.invalidArgument(OpSymlinkExists, path, errEmptyPath)
	}
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return c.fail(OpSymlinkExists, path, "symbolic link does not exist")
	}
	return pass(OpSymlinkExists, path)
}

// SymlinkTo checks that path is a symbolic link whose raw target equals
// target. The target is compared as read, not resolved.
func (c *Checker) SymlinkTo(path, target string) *Result {
	if path == "" {
		return c.invalidArgument(OpSymlinkTo, path, errEmptyPath)
	}
	if target == "" {
		return c.invalidArgument(OpSymlinkTo, path, errors.New("expected target is empty"))
	}
	actual, err := os.Readlink(path)
	if err != nil {
		return c.fail(OpSymlinkTo, path, "symbolic link does not exist")
	}
	if actual != target {
		r := c.fail(OpSymlinkTo, path, "symbolic link does not point to the expected target")
		r.Diagnostic.Add("expected", c.display(target))
		r.Diagnostic.Add("actual", c.display(actual))
		return r
	}
	return pass(OpSymlinkTo, path)
}

// FileExecutable checks that path exists and has any execute bit set.
func (c *Checker) FileExecutable(path string) *Result {
	if path == "" {
		return c.invalidArgument(OpFileExecutable, path, errEmptyPath)
	}
	info, err := os.Stat(path)
	if err != nil || info.Mode().Perm()&0o111 == 0 {
		return c.fail(OpFileExecutable, path, "file is not executable")
	}
	return pass(OpFileExecutable, path)
}

// FileMode checks that the path's permission bits equal mode, given as
// an octal string such as "0644".
func (c *Checker) FileMode(path, mode string) *Result {
	if path == "" {
		return c.invalidArgument(OpFileMode, path, errEmptyPath)
	}
	bits, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return c.invalidArgument(OpFileMode, path, fmt.Errorf("invalid mode %q: expected octal digits", mode))
	}
	expected := os.FileMode(bits).Perm()
	info, err := os.Stat(path)
	if err != nil {
		r := c.fail(OpFileMode, path, "file mode does not match expected mode")
		r.Diagnostic.Add("expected", fmt.Sprintf("%04o", expected))
		r.Diagnostic.Add("error", err.Error())
		return r
	}
	if actual := info.Mode().Perm(); actual != expected {
		r := c.fail(OpFileMode, path, "file mode does not match expected mode")
		r.Diagnostic.Add("expected", fmt.Sprintf("%04o", expected))
		r.Diagnostic.Add("actual", fmt.Sprintf("%04o", actual))
		return r
	}
	return pass(OpFileMode, path)
}

// FilesEqual checks that path and other have byte-identical contents.
func (c *Checker) FilesEqual(path, other string) *Result {
	if path == "" || other == "" {
		return c.invalidArgument(OpFilesEqual, path, errEmptyPath)
	}
	a, err := os.ReadFile(path)
	if err != nil {
		return c.cannotRead(OpFilesEqual, path, err)
	}
	b, err := os.ReadFile(other)
	if err != nil {
		return c.cannotRead(OpFilesEqual, other, err)
	}
	if !bytes.Equal(a, b) {
		r := c.fail(OpFilesEqual, path, "files do not have the same content")
		r.Diagnostic.Add("other", c.display(other))
		return r
	}
	return pass(OpFilesEqual, path)
}

// FilesNotEqual checks that path and other have differing contents.
// Both files must be readable to establish the difference.
func (c *Checker) FilesNotEqual(path, other string) *Result {
	if path == "" || other == "" {
		return c.invalidArgument(OpFilesNotEqual, path, errEmptyPath)
	}
	a, err := os.ReadFile(path)
	if err != nil {
		return c.cannotRead(OpFilesNotEqual, path, err)
	}
	b, err := os.ReadFile(other)
	if err != nil {
		return c.cannotRead(OpFilesNotEqual, other, err)
	}
	if bytes.Equal(a, b) {
		r := c.fail(OpFilesNotEqual, path, "files have the same content, but they were expected to differ")
		r.Diagnostic.Add("other", c.display(other))
		return r
	}
	return pass(OpFilesNotEqual, path)
}
