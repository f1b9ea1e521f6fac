package runner

import (
	"path/filepath"

	"github.com/abdul-hamid-achik/fspec/packages/check"
	"github.com/abdul-hamid-achik/fspec/packages/manifest"
)

// prepare resolves a check's variables and anchors its relative paths
// at the manifest's directory. Symlink targets stay raw: they are
// compared against readlink output, not opened.
func (r *Runner) prepare(resolver *manifest.Resolver, c *manifest.Check, baseDir string) *manifest.Check {
	out := resolver.ResolveCheck(c)
	out.Path = joinBase(baseDir, out.Path)
	out.Other = joinBase(baseDir, out.Other)
	out.Schema = joinBase(baseDir, out.Schema)
	return out
}

func joinBase(baseDir, path string) string {
	if path == "" || baseDir == "" || baseDir == "." || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// evaluate dispatches a resolved check to the checker. A nil result
// means the operation is unknown; validation normally catches that
// before execution.
func (r *Runner) evaluate(c *manifest.Check) *check.Result {
	switch c.Check {
	case check.OpFileExists:
		return r.checker.FileExists(c.Path)
	case check.OpFileNotExists:
		return r.checker.FileNotExists(c.Path)
	case check.OpFileEmpty:
		return r.checker.FileEmpty(c.Path)
	case check.OpFileNotEmpty:
		return r.checker.FileNotEmpty(c.Path)
	case check.OpFileContains:
		return r.checker.FileContains(c.Path, c.Pattern)
	case check.OpFileNotContains:
		return r.checker.FileNotContains(c.Path, c.Pattern)
	case check.OpFileSizeEquals:
		var size int64
		if c.Size != nil {
			size = *c.Size
		}
		return r.checker.FileSizeEquals(c.Path, size)
	case check.OpDirExists:
		return r.checker.DirExists(c.Path)
	case check.OpDirNotExists:
		return r.checker.DirNotExists(c.Path)
	case check.OpSymlinkExists:
		return r.checker.SymlinkExists(c.Path)
	case check.OpSymlinkTo:
		return r.checker.SymlinkTo(c.Path, c.Target)
	case check.OpFileExecutable:
		return r.checker.FileExecutable(c.Path)
	case check.OpFileMode:
		return r.checker.FileMode(c.Path, c.Mode)
	case check.OpFilesEqual:
		return r.checker.FilesEqual(c.Path, c.Other)
	case check.OpFilesNotEqual:
		return r.checker.FilesNotEqual(c.Path, c.Other)
	case check.OpFileJSON:
		if c.Equals != nil {
			return r.checker.FileJSON(c.Path, c.Query, *c.Equals)
		}
		return r.checker.FileJSONHas(c.Path, c.Query)
	case check.OpFileMatchesSchema:
		return r.checker.FileMatchesSchema(c.Path, c.Schema)
	}
	return nil
}
