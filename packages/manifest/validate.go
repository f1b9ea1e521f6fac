package manifest

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/abdul-hamid-achik/fspec/packages/check"
)

// ValidationError describes one problem found in a manifest.
type ValidationError struct {
	Index   int // 1-based position in the checks list
	Name    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("check %d (%s): %s", e.Index, e.Name, e.Message)
	}
	return fmt.Sprintf("check %d: %s", e.Index, e.Message)
}

// argFields maps each operation to the manifest key carrying its extra
// argument. Operations absent here take only a path.
var argFields = map[string]string{
	check.OpFileContains:      "pattern",
	check.OpFileNotContains:   "pattern",
	check.OpFileSizeEquals:    "size",
	check.OpSymlinkTo:         "target",
	check.OpFilesEqual:        "other",
	check.OpFilesNotEqual:     "other",
	check.OpFileMode:          "mode",
	check.OpFileJSON:          "query",
	check.OpFileMatchesSchema: "schema",
}

// extraArgs lists every extra-argument key in reporting order.
var extraArgs = []string{"pattern", "size", "target", "other", "mode", "query", "equals", "schema"}

var knownOps = func() map[string]bool {
	ops := make(map[string]bool, len(check.Ops()))
	for _, op := range check.Ops() {
		ops[op] = true
	}
	return ops
}()

func (c *Check) setArgs() map[string]bool {
	set := make(map[string]bool)
	if c.Pattern != "" {
		set["pattern"] = true
	}
	if c.Size != nil {
		set["size"] = true
	}
	if c.Target != "" {
		set["target"] = true
	}
	if c.Other != "" {
		set["other"] = true
	}
	if c.Mode != "" {
		set["mode"] = true
	}
	if c.Query != "" {
		set["query"] = true
	}
	if c.Equals != nil {
		set["equals"] = true
	}
	if c.Schema != "" {
		set["schema"] = true
	}
	return set
}

// Validate reports every problem in the document, not just the first.
// A nil result means the manifest is well formed.
func (d *Document) Validate() []*ValidationError {
	var errs []*ValidationError
	addf := func(i int, name, format string, args ...any) {
		errs = append(errs, &ValidationError{
			Index:   i + 1,
			Name:    name,
			Message: fmt.Sprintf(format, args...),
		})
	}

	for i, c := range d.Checks {
		if c == nil {
			addf(i, "", "empty check entry")
			continue
		}
		if c.Check == "" {
			addf(i, c.Name, "check operation is required")
			continue
		}
		if !knownOps[c.Check] {
			addf(i, c.Name, "unknown operation %q", c.Check)
			continue
		}
		if c.Path == "" {
			addf(i, c.Name, "path is required")
		}

		required := argFields[c.Check]
		set := c.setArgs()
		if required != "" && !set[required] {
			addf(i, c.Name, "%s requires %s", c.Check, required)
		}
		for _, field := range extraArgs {
			if !set[field] || field == required {
				continue
			}
			if field == "equals" && c.Check == check.OpFileJSON {
				continue
			}
			addf(i, c.Name, "%s does not take %s", c.Check, field)
		}

		if c.Size != nil && *c.Size < 0 {
			addf(i, c.Name, "size must not be negative")
		}
		if set["pattern"] && required == "pattern" {
			if _, err := regexp.Compile(c.Pattern); err != nil {
				addf(i, c.Name, "invalid pattern: %v", err)
			}
		}
		if set["mode"] && required == "mode" {
			if _, err := strconv.ParseUint(c.Mode, 8, 32); err != nil {
				addf(i, c.Name, "invalid mode %q: expected octal digits", c.Mode)
			}
		}
	}

	// Results are keyed by name downstream, so collisions are errors.
	seen := make(map[string]int)
	for i, c := range d.Checks {
		if c == nil || c.Name == "" {
			continue
		}
		if first, dup := seen[c.Name]; dup {
			addf(i, c.Name, "duplicate name (also used by check %d)", first)
		} else {
			seen[c.Name] = i + 1
		}
	}

	return errs
}
