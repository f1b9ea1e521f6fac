package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Document is a parsed manifest file.
type Document struct {
	Vars   map[string]string `yaml:"vars,omitempty"`
	Checks []*Check          `yaml:"checks,omitempty"`

	// Path is where the document was loaded from, empty for in-memory
	// documents.
	Path string `yaml:"-"`
}

// Check is one entry in a manifest's checks list.
type Check struct {
	Name  string `yaml:"name,omitempty"`
	Check string `yaml:"check"`
	Path  string `yaml:"path"`

	// Extra arguments; which one applies depends on the operation.
	Pattern string  `yaml:"pattern,omitempty"`
	Size    *int64  `yaml:"size,omitempty"`
	Target  string  `yaml:"target,omitempty"`
	Other   string  `yaml:"other,omitempty"`
	Mode    string  `yaml:"mode,omitempty"`
	Query   string  `yaml:"query,omitempty"`
	Equals  *string `yaml:"equals,omitempty"`
	Schema  string  `yaml:"schema,omitempty"`

	Tags []string `yaml:"tags,omitempty"`
	Skip string   `yaml:"skip,omitempty"`
}

// Dir returns the directory containing the document, "." for
// in-memory documents. Relative paths in checks resolve against it.
func (d *Document) Dir() string {
	if d.Path == "" {
		return "."
	}
	return filepath.Dir(d.Path)
}

// HasTag reports whether the check carries the given tag.
func (c *Check) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Parse decodes a manifest document. Unknown fields are rejected so
// typos surface instead of silently dropping a constraint. Unnamed
// checks get positional names (check-1, check-2, ...).
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, err
	}

	for i, c := range doc.Checks {
		if c != nil && c.Name == "" {
			c.Name = fmt.Sprintf("check-%d", i+1)
		}
	}
	return &doc, nil
}

// ParseFile reads and parses a manifest from disk.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}
