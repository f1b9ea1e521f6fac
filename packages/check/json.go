package check

import (
	"errors"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/fspec/packages/diag"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// FileJSONHas checks that the gjson query has a result in the file.
func (c *Checker) FileJSONHas(path, query string) *Result {
	if path == "" {
		return c.invalidArgument(OpFileJSON, path, errEmptyPath)
	}
	if query == "" {
		return c.invalidArgument(OpFileJSON, path, errors.New("query is empty"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c.cannotRead(OpFileJSON, path, err)
	}
	res := gjson.GetBytes(data, query)
	if !res.Exists() {
		r := c.fail(OpFileJSON, path, "json query has no result")
		r.Diagnostic.Add("query", query)
		return r
	}
	return pass(OpFileJSON, path)
}

// FileJSON checks that the gjson query resolves in the file and that
// the result's string form equals expected.
func (c *Checker) FileJSON(path, query, expected string) *Result {
	r := c.FileJSONHas(path, query)
	if !r.Passed {
		return r
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c.cannotRead(OpFileJSON, path, err)
	}
	res := gjson.GetBytes(data, query)
	if res.String() != expected {
		r := c.fail(OpFileJSON, path, "json value does not match expected value")
		r.Diagnostic.Add("query", query)
		r.Diagnostic.Add("expected", expected)
		r.Diagnostic.Add("actual", res.String())
		return r
	}
	return pass(OpFileJSON, path)
}

// FileMatchesSchema checks that the file's contents validate against
// the JSON Schema document at schemaPath.
func (c *Checker) FileMatchesSchema(path, schemaPath string) *Result {
	if path == "" {
		return c.invalidArgument(OpFileMatchesSchema, path, errEmptyPath)
	}
	if schemaPath == "" {
		return c.invalidArgument(OpFileMatchesSchema, path, errors.New("schema path is empty"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c.cannotRead(OpFileMatchesSchema, path, err)
	}
	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		d := diag.New("cannot read file")
		d.Add("path", c.display(schemaPath))
		d.Add("error", err.Error())
		return &Result{Op: OpFileMatchesSchema, Path: path, Diagnostic: d}
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	documentLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		r := c.fail(OpFileMatchesSchema, path, "file does not match schema")
		r.Diagnostic.Add("schema", c.display(schemaPath))
		r.Diagnostic.Add("error", err.Error())
		return r
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		r := c.fail(OpFileMatchesSchema, path, "file does not match schema")
		r.Diagnostic.Add("schema", c.display(schemaPath))
		r.Diagnostic.Add("output", strings.Join(problems, "\n"))
		return r
	}
	return pass(OpFileMatchesSchema, path)
}
