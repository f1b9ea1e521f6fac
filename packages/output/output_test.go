package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/fspec/packages/check"
	"github.com/abdul-hamid-achik/fspec/packages/diag"
	"github.com/abdul-hamid-achik/fspec/packages/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRunResult() *runner.RunResult {
	missing := diag.New("file does not exist")
	missing.Add("path", "/data/missing")

	return &runner.RunResult{
		File:     "checks.fspec.yaml",
		Duration: 40 * time.Millisecond,
		Passed:   1,
		Failed:   2,
		Skipped:  2,
		Results: []*runner.CheckResult{
			{
				Name:     "present",
				Passed:   true,
				Duration: 2 * time.Millisecond,
				Check:    &check.Result{Passed: true, Op: check.OpFileExists, Path: "/data/conf"},
			},
			{
				Name:     "absent",
				Duration: 3 * time.Millisecond,
				Check:    &check.Result{Op: check.OpFileExists, Path: "/data/missing", Diagnostic: missing},
			},
			{
				Name:       "later",
				Skipped:    true,
				SkipReason: "until v2",
			},
			{
				Name:       "other",
				Skipped:    true,
				SkipReason: "filtered out",
			},
			{
				Name: "broken",
				Err:  errors.New("manifest exploded"),
			},
		},
	}
}

func TestConsoleFormatterFormatResult(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatResult(sampleRunResult())
	out := buf.String()

	assert.Contains(t, out, "Running: checks.fspec.yaml")
	assert.Contains(t, out, "  ✓ present (2ms)")
	assert.Contains(t, out, "  ✗ absent (3ms)")
	assert.Contains(t, out, "    -- file does not exist --\n")
	assert.Contains(t, out, "    path : /data/missing\n")
	assert.Contains(t, out, "    --\n")
	assert.Contains(t, out, "  - later (until v2)\n")
	assert.Contains(t, out, "  - other\n")
	assert.NotContains(t, out, "(filtered out)")
	assert.Contains(t, out, "  x broken (manifest exploded)")
	assert.Contains(t, out, "Checks: 1 passed, 2 failed, 2 skipped, 5 total")
	assert.Contains(t, out, "Time:   40ms")
}

func TestConsoleFormatterVerbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.FormatResult(&runner.RunResult{
		File:   "one.fspec.yaml",
		Passed: 1,
		Results: []*runner.CheckResult{
			{
				Name:   "present",
				Passed: true,
				Check:  &check.Result{Passed: true, Op: check.OpFileExists, Path: "/data/conf"},
			},
		},
	})

	assert.Contains(t, buf.String(), "    file-exists /data/conf\n")
}

func TestConsoleFormatterFormatError(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatError(errors.New("no manifests found"))

	assert.Equal(t, "Error: no manifests found\n", buf.String())
}

func TestConsoleFormatterFormatHeader(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatHeader("1.2.3")

	assert.Equal(t, "fspec 1.2.3\n", buf.String())
}

func TestJSONFormatterFlush(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatHeader("1.2.3")
	f.FormatResult(sampleRunResult())
	require.NoError(t, f.Flush(1500*time.Millisecond))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, 5, out.Summary.Total)
	assert.Equal(t, 1, out.Summary.Passed)
	assert.Equal(t, 2, out.Summary.Failed)
	assert.Equal(t, 2, out.Summary.Skipped)
	assert.Equal(t, float64(1500), out.Duration)

	_, err := time.Parse(time.RFC3339, out.Time)
	assert.NoError(t, err)

	require.Len(t, out.Checks, 5)

	passed := out.Checks[0]
	assert.Equal(t, "present", passed.Name)
	assert.Equal(t, "checks.fspec.yaml", passed.File)
	assert.Equal(t, "file-exists", passed.Op)
	assert.Equal(t, "/data/conf", passed.Path)
	assert.True(t, passed.Passed)
	assert.Nil(t, passed.Diagnostic)

	failed := out.Checks[1]
	assert.False(t, failed.Passed)
	require.NotNil(t, failed.Diagnostic)
	assert.Equal(t, "file does not exist", failed.Diagnostic.Title)
	require.Len(t, failed.Diagnostic.Details, 1)
	assert.Equal(t, "path", failed.Diagnostic.Details[0].Key)
	assert.Equal(t, "/data/missing", failed.Diagnostic.Details[0].Value)

	assert.Equal(t, "until v2", out.Checks[2].SkipReason)
	assert.True(t, out.Checks[2].Skipped)

	// Filter skips carry no reason worth reporting.
	assert.Empty(t, out.Checks[3].SkipReason)
	assert.True(t, out.Checks[3].Skipped)

	assert.Equal(t, "manifest exploded", out.Checks[4].Error)
}

func TestJUnitFormatterFlush(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))

	f.FormatResult(sampleRunResult())
	require.NoError(t, f.Flush(2*time.Second))

	out := buf.String()
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")), out)

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))

	assert.Equal(t, "fspec", suites.Name)
	assert.Equal(t, 5, suites.Tests)
	assert.Equal(t, 2, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	assert.Equal(t, 2, suites.Skipped)
	assert.Equal(t, 2.0, suites.Time)

	require.Len(t, suites.TestSuites, 1)
	suite := suites.TestSuites[0]
	assert.Equal(t, "checks.fspec.yaml", suite.Name)
	require.Len(t, suite.TestCases, 5)

	assert.Nil(t, suite.TestCases[0].Failure)

	failure := suite.TestCases[1].Failure
	require.NotNil(t, failure)
	assert.Equal(t, "file does not exist", failure.Message)
	assert.Equal(t, "CheckFailure", failure.Type)
	assert.Contains(t, failure.Content, "-- file does not exist --")
	assert.Contains(t, failure.Content, "path : /data/missing")

	require.NotNil(t, suite.TestCases[2].Skipped)
	assert.Equal(t, "until v2", suite.TestCases[2].Skipped.Message)

	errCase := suite.TestCases[4].Error
	require.NotNil(t, errCase)
	assert.Equal(t, "manifest exploded", errCase.Message)
	assert.Equal(t, "Error", errCase.Type)
}

func TestTAPFormatterFlush(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))

	f.FormatResult(sampleRunResult())
	require.NoError(t, f.Flush(time.Second))

	expected := "TAP version 13\n" +
		"1..5\n" +
		"ok 1 - present\n" +
		"not ok 2 - absent\n" +
		"  ---\n" +
		"  message: file does not exist\n" +
		"  details:\n" +
		"    - \"path: /data/missing\"\n" +
		"  ...\n" +
		"ok 3 - later # SKIP until v2\n" +
		"ok 4 - other # SKIP SKIP\n" +
		"not ok 5 - broken\n" +
		"  ---\n" +
		"  message: manifest exploded\n" +
		"  severity: error\n" +
		"  ...\n" +
		"\n"

	assert.Equal(t, expected, buf.String())
}

func TestTAPFormatterNumbersAcrossFiles(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))

	for _, file := range []string{"a.fspec.yaml", "b.fspec.yaml"} {
		f.FormatResult(&runner.RunResult{
			File:   file,
			Passed: 1,
			Results: []*runner.CheckResult{
				{Name: "check in " + file, Passed: true},
			},
		})
	}
	require.NoError(t, f.Flush(time.Second))

	out := buf.String()
	assert.Contains(t, out, "1..2\n")
	assert.Contains(t, out, "ok 1 - check in a.fspec.yaml\n")
	assert.Contains(t, out, "ok 2 - check in b.fspec.yaml\n")
}

func TestTAPFormatterFlattensMultilineDetails(t *testing.T) {
	d := diag.New("file is not empty")
	d.Add("path", "/data/state")
	d.Add("output", "line one\nline two")

	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	f.FormatResult(&runner.RunResult{
		File:   "c.fspec.yaml",
		Failed: 1,
		Results: []*runner.CheckResult{
			{Name: "empty", Check: &check.Result{Op: check.OpFileEmpty, Path: "/data/state", Diagnostic: d}},
		},
	})
	require.NoError(t, f.Flush(time.Second))

	assert.Contains(t, buf.String(), `    - "output: line one\nline two"`+"\n")
}

func TestEscapeYAML(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain text", "plain text"},
		{"has: colon", "\"has: colon\""},
		{"has \"quotes\"", "\"has \\\"quotes\\\"\""},
		{"pipe | char", "\"pipe | char\""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("escape %q", tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeYAML(tt.input))
		})
	}
}
