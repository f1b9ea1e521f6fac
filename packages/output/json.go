package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/fspec/packages/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Checks   []JSONCheck `json:"checks"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the run summary
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// JSONCheck represents a single check result
type JSONCheck struct {
	Name       string          `json:"name"`
	File       string          `json:"file"`
	Op         string          `json:"op,omitempty"`
	Path       string          `json:"path,omitempty"`
	Passed     bool            `json:"passed"`
	Skipped    bool            `json:"skipped,omitempty"`
	SkipReason string          `json:"skipReason,omitempty"`
	Duration   float64         `json:"duration"`
	Error      string          `json:"error,omitempty"`
	Diagnostic *JSONDiagnostic `json:"diagnostic,omitempty"`
}

// JSONDiagnostic carries a failure's title and detail pairs
type JSONDiagnostic struct {
	Title   string       `json:"title"`
	Details []JSONDetail `json:"details,omitempty"`
}

// JSONDetail is one key/value line of a diagnostic
type JSONDetail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// JSONFormatter formats check results as JSON
type JSONFormatter struct {
	writer  io.Writer
	results []JSONCheck
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONCheck, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		c := JSONCheck{
			Name:     r.Name,
			File:     result.File,
			Passed:   r.Passed,
			Skipped:  r.Skipped,
			Duration: float64(r.Duration.Milliseconds()),
		}

		if r.SkipReason != "" && r.SkipReason != "filtered out" {
			c.SkipReason = r.SkipReason
		}

		if r.Err != nil {
			c.Error = r.Err.Error()
		}

		if r.Check != nil {
			c.Op = r.Check.Op
			c.Path = r.Check.Path

			if d := r.Check.Diagnostic; d != nil {
				jd := &JSONDiagnostic{Title: d.Title}
				for _, det := range d.Details {
					jd.Details = append(jd.Details, JSONDetail{Key: det.Key, Value: det.Value})
				}
				c.Diagnostic = jd
			}
		}

		f.results = append(f.results, c)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual check results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var passed, failed, skipped int
	for _, c := range f.results {
		if c.Skipped {
			skipped++
		} else if c.Passed {
			passed++
		} else {
			failed++
		}
	}

	output := JSONOutput{
		Summary: JSONSummary{
			Total:   len(f.results),
			Passed:  passed,
			Failed:  failed,
			Skipped: skipped,
		},
		Checks:   f.results,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
