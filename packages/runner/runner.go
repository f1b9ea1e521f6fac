package runner

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/fspec/packages/check"
	"github.com/abdul-hamid-achik/fspec/packages/manifest"
	"github.com/joho/godotenv"
)

// DefaultConcurrency is the default number of concurrent checks in parallel mode
const DefaultConcurrency = 5

type Runner struct {
	checker *check.Checker
	config  *Config
}

type Config struct {
	PathRemove  string
	PathAdd     string
	NameFilter  string
	TagsFilter  []string
	Bail        bool
	Parallel    bool
	Concurrency int
	EnvFile     string
	Warn        manifest.WarnFunc
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Runner{
		checker: check.New(check.WithPathDisplay(cfg.PathRemove, cfg.PathAdd)),
		config:  cfg,
	}
}

type RunResult struct {
	File     string
	Results  []*CheckResult
	Duration time.Duration
	Passed   int
	Failed   int
	Skipped  int
}

type CheckResult struct {
	Name       string
	Passed     bool
	Skipped    bool
	SkipReason string
	Duration   time.Duration
	Check      *check.Result
	Err        error
}

// RunFile parses, validates, and runs a manifest. Parse and validation
// problems are returned as an error; failing checks are reported in
// the RunResult.
func (r *Runner) RunFile(path string) (*RunResult, error) {
	doc, err := manifest.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if errs := doc.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid manifest %s: %s", path, strings.Join(msgs, "; "))
	}

	if r.config.EnvFile != "" {
		if err := godotenv.Load(r.config.EnvFile); err != nil {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	return r.runChecks(doc)
}

func (r *Runner) runChecks(doc *manifest.Document) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{File: doc.Path}

	resolver := manifest.NewResolver(doc.Vars)
	if r.config.Warn != nil {
		resolver.SetWarnFunc(r.config.Warn)
	}

	// First pass: record skips and resolve what will run. Resolution
	// happens up front so parallel workers share nothing mutable.
	results := make([]*CheckResult, len(doc.Checks))
	resolved := make([]*manifest.Check, len(doc.Checks))
	var runnable []int
	for i, c := range doc.Checks {
		if !r.shouldRun(c) {
			results[i] = &CheckResult{Name: c.Name, Skipped: true, SkipReason: "filtered out"}
			result.Skipped++
			continue
		}
		if c.Skip != "" {
			results[i] = &CheckResult{Name: c.Name, Skipped: true, SkipReason: c.Skip}
			result.Skipped++
			continue
		}
		resolved[i] = r.prepare(resolver, c, doc.Dir())
		runnable = append(runnable, i)
	}

	if r.config.Parallel {
		r.runParallel(runnable, resolved, results)
		for _, i := range runnable {
			if results[i].Passed {
				result.Passed++
			} else {
				result.Failed++
			}
		}
	} else {
		for _, i := range runnable {
			cr := r.runCheck(resolved[i])
			results[i] = cr
			if cr.Passed {
				result.Passed++
			} else {
				result.Failed++
				if r.config.Bail {
					break
				}
			}
		}
	}

	// Bail leaves the checks after the failure unrun; drop their slots.
	for _, cr := range results {
		if cr != nil {
			result.Results = append(result.Results, cr)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner) runParallel(runnable []int, resolved []*manifest.Check, results []*CheckResult) {
	concurrency := r.config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for _, i := range runnable {
		wg.Add(1)
		sem <- struct{}{} // acquire semaphore

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }() // release semaphore

			results[idx] = r.runCheck(resolved[idx])
		}(i)
	}

	wg.Wait()
}

func (r *Runner) runCheck(c *manifest.Check) *CheckResult {
	start := time.Now()
	cr := &CheckResult{Name: c.Name}

	res := r.evaluate(c)
	cr.Duration = time.Since(start)
	if res == nil {
		cr.Err = fmt.Errorf("unknown operation %q", c.Check)
		return cr
	}
	cr.Check = res
	cr.Passed = res.Passed
	return cr
}

func (r *Runner) shouldRun(c *manifest.Check) bool {
	if r.config.NameFilter != "" {
		if c.Name == "" || !matchesPattern(c.Name, r.config.NameFilter) {
			return false
		}
	}

	if len(r.config.TagsFilter) > 0 {
		if !hasAnyTag(c.Tags, r.config.TagsFilter) {
			return false
		}
	}

	return true
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	if pattern[0] == '*' && pattern[len(pattern)-1] == '*' {
		substr := pattern[1 : len(pattern)-1]
		return strings.Contains(name, substr)
	}

	if pattern[0] == '*' {
		suffix := pattern[1:]
		return strings.HasSuffix(name, suffix)
	}

	if pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return strings.HasPrefix(name, prefix)
	}

	return name == pattern
}

func hasAnyTag(tags []string, filters []string) bool {
	for _, filter := range filters {
		for _, tag := range tags {
			if tag == filter {
				return true
			}
		}
	}
	return false
}
