package history

import (
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Stats aggregates the recorded runs of one manifest
type Stats struct {
	Manifest string
	Runs     int
	FirstRun time.Time
	LastRun  time.Time
	Checks   []*CheckStats
}

// CheckStats aggregates one check across runs. Flips counts pass/fail
// transitions between consecutive runs; a check that alternates is
// flakier than one that failed once and stayed red.
type CheckStats struct {
	Name     string
	Runs     int
	Passed   int
	PassRate float64
	Flips    int
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
	Max      time.Duration
}

// Stats aggregates all recorded runs of a manifest. Checks come back
// sorted by name.
func (s *Store) Stats(manifest string) (*Stats, error) {
	stats := &Stats{Manifest: manifest}

	runRows, err := s.db.Query(
		`SELECT started_at FROM runs WHERE manifest = ? ORDER BY started_at`, manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer runRows.Close()

	for runRows.Next() {
		var startedAt time.Time
		if err := runRows.Scan(&startedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if stats.Runs == 0 {
			stats.FirstRun = startedAt
		}
		stats.LastRun = startedAt
		stats.Runs++
	}
	if err := runRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	if stats.Runs == 0 {
		return stats, nil
	}

	rows, err := s.db.Query(
		`SELECT results.name, results.passed, results.duration_us
		 FROM results
		 JOIN runs ON runs.id = results.run_id
		 WHERE runs.manifest = ?
		 ORDER BY results.name, runs.started_at`, manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var (
		cur        *CheckStats
		hist       *hdrhistogram.Histogram
		prevPassed bool
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.PassRate = float64(cur.Passed) / float64(cur.Runs)
		cur.P50 = time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond
		cur.P95 = time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond
		cur.P99 = time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond
		cur.Max = time.Duration(hist.Max()) * time.Microsecond
		stats.Checks = append(stats.Checks, cur)
	}

	for rows.Next() {
		var (
			name       string
			passed     bool
			durationUs int64
		)
		if err := rows.Scan(&name, &passed, &durationUs); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		if cur == nil || cur.Name != name {
			flush()
			cur = &CheckStats{Name: name}
			// Histogram: 1us to 60s range, 3 significant digits
			hist = hdrhistogram.New(1, 60_000_000, 3)
			prevPassed = passed
		} else if passed != prevPassed {
			cur.Flips++
			prevPassed = passed
		}

		cur.Runs++
		if passed {
			cur.Passed++
		}

		us := durationUs
		if us < 1 {
			us = 1
		}
		if us > 60_000_000 {
			us = 60_000_000
		}
		_ = hist.RecordValue(us)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	flush()

	return stats, nil
}
