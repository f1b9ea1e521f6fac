package runner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultWaitTimeout bounds WaitFile when no timeout is given
	DefaultWaitTimeout = 30 * time.Second
	// DefaultWaitInterval paces polling attempts
	DefaultWaitInterval = 500 * time.Millisecond
)

// WaitConfig controls polling in WaitFile.
type WaitConfig struct {
	Timeout  time.Duration
	Interval time.Duration
}

// WaitFile polls a manifest until every check passes or the deadline
// expires. The first attempt runs immediately; later attempts are
// paced by a rate limiter at the configured interval. On timeout the
// last result is returned alongside the error so callers can show
// what was still failing.
func (r *Runner) WaitFile(ctx context.Context, path string, cfg *WaitConfig) (*RunResult, error) {
	timeout := DefaultWaitTimeout
	interval := DefaultWaitInterval
	if cfg != nil {
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
		if cfg.Interval > 0 {
			interval = cfg.Interval
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(interval), 1)

	var last *RunResult
	for {
		if err := limiter.Wait(ctx); err != nil {
			if last != nil {
				return last, fmt.Errorf("checks not green after %v: %d still failing", timeout, last.Failed)
			}
			return nil, fmt.Errorf("checks not green after %v: %w", timeout, err)
		}

		result, err := r.RunFile(path)
		if err != nil {
			// A manifest that cannot be parsed will not heal by waiting.
			return nil, err
		}
		last = result

		if result.Failed == 0 {
			return result, nil
		}
	}
}
