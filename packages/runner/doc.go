// Package runner executes fspec manifests against the live filesystem.
//
// It provides functionality for:
//   - Running manifest files with name and tag filtering
//   - Sequential and parallel execution with configurable concurrency
//   - Bail-out on the first failing check
//   - Variable resolution and optional .env loading
//   - Polling a manifest until every check passes
//
// Checks are independent leaves with no ordering between them, so
// parallel execution is always safe.
package runner
