package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_WaitFile_AlreadyGreen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ready"), []byte("x"), 0o644))

	manifestFile := writeManifest(t, dir, `
checks:
  - name: ready marker
    check: file-exists
    path: `+filepath.Join(dir, "ready")+`
`)

	r := NewRunner(&Config{})
	result, err := r.WaitFile(context.Background(), manifestFile, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Passed)
}

func TestRunner_WaitFile_BecomesGreen(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ready")

	manifestFile := writeManifest(t, dir, `
checks:
  - name: ready marker
    check: file-exists
    path: `+marker+`
`)

	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = os.WriteFile(marker, []byte("x"), 0o644)
	}()

	r := NewRunner(&Config{})
	result, err := r.WaitFile(context.Background(), manifestFile, &WaitConfig{
		Timeout:  5 * time.Second,
		Interval: 25 * time.Millisecond,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Passed)
}

func TestRunner_WaitFile_Timeout(t *testing.T) {
	dir := t.TempDir()

	manifestFile := writeManifest(t, dir, `
checks:
  - name: never appears
    check: file-exists
    path: `+filepath.Join(dir, "never")+`
`)

	r := NewRunner(&Config{})
	result, err := r.WaitFile(context.Background(), manifestFile, &WaitConfig{
		Timeout:  200 * time.Millisecond,
		Interval: 50 * time.Millisecond,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "still failing")
	require.NotNil(t, result, "last result is returned on timeout")
	assert.Equal(t, 1, result.Failed)
}

func TestRunner_WaitFile_BadManifest(t *testing.T) {
	dir := t.TempDir()
	manifestFile := writeManifest(t, dir, `
checks:
  - name: broken
    check: no-such-op
    path: /tmp
`)

	r := NewRunner(&Config{})
	_, err := r.WaitFile(context.Background(), manifestFile, &WaitConfig{
		Timeout:  time.Second,
		Interval: 50 * time.Millisecond,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestRunner_WaitFile_ContextCancelled(t *testing.T) {
	dir := t.TempDir()
	manifestFile := writeManifest(t, dir, `
checks:
  - name: never appears
    check: file-exists
    path: `+filepath.Join(dir, "never")+`
`)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	r := NewRunner(&Config{})
	_, err := r.WaitFile(ctx, manifestFile, &WaitConfig{
		Timeout:  10 * time.Second,
		Interval: 25 * time.Millisecond,
	})

	require.Error(t, err)
}
