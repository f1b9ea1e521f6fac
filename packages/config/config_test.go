package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "console", cfg.Output)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.False(t, cfg.GetParallel())
	assert.False(t, cfg.GetBail())
	assert.False(t, cfg.GetVerbose())
	assert.False(t, cfg.GetNoColor())

	remove, add := cfg.GetPathDisplay()
	assert.Empty(t, remove)
	assert.Empty(t, add)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pathDisplay:
  remove: /var/tmp/build
  add: <build>
output: tap
concurrency: 8
parallel: true
noColor: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	remove, add := cfg.GetPathDisplay()
	assert.Equal(t, "/var/tmp/build", remove)
	assert.Equal(t, "<build>", add)
	assert.Equal(t, "tap", cfg.Output)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.True(t, cfg.GetParallel())
	assert.True(t, cfg.GetNoColor())
	assert.False(t, cfg.GetBail(), "unset fields keep defaults")
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindAndLoad(t *testing.T) {
	t.Run("search order prefers dotted name", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".fspec.yaml"), []byte("output: json\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "fspec.yaml"), []byte("output: tap\n"), 0o644))

		cfg, err := FindAndLoad(dir)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Output)
	})

	t.Run("no config file returns defaults", func(t *testing.T) {
		cfg, err := FindAndLoad(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "console", cfg.Output)
	})
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".fspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outptu: json\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outptu")
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".fspec.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Output)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()

	t.Run("nil other is a no-op", func(t *testing.T) {
		assert.Equal(t, base, base.Merge(nil))
	})

	t.Run("explicit values win", func(t *testing.T) {
		merged := base.Merge(&Config{
			Output:      "junit",
			Concurrency: 12,
			Bail:        BoolPtr(true),
			PathDisplay: &PathDisplay{Remove: "/tmp", Add: "<tmp>"},
		})

		assert.Equal(t, "junit", merged.Output)
		assert.Equal(t, 12, merged.Concurrency)
		assert.True(t, merged.GetBail())
		remove, _ := merged.GetPathDisplay()
		assert.Equal(t, "/tmp", remove)
	})

	t.Run("explicit false overrides true", func(t *testing.T) {
		cfg := &Config{Parallel: BoolPtr(true)}
		merged := cfg.Merge(&Config{Parallel: BoolPtr(false)})
		assert.False(t, merged.GetParallel())
	})

	t.Run("unset booleans do not override", func(t *testing.T) {
		cfg := &Config{Verbose: BoolPtr(true)}
		merged := cfg.Merge(&Config{Output: "tap"})
		assert.True(t, merged.GetVerbose())
	})

	t.Run("merge does not mutate the receiver", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Merge(&Config{Output: "tap"})
		assert.Equal(t, "console", cfg.Output)
	})
}
