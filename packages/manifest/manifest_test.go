package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
vars:
  conf: /etc/myapp

checks:
  - name: main config present
    check: file-exists
    path: "{{conf}}/config.yaml"
    tags: [smoke]
  - name: seed pinned
    check: file-size-equals
    path: "{{conf}}/seed.bin"
    size: 4096
  - check: file-contains
    path: "{{conf}}/state"
    pattern: "schema=7"
    skip: until v2 rollout
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, "/etc/myapp", doc.Vars["conf"])
	require.Len(t, doc.Checks, 3)

	first := doc.Checks[0]
	assert.Equal(t, "main config present", first.Name)
	assert.Equal(t, "file-exists", first.Check)
	assert.Equal(t, "{{conf}}/config.yaml", first.Path)
	assert.Equal(t, []string{"smoke"}, first.Tags)

	second := doc.Checks[1]
	require.NotNil(t, second.Size)
	assert.Equal(t, int64(4096), *second.Size)

	third := doc.Checks[2]
	assert.Equal(t, "check-3", third.Name, "unnamed checks get positional names")
	assert.Equal(t, "until v2 rollout", third.Skip)
}

func TestParse_EmptyDocument(t *testing.T) {
	doc, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, doc.Checks)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte(`
checks:
  - check: file-contains
    path: /tmp/a
    patern: oops
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patern")
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deploy.fspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Len(t, doc.Checks, 3)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.fspec.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read manifest")
}

func TestCheck_HasTag(t *testing.T) {
	c := &Check{Tags: []string{"smoke", "slow"}}
	assert.True(t, c.HasTag("smoke"))
	assert.False(t, c.HasTag("fast"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid manifest",
			yaml: sampleManifest,
		},
		{
			name: "unknown operation",
			yaml: `
checks:
  - name: typo
    check: file-exits
    path: /tmp/a
`,
			wantErr: `check 1 (typo): unknown operation "file-exits"`,
		},
		{
			name: "missing path",
			yaml: `
checks:
  - name: nopath
    check: file-exists
`,
			wantErr: "check 1 (nopath): path is required",
		},
		{
			name: "missing extra argument",
			yaml: `
checks:
  - name: bare
    check: file-contains
    path: /tmp/a
`,
			wantErr: "check 1 (bare): file-contains requires pattern",
		},
		{
			name: "surplus argument",
			yaml: `
checks:
  - name: extra
    check: file-exists
    path: /tmp/a
    pattern: oops
`,
			wantErr: "check 1 (extra): file-exists does not take pattern",
		},
		{
			name: "negative size",
			yaml: `
checks:
  - name: neg
    check: file-size-equals
    path: /tmp/a
    size: -1
`,
			wantErr: "check 1 (neg): size must not be negative",
		},
		{
			name: "invalid pattern",
			yaml: `
checks:
  - name: badre
    check: file-contains
    path: /tmp/a
    pattern: "(unclosed"
`,
			wantErr: "check 1 (badre): invalid pattern",
		},
		{
			name: "invalid mode",
			yaml: `
checks:
  - name: badmode
    check: file-mode
    path: /tmp/a
    mode: rwxr-x
`,
			wantErr: `check 1 (badmode): invalid mode "rwxr-x"`,
		},
		{
			name: "missing operation",
			yaml: `
checks:
  - name: noop
    path: /tmp/a
`,
			wantErr: "check 1 (noop): check operation is required",
		},
		{
			name: "duplicate name",
			yaml: `
checks:
  - name: twice
    check: file-exists
    path: /tmp/a
  - name: twice
    check: file-exists
    path: /tmp/b
`,
			wantErr: "check 2 (twice): duplicate name (also used by check 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			errs := doc.Validate()
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	doc, err := Parse([]byte(`
checks:
  - name: first
    check: file-exits
    path: /tmp/a
  - name: second
    check: file-contains
    path: /tmp/b
  - name: third
    check: file-exists
    path: /tmp/c
`))
	require.NoError(t, err)

	errs := doc.Validate()
	require.Len(t, errs, 2)
	assert.Equal(t, 1, errs[0].Index)
	assert.Equal(t, 2, errs[1].Index)
}

func TestValidate_FileJSONEqualsOptional(t *testing.T) {
	doc, err := Parse([]byte(`
checks:
  - name: has key
    check: file-json
    path: /tmp/a.json
    query: version
  - name: exact value
    check: file-json
    path: /tmp/a.json
    query: version
    equals: "7"
`))
	require.NoError(t, err)
	assert.Empty(t, doc.Validate())
}
