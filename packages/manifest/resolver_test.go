package manifest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		vars     map[string]string
		expected string
	}{
		{
			name:     "no references",
			input:    "/etc/passwd",
			expected: "/etc/passwd",
		},
		{
			name:     "variable reference",
			input:    "{{conf}}/config.yaml",
			vars:     map[string]string{"conf": "/etc/myapp"},
			expected: "/etc/myapp/config.yaml",
		},
		{
			name:     "multiple references",
			input:    "{{root}}/{{name}}.log",
			vars:     map[string]string{"root": "/var/log", "name": "app"},
			expected: "/var/log/app.log",
		},
		{
			name:     "whitespace inside braces",
			input:    "{{ conf }}/config.yaml",
			vars:     map[string]string{"conf": "/etc/myapp"},
			expected: "/etc/myapp/config.yaml",
		},
		{
			name:     "unresolved reference left in place",
			input:    "{{missing}}/file",
			expected: "{{missing}}/file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.vars)
			assert.Equal(t, tt.expected, r.Resolve(tt.input))
		})
	}
}

func TestResolver_Environment(t *testing.T) {
	t.Setenv("FSPEC_TEST_DIR", "/opt/data")

	r := NewResolver(nil)
	assert.Equal(t, "/opt/data/seed.bin", r.Resolve("{{$FSPEC_TEST_DIR}}/seed.bin"))
}

func TestResolver_Warnings(t *testing.T) {
	var warnings []string
	r := NewResolver(map[string]string{"known": "x"})
	r.SetWarnFunc(func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	})

	r.Resolve("{{known}} {{unknown}} {{$FSPEC_NO_SUCH_VAR}}")

	require.Len(t, warnings, 2)
	assert.Equal(t, "unresolved variable: unknown", warnings[0])
	assert.Equal(t, "unresolved environment variable: $FSPEC_NO_SUCH_VAR", warnings[1])
}

func TestResolver_ResolveCheck(t *testing.T) {
	r := NewResolver(map[string]string{"conf": "/etc/myapp"})
	equals := "{{conf}}"
	original := &Check{
		Name:    "resolved",
		Check:   "file-json",
		Path:    "{{conf}}/state.json",
		Query:   "paths.configDir",
		Equals:  &equals,
		Pattern: "{{conf}}",
	}

	resolved := r.ResolveCheck(original)

	assert.Equal(t, "/etc/myapp/state.json", resolved.Path)
	assert.Equal(t, "/etc/myapp", *resolved.Equals)
	assert.Equal(t, "/etc/myapp", resolved.Pattern)

	assert.Equal(t, "{{conf}}/state.json", original.Path, "original must not change")
	assert.Equal(t, "{{conf}}", *original.Equals)
}
