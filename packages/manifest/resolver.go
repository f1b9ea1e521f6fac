package manifest

import (
	"os"
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver substitutes {{name}} manifest variables and {{$NAME}}
// environment references in check fields. Substitution is a single
// pass; replacement text is not rescanned.
type Resolver struct {
	vars     map[string]string
	warnFunc WarnFunc
}

func NewResolver(vars map[string]string) *Resolver {
	r := &Resolver{vars: make(map[string]string, len(vars))}
	for k, v := range vars {
		r.vars[k] = v
	}
	return r
}

// SetWarnFunc sets a function to be called when a reference does not
// resolve. Unresolved references are left in place.
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	if r.warnFunc != nil {
		r.warnFunc(format, args...)
	}
}

func (r *Resolver) Resolve(input string) string {
	if input == "" {
		return input
	}
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])

		if strings.HasPrefix(expr, "$") {
			envVar := expr[1:]
			if val := os.Getenv(envVar); val != "" {
				return val
			}
			r.warn("unresolved environment variable: $%s", envVar)
			return match
		}

		if val, ok := r.vars[expr]; ok {
			return val
		}
		r.warn("unresolved variable: %s", expr)
		return match
	})
}

// ResolveCheck returns a copy of the check with every string argument
// resolved. The original is left untouched.
func (r *Resolver) ResolveCheck(c *Check) *Check {
	out := *c
	out.Path = r.Resolve(c.Path)
	out.Pattern = r.Resolve(c.Pattern)
	out.Target = r.Resolve(c.Target)
	out.Other = r.Resolve(c.Other)
	out.Mode = r.Resolve(c.Mode)
	out.Query = r.Resolve(c.Query)
	out.Schema = r.Resolve(c.Schema)
	if c.Equals != nil {
		eq := r.Resolve(*c.Equals)
		out.Equals = &eq
	}
	return &out
}
