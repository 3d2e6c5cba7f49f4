package confloader

import (
	"maps"
	"slices"
	"strings"
)

// Env is an immutable snapshot of environment inputs.
type Env struct {
	vars map[string]string
}

// NewEnv creates a snapshot from a map. The map is copied.
func NewEnv(vars map[string]string) Env {
	return Env{vars: maps.Clone(vars)}
}

// ParseEnviron creates a snapshot from KEY=VALUE pairs, as returned by
// os.Environ. Malformed entries are skipped; later entries win.
func ParseEnviron(environ []string) Env {
	vars := make(map[string]string, len(environ))
	for _, entry := range environ {
		if k, v, ok := strings.Cut(entry, "="); ok && k != "" {
			vars[k] = v
		}
	}
	return Env{vars: vars}
}

// Lookup returns the raw value of a variable and whether it is present.
func (e Env) Lookup(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Value returns the value of a variable with surrounding whitespace
// removed. Present-but-empty variables are reported as unset, matching
// shell ${VAR:-default} semantics.
func (e Env) Value(name string) (string, bool) {
	v := strings.TrimSpace(e.vars[name])
	if v == "" {
		return "", false
	}
	return v, true
}

// Len returns the number of variables in the snapshot.
func (e Env) Len() int {
	return len(e.vars)
}

// Keys returns the variable names in sorted order.
func (e Env) Keys() []string {
	var keys []string
	for k := range e.vars {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// With returns a copy of the snapshot with the given overrides applied.
func (e Env) With(overrides map[string]string) Env {
	vars := make(map[string]string, len(e.vars)+len(overrides))
	maps.Copy(vars, e.vars)
	maps.Copy(vars, overrides)
	return Env{vars: vars}
}

// Environ formats the snapshot as sorted KEY=VALUE pairs suitable for
// exec.
func (e Env) Environ() []string {
	keys := e.Keys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}
