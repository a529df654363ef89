package domain

import (
	"reflect"
	"sort"
)

// ContextDiff represents the changes a run made to a Context.
// It is designed to be serialized for reporting.
type ContextDiff struct {
	// Added holds keys that did not exist before the run.
	Added map[string]any `json:"added,omitempty" yaml:"added,omitempty"`

	// Changed holds keys whose value differs after the run.
	Changed map[string]any `json:"changed,omitempty" yaml:"changed,omitempty"`

	// Removed lists keys deleted by the run, sorted.
	Removed []string `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// Diff calculates the difference between before and after.
// It returns nil when nothing changed.
func Diff(before, after Context) *ContextDiff {
	diff := &ContextDiff{}

	for k, newVal := range after {
		oldVal, exists := before[k]
		if !exists {
			if diff.Added == nil {
				diff.Added = make(map[string]any)
			}
			diff.Added[k] = newVal
			continue
		}
		if !reflect.DeepEqual(oldVal, newVal) {
			if diff.Changed == nil {
				diff.Changed = make(map[string]any)
			}
			diff.Changed[k] = newVal
		}
	}

	for k := range before {
		if _, exists := after[k]; !exists {
			diff.Removed = append(diff.Removed, k)
		}
	}
	sort.Strings(diff.Removed)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// Clone returns a shallow copy of the context, used to snapshot it before a run.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// IsEmpty checks if the diff contains any changes.
func (d *ContextDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0
}
