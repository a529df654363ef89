package domain

import (
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		before   Context
		after    Context
		wantDiff *ContextDiff
	}{
		{
			name:     "No Changes",
			before:   Context{"a": 1},
			after:    Context{"a": 1},
			wantDiff: nil,
		},
		{
			name:   "Added Keys",
			before: Context{"foo": "bar"},
			after:  Context{"foo": "bar", "aaa": "bbb", "ccc": "ddd"},
			wantDiff: &ContextDiff{
				Added: map[string]any{"aaa": "bbb", "ccc": "ddd"},
			},
		},
		{
			name:   "Changed And Removed",
			before: Context{"a": 1, "b": 2, "c": 3},
			after:  Context{"a": 10},
			wantDiff: &ContextDiff{
				Changed: map[string]any{"a": 10},
				Removed: []string{"b", "c"},
			},
		},
		{
			name:   "Nil Before",
			before: nil,
			after:  Context{"x": []string{"y"}},
			wantDiff: &ContextDiff{
				Added: map[string]any{"x": []string{"y"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.before, tt.after)
			if !reflect.DeepEqual(got, tt.wantDiff) {
				t.Errorf("Diff() = %+v, want %+v", got, tt.wantDiff)
			}
		})
	}
}

func TestContext_CloneIsShallowCopy(t *testing.T) {
	orig := Context{"k": "v"}
	cp := orig.Clone()
	cp["k"] = "changed"
	cp["new"] = true

	if orig["k"] != "v" {
		t.Errorf("clone mutation leaked into original: %v", orig)
	}
	if _, ok := orig["new"]; ok {
		t.Error("clone addition leaked into original")
	}
}
