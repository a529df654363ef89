package domain_test

import (
	"testing"

	"github.com/aretw0/enhance/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestMerge_ShallowAndCumulative(t *testing.T) {
	opts := domain.Merge(nil, domain.Options{"a": 1})
	opts = domain.Merge(opts, domain.Options{"a": 2, "b": 3})

	assert.Equal(t, domain.Options{"a": 2, "b": 3}, opts)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := domain.Options{"x": "y"}
	src := domain.Options{"aa": "aaa"}

	out := domain.Merge(base, src)
	out["extra"] = true

	assert.Equal(t, domain.Options{"x": "y"}, base)
	assert.Equal(t, domain.Options{"aa": "aaa"}, src)
	assert.Equal(t, domain.Options{"x": "y", "aa": "aaa", "extra": true}, out)
}

func TestMerge_NestedMapsAreNotMerged(t *testing.T) {
	base := domain.Options{"nested": map[string]any{"a": 1, "b": 2}}
	out := domain.Merge(base, domain.Options{"nested": map[string]any{"c": 3}})

	assert.Equal(t, map[string]any{"c": 3}, out["nested"], "merge must be shallow: last write replaces the whole value")
}

func TestOptions_CloneNil(t *testing.T) {
	var opts domain.Options
	clone := opts.Clone()
	assert.NotNil(t, clone)
	assert.Empty(t, clone)
}
