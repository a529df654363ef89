package ports

import (
	"context"
	"testing"

	"github.com/aretw0/enhance/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunOptionsStoreContract runs a suite of tests to verify that an OptionsStore
// implementation adheres to the defined interface contract.
func RunOptionsStoreContract(t *testing.T, store OptionsStore) {
	ctx := context.Background()

	t.Run("Empty Snapshot", func(t *testing.T) {
		require.NoError(t, store.Reset(ctx))

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.NotNil(t, snap, "Snapshot should never be nil")
		assert.Empty(t, snap)
	})

	t.Run("Shallow Cumulative Merge", func(t *testing.T) {
		require.NoError(t, store.Reset(ctx))

		require.NoError(t, store.Merge(ctx, domain.Options{"a": "1"}))
		require.NoError(t, store.Merge(ctx, domain.Options{"a": "2", "b": "3"}))

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Options{"a": "2", "b": "3"}, snap)
	})

	t.Run("Nil Merge Is No-op", func(t *testing.T) {
		require.NoError(t, store.Reset(ctx))
		require.NoError(t, store.Merge(ctx, domain.Options{"x": "y"}))
		require.NoError(t, store.Merge(ctx, nil))

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Options{"x": "y"}, snap)
	})

	t.Run("Snapshot Is A Copy", func(t *testing.T) {
		require.NoError(t, store.Reset(ctx))
		require.NoError(t, store.Merge(ctx, domain.Options{"k": "v"}))

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		snap["k"] = "mutated"

		again, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, "v", again["k"])
	})

	t.Run("Reset", func(t *testing.T) {
		require.NoError(t, store.Merge(ctx, domain.Options{"gone": true}))
		require.NoError(t, store.Reset(ctx))

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap)
	})
}
