package ports

import (
	"context"

	"github.com/aretw0/enhance/pkg/domain"
)

// OptionsStore defines the interface for holding a host's options mapping.
type OptionsStore interface {
	// Merge shallow-merges opts into the stored mapping (last write wins per key).
	Merge(ctx context.Context, opts domain.Options) error

	// Snapshot returns a copy of the stored mapping. It is never nil.
	Snapshot(ctx context.Context) (domain.Options, error)

	// Reset removes every key.
	Reset(ctx context.Context) error
}
