package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/enhance/pkg/domain"
)

// Combine merges several hook sets into one that calls each in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnUse: func(ctx context.Context, e *domain.PluginEvent) {
			for _, s := range sets {
				if s.OnUse != nil {
					s.OnUse(ctx, e)
				}
			}
		},
		OnPluginError: func(ctx context.Context, e *domain.ErrorEvent) {
			for _, s := range sets {
				if s.OnPluginError != nil {
					s.OnPluginError(ctx, e)
				}
			}
		},
		OnRun: func(ctx context.Context, e *domain.RunEvent) {
			for _, s := range sets {
				if s.OnRun != nil {
					s.OnRun(ctx, e)
				}
			}
		},
	}
}

// LoggingHooks logs every lifecycle event to logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnUse: func(ctx context.Context, e *domain.PluginEvent) {
			logger.DebugContext(ctx, "plugin_use", "index", e.Index, "plugin", e.Name)
		},
		OnPluginError: func(ctx context.Context, e *domain.ErrorEvent) {
			logger.WarnContext(ctx, "plugin_error", "stage", e.Stage, "error", e.Err)
		},
		OnRun: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run", "keys", e.Keys, "failed", e.Failed)
		},
	}
}
