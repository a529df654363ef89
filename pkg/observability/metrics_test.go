package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/enhance"
	"github.com/aretw0/enhance/pkg/app"
	"github.com/aretw0/enhance/pkg/domain"
	"github.com/aretw0/enhance/pkg/observability"
	"github.com/aretw0/enhance/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordDecoratorActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	a := app.New().
		Use(app.Runner()).
		Use(enhance.New(nil, enhance.WithHooks(metrics.Hooks())))

	a.Use([]any{
		func(ports.Application) error { return errors.New("one") },
		func(ports.Application) {},
		"not a plugin",
	})
	a.Use(func(ports.Application) domain.Transformer {
		return func(domain.Context) error { return errors.New("late") }
	})
	a.Run(domain.Context{})
	a.Run(domain.Context{})

	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.Uses))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Failures.WithLabelValues("use")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Failures.WithLabelValues("run")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Runs.WithLabelValues("failed")))
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestCombine_CallsEverySet(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	errorsSeen := 0

	hooks := observability.Combine(
		observability.LoggingHooks(logger),
		domain.LifecycleHooks{
			OnPluginError: func(_ context.Context, _ *domain.ErrorEvent) { errorsSeen++ },
		},
	)

	a := app.New().Use(enhance.New(nil, enhance.WithHooks(hooks)))
	a.Use(func(ports.Application) error { return errors.New("boom") })

	assert.Equal(t, 1, errorsSeen)
	assert.Contains(t, buf.String(), "plugin_use")
	assert.Contains(t, buf.String(), "plugin_error")
}
