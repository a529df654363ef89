package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/enhance"
	"github.com/aretw0/enhance/pkg/adapters/redis"
	"github.com/aretw0/enhance/pkg/app"
	"github.com/aretw0/enhance/pkg/domain"
	"github.com/aretw0/enhance/pkg/manifest"
	"github.com/aretw0/enhance/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ErrStrict is returned by a strict run that contained at least one failure.
var ErrStrict = errors.New("plugin failures were contained")

type runConfig struct {
	Manifest    string
	Context     []string
	Format      string
	Diff        bool
	RedisAddr   string
	RedisName   string
	Strict      bool
	MetricsFile string
}

type runResult struct {
	Context  domain.Context
	Diff     *domain.ContextDiff
	Failures []error
}

var runCmd = &cobra.Command{
	Use:   "run <manifest>",
	Short: "Apply a manifest and run its transformers",
	Long: `Applies every step of the manifest to a fresh enhanced host, then runs the
registered transformers over the context built from --context pairs.
The resulting context (or its diff with --diff) is printed to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := runConfig{Manifest: args[0]}
		cfg.Context, _ = cmd.Flags().GetStringArray("context")
		cfg.Format, _ = cmd.Flags().GetString("format")
		cfg.Diff, _ = cmd.Flags().GetBool("diff")
		cfg.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
		cfg.RedisName, _ = cmd.Flags().GetString("redis-name")
		cfg.Strict, _ = cmd.Flags().GetBool("strict")
		cfg.MetricsFile, _ = cmd.Flags().GetString("metrics-file")

		res, err := runPipeline(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		if err := writeResult(cmd.OutOrStdout(), cfg, res); err != nil {
			return err
		}
		for _, f := range res.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "contained: %v\n", f)
		}
		if cfg.Strict && len(res.Failures) > 0 {
			return fmt.Errorf("%w: %d", ErrStrict, len(res.Failures))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringArrayP("context", "c", nil, "Initial context entry as key=value (repeatable)")
	runCmd.Flags().StringP("format", "f", "json", "Output format (json, yaml)")
	runCmd.Flags().Bool("diff", false, "Print only what the run changed")
	runCmd.Flags().String("redis-addr", "", "Keep host options in Redis at this address")
	runCmd.Flags().String("redis-name", "", "Options key name in Redis (defaults to the manifest name)")
	runCmd.Flags().Bool("strict", false, "Exit with an error if any plugin failure was contained")
	runCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file after the run")
}

// runPipeline applies the manifest to an enhanced host and runs it.
// Contained failures are collected in the result; only setup errors and a
// failure of the host itself are returned.
func runPipeline(ctx context.Context, cfg runConfig, logger *slog.Logger) (*runResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	runCtx, err := parseContext(cfg.Context)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(cfg.Manifest)
	if err != nil {
		return nil, err
	}
	reg := newRegistry()
	if err := m.Validate(reg); err != nil {
		logger.Warn("manifest has problems, affected entries will be reported", "error", err)
	}

	promReg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(promReg)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(cfg.Manifest), filepath.Ext(cfg.Manifest))
	appOpts := []app.Option{app.WithName(name), app.WithLogger(logger)}

	if cfg.RedisAddr != "" {
		client := backend.NewClient(&backend.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		storeName := cfg.RedisName
		if storeName == "" {
			storeName = name
		}
		appOpts = append(appOpts,
			app.WithStore(redis.NewFromClient(client, redis.WithName(storeName))),
			app.WithLocker(redis.NewLocker(client, "enhance:"), 5*time.Second),
		)
	}

	res := &runResult{}
	a := app.New(appOpts...)
	a.OnError(func(err error) {
		res.Failures = append(res.Failures, err)
	})

	hooks := observability.Combine(metrics.Hooks(), observability.LoggingHooks(logger))
	a.Use(app.Runner()).
		Use(enhance.New(m.Options, enhance.WithLogger(logger), enhance.WithHooks(hooks)))

	before := runCtx.Clone()
	m.Apply(a, reg).Run(runCtx)
	if err := a.Err(); err != nil {
		return nil, err
	}

	res.Context = runCtx
	res.Diff = domain.Diff(before, runCtx)

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, promReg); err != nil {
			return nil, fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return res, nil
}

func writeResult(w io.Writer, cfg runConfig, res *runResult) error {
	var v any = res.Context
	if cfg.Diff {
		if res.Diff == nil {
			v = &domain.ContextDiff{}
		} else {
			v = res.Diff
		}
	}

	switch strings.ToLower(cfg.Format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format %q", cfg.Format)
	}
}

// parseContext builds a context from key=value pairs. Values are read as
// YAML scalars, so numbers and booleans keep their type.
func parseContext(pairs []string) (domain.Context, error) {
	ctx := domain.Context{}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid context entry %q, want key=value", pair)
		}

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
			value = raw
		}
		ctx[key] = value
	}
	return ctx, nil
}
