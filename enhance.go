package enhance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/enhance/internal/logging"
	"github.com/aretw0/enhance/pkg/domain"
	"github.com/aretw0/enhance/pkg/ports"
)

// Enhancer holds the originals captured from a host and the wrapped methods
// installed in their place.
type Enhancer struct {
	app      ports.Application
	original func(ports.Plugin) error
	run      ports.RunMethod
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// Option defines a functional option for configuring the decorator.
type Option func(*Enhancer)

// WithLogger sets a custom structured logger. Contained failures are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enhancer) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Enhancer) {
		e.hooks = hooks
	}
}

// New returns the decorator as a plugin. Applied to a host it merges opts into
// the host options and replaces "use" (and "run", when the host has one) with
// versions that never let a plugin failure escape: failures are emitted on
// the host's error channel instead.
//
// Applying it again to the same host is a no-op.
func New(opts domain.Options, settings ...Option) ports.Plugin {
	return func(app ports.Application) (domain.Transformer, error) {
		if app.IsRegistered(domain.MarkerName) {
			return nil, nil
		}
		app.MarkRegistered(domain.MarkerName)

		e := &Enhancer{app: app}
		for _, s := range settings {
			s(e)
		}
		if e.logger == nil {
			e.logger = logging.NewNop()
		}

		e.original = e.captureUse()
		if m, ok := app.Method(domain.MethodRun); ok {
			if run, ok := m.(ports.RunMethod); ok {
				e.run = run
			}
		}

		if err := app.MergeOptions(opts); err != nil {
			e.report(domain.StageOptions, -1, "", err)
		}

		app.Define(domain.MethodUse, ports.UseMethod(e.Use))
		if e.run != nil {
			app.Define(domain.MethodRun, ports.RunMethod(e.Run))
		}

		e.logger.Debug("plugins enhanced", "run", e.run != nil)
		return nil, nil
	}
}

// captureUse returns the host's current "use" bound to a single plugin, or
// the Register primitive when no usable method is defined.
func (e *Enhancer) captureUse() func(ports.Plugin) error {
	if m, ok := e.app.Method(domain.MethodUse); ok {
		if use, ok := m.(ports.UseMethod); ok {
			return func(p ports.Plugin) error {
				return use(p, nil)
			}
		}
	}
	return e.app.Register
}

// Use merges opts, then registers arg: one plugin, or each plugin of a list
// in order. Every plugin is contained on its own, so a failure never stops
// the remaining ones. It always returns nil.
func (e *Enhancer) Use(arg any, opts domain.Options) error {
	if opts != nil {
		if err := e.app.MergeOptions(opts); err != nil {
			e.report(domain.StageOptions, -1, "", err)
		}
	}

	switch v := resolve(arg).(type) {
	case single:
		e.register(-1, v.plugin, v.name)
	case list:
		for i, it := range v.items {
			if it.plugin == nil {
				e.report(domain.StageUse, i, it.name, fmt.Errorf("%w: %T", domain.ErrInvalidPlugin, it.raw))
				continue
			}
			e.register(i, it.plugin, it.name)
		}
	case unrecognized:
		e.report(domain.StageUse, -1, "", fmt.Errorf("%w: %T", domain.ErrInvalidPlugin, v.value))
	}
	return nil
}

// Run hands ctx to the original run as a single contained call.
// It always returns nil.
func (e *Enhancer) Run(ctx domain.Context) error {
	err := contain(func() error {
		return e.run(ctx)
	})
	if err != nil {
		e.report(domain.StageRun, -1, "", err)
	}

	if e.hooks.OnRun != nil {
		e.hooks.OnRun(context.Background(), &domain.RunEvent{
			EventBase: domain.NewEventBase(domain.EventRun),
			Keys:      len(ctx),
			Failed:    err != nil,
		})
	}
	return nil
}

func (e *Enhancer) register(index int, p ports.Plugin, name string) {
	if e.hooks.OnUse != nil {
		e.hooks.OnUse(context.Background(), &domain.PluginEvent{
			EventBase: domain.NewEventBase(domain.EventPluginUse),
			Index:     index,
			Name:      name,
		})
	}

	err := contain(func() error {
		return e.original(p)
	})
	if err != nil {
		e.report(domain.StageUse, index, name, err)
	}
}

// report wraps err and emits it on the host's error channel.
func (e *Enhancer) report(stage domain.Stage, index int, name string, err error) {
	perr := &domain.PluginError{Stage: stage, Index: index, Name: name, Err: err}

	e.logger.Debug("plugin failure contained",
		"stage", stage,
		"index", index,
		"plugin", name,
		"error", err,
	)

	if e.hooks.OnPluginError != nil {
		e.hooks.OnPluginError(context.Background(), &domain.ErrorEvent{
			EventBase: domain.NewEventBase(domain.EventPluginError),
			Stage:     stage,
			Err:       perr,
		})
	}

	e.app.EmitError(perr)
}
