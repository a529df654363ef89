package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/enhance/internal/logging"
	"github.com/aretw0/enhance/pkg/adapters/memory"
	"github.com/aretw0/enhance/pkg/domain"
	"github.com/aretw0/enhance/pkg/ports"
)

// ErrNilContext is returned by the run primitive when handed a nil Context.
var ErrNilContext = errors.New("nil run context")

// App is a host application: options store, registration markers, a method
// table and an error channel. It satisfies ports.Application.
//
// Use and Run dispatch through the method table, so a decorator can replace
// them with Define.
type App struct {
	name    string
	logger  *slog.Logger
	store   ports.OptionsStore
	locker  ports.DistributedLocker
	lockTTL time.Duration
	seed    domain.Options

	mu           sync.Mutex // guards markers, methods, transformers, err
	markers      map[string]bool
	methods      map[string]any
	transformers []domain.Transformer
	err          error

	// optsMu makes the options read-modify-write a critical section.
	optsMu sync.Mutex

	events *Emitter
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithName sets the host name, used for log enrichment and lock keys.
func WithName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithStore injects the OptionsStore. Defaults to an in-memory store.
func WithStore(store ports.OptionsStore) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithLocker guards option merges with a distributed lock, for stores shared
// between replicas.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(a *App) {
		a.locker = locker
		a.lockTTL = ttl
	}
}

// WithOptions seeds the options store.
func WithOptions(opts domain.Options) Option {
	return func(a *App) {
		a.seed = domain.Merge(a.seed, opts)
	}
}

// New creates a host application.
func New(opts ...Option) *App {
	a := &App{
		name:    "app",
		lockTTL: 5 * time.Second,
		markers: make(map[string]bool),
		methods: make(map[string]any),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	a.logger = a.logger.With("app", a.name)

	if a.store == nil {
		a.store = memory.NewStore(a.seed)
	} else if len(a.seed) > 0 {
		if err := a.store.Merge(context.Background(), a.seed); err != nil {
			a.logger.Error("failed to seed options", "error", err)
		}
	}

	a.events = NewEmitter(a.logger)
	a.methods[domain.MethodUse] = ports.UseMethod(a.use)
	return a
}

// Name returns the host name.
func (a *App) Name() string {
	return a.name
}

// IsRegistered reports whether a named feature marker is set.
func (a *App) IsRegistered(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.markers[name]
}

// MarkRegistered sets a named feature marker.
func (a *App) MarkRegistered(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.markers[name] = true
}

// Options returns a snapshot of the options store.
// A store failure is logged and yields an empty mapping.
func (a *App) Options() domain.Options {
	opts, err := a.store.Snapshot(context.Background())
	if err != nil {
		a.logger.Error("failed to read options", "error", err)
		return domain.Options{}
	}
	return opts
}

// MergeOptions shallow-merges opts into the options store.
func (a *App) MergeOptions(opts domain.Options) error {
	ctx := context.Background()

	a.optsMu.Lock()
	defer a.optsMu.Unlock()

	if a.locker != nil {
		unlock, err := a.locker.Lock(ctx, "options:"+a.name, a.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to lock options: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				a.logger.Warn("failed to release options lock", "error", err)
			}
		}()
	}

	if err := a.store.Merge(ctx, opts); err != nil {
		return fmt.Errorf("failed to merge options: %w", err)
	}
	return nil
}

// Register invokes p with the host and stacks its transformer, if any.
// Errors are returned as-is; panics propagate to the caller.
func (a *App) Register(p ports.Plugin) error {
	tr, err := p(a)
	if err != nil {
		return err
	}
	if tr != nil {
		a.mu.Lock()
		a.transformers = append(a.transformers, tr)
		a.mu.Unlock()
	}
	return nil
}

// Transformers returns the stacked transformers in registration order.
func (a *App) Transformers() []domain.Transformer {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.Transformer, len(a.transformers))
	copy(out, a.transformers)
	return out
}

// Define installs or overwrites a named method.
func (a *App) Define(name string, method any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.methods[name] = method
}

// Method returns the named method.
func (a *App) Method(name string) (any, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.methods[name]
	return m, ok
}

// Use hands arg to the current "use" method. Options passed here are merged
// together and forwarded to it.
// Failures the method reports are kept as the sticky Err.
func (a *App) Use(arg any, opts ...domain.Options) *App {
	var merged domain.Options
	if len(opts) > 0 {
		merged = domain.Merge(nil, opts...)
	}

	method, err := a.useMethod()
	if err != nil {
		a.fail(err)
		return a
	}
	if err := method(arg, merged); err != nil {
		a.fail(err)
	}
	return a
}

// Run hands ctx to the current "run" method.
func (a *App) Run(ctx domain.Context) *App {
	m, ok := a.Method(domain.MethodRun)
	if !ok {
		a.fail(domain.ErrNoRunner)
		return a
	}
	run, ok := m.(ports.RunMethod)
	if !ok {
		a.fail(fmt.Errorf("method %q has unexpected type %T", domain.MethodRun, m))
		return a
	}
	if err := run(ctx); err != nil {
		a.fail(err)
	}
	return a
}

// Err returns the first failure that escaped Use or Run, if any.
func (a *App) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// On subscribes fn to event.
func (a *App) On(event string, fn Handler) Subscription {
	return a.events.On(event, fn)
}

// Once subscribes fn to the next emission of event.
func (a *App) Once(event string, fn Handler) Subscription {
	return a.events.Once(event, fn)
}

// Off removes a subscription.
func (a *App) Off(sub Subscription) bool {
	return a.events.Off(sub)
}

// OnError subscribes fn to the error channel.
func (a *App) OnError(fn func(error)) Subscription {
	return a.events.On(domain.EventError, func(payload any) {
		if err, ok := payload.(error); ok {
			fn(err)
		}
	})
}

// Emit broadcasts payload to the handlers of event.
func (a *App) Emit(event string, payload any) int {
	return a.events.Emit(event, payload)
}

// EmitError broadcasts err on the error channel.
func (a *App) EmitError(err error) {
	a.events.Emit(domain.EventError, err)
}

func (a *App) useMethod() (ports.UseMethod, error) {
	m, ok := a.Method(domain.MethodUse)
	if !ok {
		return nil, fmt.Errorf("method %q is not defined", domain.MethodUse)
	}
	use, ok := m.(ports.UseMethod)
	if !ok {
		return nil, fmt.Errorf("method %q has unexpected type %T", domain.MethodUse, m)
	}
	return use, nil
}

// use is the built-in "use": a single plugin, no options, no containment.
func (a *App) use(arg any, _ domain.Options) error {
	p, ok := ports.AsPlugin(arg)
	if !ok {
		return fmt.Errorf("%w: %T", domain.ErrInvalidPlugin, arg)
	}
	return a.Register(p)
}

func (a *App) fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err == nil {
		a.err = err
	}
	a.logger.Debug("uncontained failure", "error", err)
}
