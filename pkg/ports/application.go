package ports

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/aretw0/enhance/pkg/domain"
)

// Plugin is a unit of behavior attached to a host. A smart plugin returns a
// Transformer applied on every run; a plain plugin returns nil.
type Plugin func(app Application) (domain.Transformer, error)

// UseMethod is the signature of the host's "use" entry point.
// arg is a plugin, a list of plugins, or anything else the caller passed.
type UseMethod func(arg any, opts domain.Options) error

// RunMethod is the signature of the host's "run" entry point.
type RunMethod func(ctx domain.Context) error

// Application defines the capabilities the decorator requires from a host.
type Application interface {
	// IsRegistered reports whether a named feature marker is already set.
	IsRegistered(name string) bool

	// MarkRegistered sets a named feature marker. Markers are never cleared.
	MarkRegistered(name string)

	// Options returns a snapshot of the options store.
	Options() domain.Options

	// MergeOptions shallow-merges opts into the options store.
	MergeOptions(opts domain.Options) error

	// Register is the original registration primitive: it invokes p with the
	// host and may fail by returning an error or panicking.
	Register(p Plugin) error

	// Define installs or overwrites a named method.
	Define(name string, method any)

	// Method returns the named method, if any.
	Method(name string) (any, bool)

	// EmitError broadcasts err to the error channel. It never fails.
	EmitError(err error)
}

// NamedPlugin attaches a display name to a plugin for error reports.
type NamedPlugin struct {
	Name   string
	Plugin Plugin
}

// AsPlugin normalizes the shapes accepted as plugins: Plugin, NamedPlugin and
// the plain function forms below.
func AsPlugin(v any) (Plugin, bool) {
	switch fn := v.(type) {
	case NamedPlugin:
		return fn.Plugin, fn.Plugin != nil
	case *NamedPlugin:
		if fn == nil {
			return nil, false
		}
		return fn.Plugin, fn.Plugin != nil
	case Plugin:
		return fn, fn != nil
	case func(Application) (domain.Transformer, error):
		return Plugin(fn), fn != nil
	case func(Application) domain.Transformer:
		if fn == nil {
			return nil, false
		}
		return func(app Application) (domain.Transformer, error) {
			return fn(app), nil
		}, true
	case func(Application) error:
		if fn == nil {
			return nil, false
		}
		return func(app Application) (domain.Transformer, error) {
			return nil, fn(app)
		}, true
	case func(Application):
		if fn == nil {
			return nil, false
		}
		return func(app Application) (domain.Transformer, error) {
			fn(app)
			return nil, nil
		}, true
	default:
		return nil, false
	}
}

// PluginName returns a best-effort name for v: the NamedPlugin name, or the
// short function name of a func value.
func PluginName(v any) string {
	switch p := v.(type) {
	case NamedPlugin:
		return p.Name
	case *NamedPlugin:
		if p != nil {
			return p.Name
		}
		return ""
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return ""
	}
	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return ""
	}
	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
