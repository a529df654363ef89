package enhance

import (
	"reflect"

	"github.com/aretw0/enhance/pkg/ports"
)

// argument is the resolved shape of what the caller passed to use:
// a single plugin, a list of plugins, or something unrecognized.
type argument interface {
	isArgument()
}

type single struct {
	plugin ports.Plugin
	name   string
}

type list struct {
	items []item
}

// item is one list element. plugin is nil when the element is not a plugin.
type item struct {
	plugin ports.Plugin
	name   string
	raw    any
}

type unrecognized struct {
	value any
}

func (single) isArgument()       {}
func (list) isArgument()         {}
func (unrecognized) isArgument() {}

// resolve classifies arg once, at the call boundary.
func resolve(arg any) argument {
	if p, ok := ports.AsPlugin(arg); ok {
		return single{plugin: p, name: ports.PluginName(arg)}
	}

	switch v := arg.(type) {
	case []ports.Plugin:
		items := make([]item, len(v))
		for i, p := range v {
			items[i] = newItem(p)
		}
		return list{items: items}
	case []any:
		items := make([]item, len(v))
		for i, raw := range v {
			items[i] = newItem(raw)
		}
		return list{items: items}
	}

	rv := reflect.ValueOf(arg)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]item, rv.Len())
		for i := range items {
			items[i] = newItem(rv.Index(i).Interface())
		}
		return list{items: items}
	}

	return unrecognized{value: arg}
}

func newItem(raw any) item {
	p, _ := ports.AsPlugin(raw)
	return item{plugin: p, name: ports.PluginName(raw), raw: raw}
}
