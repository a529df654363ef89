package domain

// Options is the configuration mapping attached to a host application.
// Keys are caller-defined and merged verbatim.
type Options map[string]any

// Merge shallow-merges the sources into a fresh copy of base.
// Later sources win per key. Nested maps are copied by reference.
func Merge(base Options, sources ...Options) Options {
	size := len(base)
	for _, src := range sources {
		size += len(src)
	}

	out := make(Options, size)
	for k, v := range base {
		out[k] = v
	}
	for _, src := range sources {
		for k, v := range src {
			out[k] = v
		}
	}
	return out
}

// Clone returns a shallow copy of the options. A nil receiver yields an empty map.
func (o Options) Clone() Options {
	return Merge(o)
}
