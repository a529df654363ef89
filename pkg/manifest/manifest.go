// Package manifest loads declarative plugin pipelines from YAML, JSON or TOML.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/enhance/pkg/app"
	"github.com/aretw0/enhance/pkg/domain"
	"github.com/aretw0/enhance/pkg/ports"
	"github.com/aretw0/enhance/pkg/registry"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format names a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Manifest describes the decorator options and the ordered steps to apply.
type Manifest struct {
	// Options are handed to the decorator.
	Options domain.Options `mapstructure:"options"`
	Steps   []Step         `mapstructure:"steps"`
}

// Step is one use call: a list of plugins plus options merged before them.
type Step struct {
	Options domain.Options `mapstructure:"options"`
	Plugins []Entry        `mapstructure:"plugins"`
}

// Entry names a registry plugin and its configuration. A bare string in the
// file is shorthand for an entry without configuration.
type Entry struct {
	Name   string         `mapstructure:"name"`
	Config map[string]any `mapstructure:"config"`
}

// FormatFromPath picks the format from the file extension. Anything unknown is YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return m, nil
}

// Parse decodes a manifest from data.
func Parse(data []byte, format Format) (*Manifest, error) {
	raw := map[string]any{}

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	var m Manifest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &m,
		ErrorUnused: true,
		DecodeHook:  entryFromString,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}

// entryFromString lets "set" stand for {name: set}.
func entryFromString(from, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to == reflect.TypeOf(Entry{}) {
		return map[string]any{"name": data}, nil
	}
	return data, nil
}

// Validate checks that every entry has a name known to reg.
func (m *Manifest) Validate(reg *registry.Registry) error {
	var errs []error
	for i, step := range m.Steps {
		for j, e := range step.Plugins {
			switch {
			case e.Name == "":
				errs = append(errs, fmt.Errorf("steps[%d].plugins[%d]: missing name", i, j))
			case !reg.Has(e.Name):
				errs = append(errs, fmt.Errorf("steps[%d].plugins[%d]: %w: %s", i, j, domain.ErrPluginNotFound, e.Name))
			}
		}
	}
	return errors.Join(errs...)
}

// Build builds the plugins of a step, in order. An entry that cannot be
// built becomes a plugin failing with the build error, so the failure is
// reported through the host's error channel at its position in the list.
func (s Step) Build(reg *registry.Registry) []ports.Plugin {
	out := make([]ports.Plugin, len(s.Plugins))
	for i, e := range s.Plugins {
		named, err := reg.Build(e.Name, e.Config)
		if err != nil {
			buildErr := err
			out[i] = func(ports.Application) (domain.Transformer, error) {
				return nil, buildErr
			}
			continue
		}
		out[i] = named.Plugin
	}
	return out
}

// Apply hands every step to a.Use, in order, and returns a for chaining.
func (m *Manifest) Apply(a *app.App, reg *registry.Registry) *app.App {
	for _, step := range m.Steps {
		a.Use(step.named(reg), step.Options)
	}
	return a
}

// named is Build with the entry names kept for error reports.
func (s Step) named(reg *registry.Registry) []ports.NamedPlugin {
	plugins := s.Build(reg)
	out := make([]ports.NamedPlugin, len(plugins))
	for i, p := range plugins {
		out[i] = ports.NamedPlugin{Name: s.Plugins[i].Name, Plugin: p}
	}
	return out
}
