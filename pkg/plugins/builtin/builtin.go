// Package builtin provides the stock plugins addressable by name from manifests.
package builtin

import (
	"errors"
	"fmt"

	"github.com/aretw0/enhance/pkg/domain"
	"github.com/aretw0/enhance/pkg/ports"
	"github.com/aretw0/enhance/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

// ErrMissingKey is returned when a plugin requiring a key gets none.
var ErrMissingKey = errors.New("missing key")

// KeyConfig configures plugins that act on one key.
type KeyConfig struct {
	Key   string `mapstructure:"key"`
	Value any    `mapstructure:"value"`
}

// OptionsConfig configures the options plugin.
type OptionsConfig struct {
	Prefix string `mapstructure:"prefix"`
}

// FailConfig configures the failure plugins.
type FailConfig struct {
	Message string `mapstructure:"message"`
	Panic   bool   `mapstructure:"panic"`
}

// Register installs every builtin into reg.
func Register(reg *registry.Registry) {
	reg.Register("set", Set)
	reg.Register("delete", Delete)
	reg.Register("option", Option)
	reg.Register("options", CopyOptions)
	reg.Register("fail", Fail)
	reg.Register("fail-run", FailRun)
}

// Set builds a smart plugin whose transformer writes value under key.
func Set(config map[string]any) (ports.Plugin, error) {
	var cfg KeyConfig
	if err := decode(config, &cfg); err != nil {
		return nil, err
	}
	if cfg.Key == "" {
		return nil, ErrMissingKey
	}
	return func(ports.Application) (domain.Transformer, error) {
		return func(ctx domain.Context) error {
			ctx[cfg.Key] = cfg.Value
			return nil
		}, nil
	}, nil
}

// Delete builds a smart plugin whose transformer removes key.
func Delete(config map[string]any) (ports.Plugin, error) {
	var cfg KeyConfig
	if err := decode(config, &cfg); err != nil {
		return nil, err
	}
	if cfg.Key == "" {
		return nil, ErrMissingKey
	}
	return func(ports.Application) (domain.Transformer, error) {
		return func(ctx domain.Context) error {
			delete(ctx, cfg.Key)
			return nil
		}, nil
	}, nil
}

// Option builds a plugin that writes one option at registration time.
func Option(config map[string]any) (ports.Plugin, error) {
	var cfg KeyConfig
	if err := decode(config, &cfg); err != nil {
		return nil, err
	}
	if cfg.Key == "" {
		return nil, ErrMissingKey
	}
	return func(app ports.Application) (domain.Transformer, error) {
		return nil, app.MergeOptions(domain.Options{cfg.Key: cfg.Value})
	}, nil
}

// CopyOptions builds a smart plugin that copies the host options, as they
// are at run time, into the context. Keys get the configured prefix.
func CopyOptions(config map[string]any) (ports.Plugin, error) {
	var cfg OptionsConfig
	if err := decode(config, &cfg); err != nil {
		return nil, err
	}
	return func(app ports.Application) (domain.Transformer, error) {
		return func(ctx domain.Context) error {
			for k, v := range app.Options() {
				ctx[cfg.Prefix+k] = v
			}
			return nil
		}, nil
	}, nil
}

// Fail builds a plugin that fails at registration, by error or by panic.
func Fail(config map[string]any) (ports.Plugin, error) {
	cfg := FailConfig{Message: "plugin failed"}
	if err := decode(config, &cfg); err != nil {
		return nil, err
	}
	return func(ports.Application) (domain.Transformer, error) {
		if cfg.Panic {
			panic(cfg.Message)
		}
		return nil, errors.New(cfg.Message)
	}, nil
}

// FailRun builds a smart plugin whose transformer fails.
func FailRun(config map[string]any) (ports.Plugin, error) {
	cfg := FailConfig{Message: "transformer failed"}
	if err := decode(config, &cfg); err != nil {
		return nil, err
	}
	return func(ports.Application) (domain.Transformer, error) {
		return func(domain.Context) error {
			if cfg.Panic {
				panic(cfg.Message)
			}
			return errors.New(cfg.Message)
		}, nil
	}, nil
}

// decode maps a config block onto out, rejecting unknown keys.
func decode(config map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
