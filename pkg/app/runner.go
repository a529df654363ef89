package app

import (
	"fmt"

	"github.com/aretw0/enhance/pkg/domain"
	"github.com/aretw0/enhance/pkg/ports"
)

// RunnerName is the registration marker recorded by Runner.
const RunnerName = "runner"

// transformerSource is implemented by hosts that stack plugin transformers.
type transformerSource interface {
	Transformers() []domain.Transformer
}

// Runner returns a plugin that gives the host a "run" method applying every
// stacked transformer to the context, in registration order. The first failing
// transformer stops the run.
func Runner() ports.Plugin {
	return func(host ports.Application) (domain.Transformer, error) {
		if host.IsRegistered(RunnerName) {
			return nil, nil
		}
		src, ok := host.(transformerSource)
		if !ok {
			return nil, fmt.Errorf("host %T does not stack transformers", host)
		}
		host.MarkRegistered(RunnerName)

		host.Define(domain.MethodRun, ports.RunMethod(func(ctx domain.Context) error {
			if ctx == nil {
				return ErrNilContext
			}
			for i, tr := range src.Transformers() {
				if err := tr(ctx); err != nil {
					return fmt.Errorf("transformer %d: %w", i, err)
				}
			}
			return nil
		}))
		return nil, nil
	}
}
