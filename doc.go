/*
Package enhance upgrades a host's plugin system with error containment.

It is a decorator applied once to a host application (see package app). After
it is installed, the host's "use" accepts a single plugin or an ordered list
of plugins plus an options mapping merged into the shared options store, and
neither "use" nor "run" lets a plugin failure escape: failures, returned errors
and panics alike, are emitted on the host's error channel instead.

# Concept

A plugin is a function invoked with the host. A smart plugin also returns a
Transformer that the host's run method applies to a Context later.

Failures are contained per plugin during registration, so one failing plugin
in a list never prevents the rest from being registered. A run is contained as
a single call.

# Usage

	package main

	import (
		"fmt"

		"github.com/aretw0/enhance"
		"github.com/aretw0/enhance/pkg/app"
		"github.com/aretw0/enhance/pkg/domain"
		"github.com/aretw0/enhance/pkg/ports"
	)

	func main() {
		a := app.New(app.WithOptions(domain.Options{"x": "y"}))
		a.OnError(func(err error) {
			fmt.Println("plugin failed:", err)
		})

		a.Use(app.Runner()).
			Use(enhance.New(domain.Options{"aa": "aaa"})).
			Use([]ports.Plugin{
				func(ports.Application) (domain.Transformer, error) {
					return func(ctx domain.Context) error {
						ctx["foo"] = "fooooo"
						return nil
					}, nil
				},
			}, domain.Options{"multiple": true})

		ctx := domain.Context{"charlike": "mike"}
		a.Run(ctx)
		fmt.Println(ctx["foo"])
	}
*/
package enhance
