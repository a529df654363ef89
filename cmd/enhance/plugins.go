package main

import (
	"fmt"

	"github.com/aretw0/enhance/pkg/plugins/builtin"
	"github.com/aretw0/enhance/pkg/registry"
	"github.com/spf13/cobra"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the plugins a manifest can name",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range newRegistry().Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}

func newRegistry() *registry.Registry {
	reg := registry.NewRegistry()
	builtin.Register(reg)
	return reg
}
