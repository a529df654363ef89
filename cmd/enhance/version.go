package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/enhance"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of enhance",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "enhance version %s\n", strings.TrimSpace(enhance.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
