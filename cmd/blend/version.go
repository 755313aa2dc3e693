package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/blend"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of blend",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "blend version %s\n", strings.TrimSpace(blend.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
