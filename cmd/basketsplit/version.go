package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the basketsplit version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("basketsplit", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
