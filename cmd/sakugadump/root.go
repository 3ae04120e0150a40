package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sakugadump",
	Short: "Inspect serialized sakuga documents",
	Long:  `Sakugadump decodes a saved document stream and prints its object tree, bone forests, and influence cache tables.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
