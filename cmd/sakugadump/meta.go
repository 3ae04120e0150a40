package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakuga-dev/sakuga/config"
)

var metaCmd = &cobra.Command{
	Use:   "meta <file>",
	Short: "Print a document's metadata sidecar",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m, err := config.LoadMeta(args[0])
		if err != nil {
			slog.Error("meta failed", "file", args[0], "error", err)
			os.Exit(1)
		}
		fmt.Printf("id: %s\nname: %s\nsaved_at: %s\n", m.ID, m.Name, m.SavedAt)
	},
}

func init() {
	rootCmd.AddCommand(metaCmd)
}
