// cmd/crawler/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crawler",
	Short: "Crawl public GitHub repositories into Postgres",
	Long: `crawler pages through the GitHub GraphQL repository search, merges every
repository into Postgres and records one session row per run.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
