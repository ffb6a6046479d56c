package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run one crawl until the target count or the end of the results",
	Long: `Applies pending migrations, then pages through the configured search query
until TOTAL_REPOS repositories were fetched or GitHub has no more results.
An interrupt stops the crawl after the current page; the session is still recorded.
Exits non-zero when GitHub rejects the token.`,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.migrate(); err != nil {
		return err
	}

	sum, err := a.newSyncer().Run(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Crawled %d repositories (%d new, %d updated), stopped: %s\n",
		sum.TotalFetched, sum.Inserted, sum.Updated, sum.StopReason)
	return nil
}
