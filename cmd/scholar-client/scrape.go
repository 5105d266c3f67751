// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pdiddy/scholar-client/internal/api"
	"github.com/pdiddy/scholar-client/internal/view"
	"github.com/pdiddy/scholar-client/pkg/types"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [author name]",
	Short: "Scrape an author's publications and show the new articles",
	Long: `Scrape sends an author name to the scraping API. The backend finds the
author's profile, collects every article, and stores those it has not seen
before. The newly stored articles are printed when it finishes.

A scrape can take several minutes; the request gives up after
--timeout (default 10m). The author may be given as arguments or --author.`,
	Example: `  scholar-client scrape "Ada Lovelace"
  scholar-client scrape --author "Grace Hopper" --format json`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("author", "", "author name to scrape")
	scrapeCmd.Flags().Duration("timeout", 0, "give up after this long (default 10m)")
	scrapeCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	scrapeCmd.Flags().Bool("quiet", false, "do not show a progress spinner")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	author, _ := cmd.Flags().GetString("author")
	if author == "" {
		author = strings.Join(args, " ")
	}
	author = strings.TrimSpace(author)
	format, _ := cmd.Flags().GetString("format")
	quiet, _ := cmd.Flags().GetBool("quiet")

	status := view.NewReporter(os.Stderr)
	if author == "" {
		status.Set(view.ScrapeStatus(nil, api.ErrAuthorRequired))
		return api.ErrAuthorRequired
	}

	cfg := clientConfig()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.ScrapeTimeout = timeout
	}
	client := api.NewClient(cfg, nil, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	status.Info(view.MsgScraping)
	var spinner *view.Spinner
	if !quiet && term.IsTerminal(int(os.Stderr.Fd())) {
		spinner = view.StartSpinner(os.Stderr, author)
	}
	res, err := client.Scrape(ctx, author)
	if spinner != nil {
		spinner.Stop()
	}

	st := view.ScrapeStatus(res, err)
	status.Set(st)

	store := openCache()
	if store != nil {
		defer store.Close()
		run := types.ScrapeRun{Author: author, Message: st.Message, Failed: err != nil}
		if res != nil {
			run.Inserted = res.Inserted
		}
		// The run is recorded even if the user interrupted the request.
		if recErr := store.RecordRun(context.Background(), run); recErr != nil {
			logger.Warningf("recording scrape run: %v", recErr)
		}
	}

	if err != nil {
		logger.Errorf("scrape of %q failed: %v", author, err)
		return err
	}

	if store != nil {
		added, mergeErr := store.Merge(ctx, res.Last)
		if mergeErr != nil {
			logger.Warningf("caching scraped articles: %v", mergeErr)
		} else {
			logger.Debugf("cached %d of %d scraped articles", added, len(res.Last))
		}
	}
	return view.Write(os.Stdout, view.Format(format), res.Last)
}
