// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-client/internal/api"
	"github.com/pdiddy/scholar-client/internal/cache"
	"github.com/pdiddy/scholar-client/internal/view"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every article stored by the backend",
	Long: `List fetches all stored articles from the scraping API and prints them
as a table, or as the raw records with --format json|yaml.

With --refresh the list is fetched again at that interval until interrupted.
With --offline the last list saved in the local cache is shown instead.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	listCmd.Flags().Duration("refresh", 0, "re-fetch the list at this interval (e.g. 30s)")
	listCmd.Flags().Bool("offline", false, "show the cached list without contacting the API")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	refresh, _ := cmd.Flags().GetDuration("refresh")
	offline, _ := cmd.Flags().GetBool("offline")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := openCache()
	if store != nil {
		defer store.Close()
	}
	status := view.NewReporter(os.Stderr)

	if offline {
		return showCached(ctx, store, status, view.Format(format))
	}

	l := &lister{
		client: newClient(),
		store:  store,
		status: status,
		out:    os.Stdout,
		format: view.Format(format),
	}
	err := l.once(ctx)
	if refresh <= 0 {
		return err
	}

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// A failed refresh keeps the loop alive; the status line reports it.
			l.once(ctx)
		}
	}
}

type lister struct {
	client *api.Client
	store  *cache.Store
	status *view.Reporter
	out    io.Writer
	format view.Format
}

// once fetches and prints the list, then stores it in the cache.
func (l *lister) once(ctx context.Context) error {
	l.status.Info(view.MsgLoading)
	articles, err := l.client.ListArticles(ctx)
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	l.status.Set(view.ListStatus(err))
	if err != nil {
		logger.Errorf("listing articles: %v", err)
		return err
	}

	if l.store != nil {
		if err := l.store.Replace(ctx, articles); err != nil {
			logger.Warningf("caching article list: %v", err)
		}
	}
	return view.Write(l.out, l.format, articles)
}

func showCached(ctx context.Context, store *cache.Store, status *view.Reporter, format view.Format) error {
	if store == nil {
		return fmt.Errorf("--offline needs the local cache; remove --no-cache")
	}
	articles, fetched, err := store.Articles(ctx)
	if err != nil {
		return err
	}
	if fetched.IsZero() {
		status.Info("Cache is empty; run list while the API is reachable")
	} else {
		status.Info(fmt.Sprintf("Showing cached list from %s", fetched.Local().Format(time.DateTime)))
	}
	return view.Write(os.Stdout, format, articles)
}
