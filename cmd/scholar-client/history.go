// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-client/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent scrape requests made from this machine",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of runs to show")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store := openCache()
	if store == nil {
		return fmt.Errorf("history needs the local cache; remove --no-cache")
	}
	defer store.Close()

	runs, err := store.Runs(context.Background(), limit)
	if err != nil {
		return err
	}
	return formatHistory(runs, jsonOutput)
}

func formatHistory(runs []types.ScrapeRun, jsonOutput bool) error {
	if jsonOutput {
		if runs == nil {
			runs = []types.ScrapeRun{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No scrape runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-19s  %-30s  %-8s  %-6s  %s\n",
		"Time", "Author", "Inserted", "Result", "Message")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range runs {
		author := r.Author
		if runes := []rune(author); len(runes) > 30 {
			author = string(runes[:27]) + "..."
		}
		result := "ok"
		if r.Failed {
			result = "failed"
		}
		fmt.Fprintf(os.Stdout, "%-19s  %-30s  %-8d  %-6s  %s\n",
			r.Timestamp.Local().Format(time.DateTime), author, r.Inserted, result, r.Message)
	}
	return nil
}
