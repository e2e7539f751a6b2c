package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/justchokingaround/anenyong/internal/clipboard"
	"github.com/justchokingaround/anenyong/internal/episodes"
	"github.com/justchokingaround/anenyong/internal/history"
	"github.com/justchokingaround/anenyong/internal/server"
	"github.com/justchokingaround/anenyong/internal/tui"
	"github.com/justchokingaround/anenyong/internal/view"
)

const requestTimeout = 30 * time.Second

// searchCmd searches the catalog
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search anime by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		logger.Info("searching", "query", query)
		results, err := client.Search(ctx, query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		cards := view.New(client.Codec()).Cards(results)
		fmt.Printf("Found %d results for %q:\n\n", len(cards), query)
		for i, c := range cards {
			fmt.Printf("%d. %s\n", i+1, c.Title)
			fmt.Printf("   ID: %s\n", c.ID)
			if c.Badge != "" {
				fmt.Printf("   Status: %s\n", c.Badge)
			}
			if c.Caption != "" {
				fmt.Printf("   Rating: %s\n", c.Caption)
			}
			fmt.Println()
		}
		return nil
	},
}

// episodesCmd prints one page of a series' episode list
var episodesCmd = &cobra.Command{
	Use:   "episodes <series-slug>",
	Short: "List the episodes of a series",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		filter, _ := cmd.Flags().GetString("filter")
		pageSize, _ := cmd.Flags().GetInt("page-size")
		if pageSize <= 0 {
			pageSize = cfg.Episodes.PageSize
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		series, err := client.Series(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to load series: %w", err)
		}
		store.SetContext(series.ID, series.Title, series.PosterURL)

		browser := episodes.NewBrowser(series.Episodes, pageSize)
		browser.SetFilter(filter)
		browser.SelectPage(page - 1)

		fmt.Printf("%s (%d episodes)\n", series.Title, browser.Total())
		switch {
		case browser.Filtering():
			fmt.Printf("Filter: %q\n", browser.Filter())
		case browser.ShowPager():
			fmt.Printf("%s (page %d/%d)\n", browser.PageLabels()[browser.Page()], browser.Page()+1, browser.Pages())
		}
		fmt.Println()

		rows := view.New(client.Codec()).EpisodeRows(browser.Visible())
		if len(rows) == 0 {
			fmt.Println("No episodes found")
			return nil
		}
		for _, r := range rows {
			fmt.Printf("%-14s %s\n", r.Number, r.Label)
			fmt.Printf("%-14s ID: %s\n", "", r.ID)
		}
		return nil
	},
}

// watchCmd resolves an episode's stream and records it in the history
var watchCmd = &cobra.Command{
	Use:   "watch <episode-slug>",
	Short: "Show the stream and download links of an episode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		open, _ := cmd.Flags().GetBool("open")
		copyURL, _ := cmd.Flags().GetBool("copy")

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		ep, err := client.Episode(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to load episode: %w", err)
		}

		// a fresh process has no series context, so take it from the episode's series
		if _, ok := store.Context(); !ok && ep.SeriesID != "" {
			series, err := client.Series(ctx, ep.SeriesID)
			if err != nil {
				logger.Warn("could not load series for history", "series", ep.SeriesID, "error", err)
			} else {
				store.SetContext(series.ID, series.Title, series.PosterURL)
			}
		}
		recorded := store.RecordFromContext(history.Episode{
			ID:     ep.ID,
			Number: history.EpisodeNumberFromTitle(ep.Title),
			Title:  ep.Title,
		})

		sv := view.New(client.Codec()).Stream(ep)
		fmt.Println(sv.Title)
		if sv.StreamURL == "" {
			fmt.Println("No stream available for this episode")
		} else {
			fmt.Printf("Stream: %s\n", sv.StreamURL)
		}
		if sv.Previous != nil {
			fmt.Printf("Previous: %s\n", sv.Previous.EpisodeID)
		}
		if sv.Next != nil {
			fmt.Printf("Next: %s\n", sv.Next.EpisodeID)
		}
		if sv.Downloads != nil {
			fmt.Printf("\n%s\n", sv.Downloads.Heading)
			for _, l := range sv.Downloads.Links {
				fmt.Printf("  %-12s %s\n", l.Provider, l.URL)
			}
		}
		if !recorded {
			fmt.Println("\nNot saved to history: series unknown")
		}

		if sv.StreamURL == "" || (!open && !copyURL) {
			return nil
		}
		desktop := tui.NewDesktop(clipboard.NewService(cfg.Advanced.ClipboardCommand, logger))
		if copyURL {
			if err := desktop.Copy(sv.StreamURL); err != nil {
				return fmt.Errorf("failed to copy stream url: %w", err)
			}
			fmt.Println("Stream URL copied to clipboard")
		}
		if open {
			if err := desktop.OpenURL(sv.StreamURL); err != nil {
				return fmt.Errorf("failed to open stream: %w", err)
			}
		}
		return nil
	},
}

// historyCmd manages the watch history
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the watch history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyListCmd.RunE(cmd, args)
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watched series, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cards := view.New(client.Codec()).HistoryCards(store.All(), time.Now())
		if len(cards) == 0 {
			fmt.Println("Nothing watched yet.")
			return nil
		}
		for i, c := range cards {
			fmt.Printf("%d. %s  %s  (%s)\n", i+1, c.Title, c.Badge, c.Watched)
			fmt.Printf("   Series: %s  Episode: %s\n", c.SeriesID, c.EpisodeID)
		}
		return nil
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <series-slug>",
	Short: "Remove a series from the watch history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !store.Remove(args[0]) {
			return fmt.Errorf("%s is not in the history", args[0])
		}
		fmt.Printf("Removed %s from history\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole watch history",
	RunE: func(cmd *cobra.Command, args []string) error {
		store.Clear()
		fmt.Println("History cleared")
		return nil
	},
}

// serveCmd runs the companion HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the image proxy, sitemap and robots server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Listening on %s\n", cfg.Server.Addr)
		return server.New(cfg, client, logger).Run(ctx)
	},
}

func init() {
	episodesCmd.Flags().Int("page", 1, "page to show (1-based)")
	episodesCmd.Flags().String("filter", "", "only show episodes whose number or title contains this text")
	episodesCmd.Flags().Int("page-size", 0, "episodes per page (default from config)")

	watchCmd.Flags().Bool("open", false, "open the stream in the browser")
	watchCmd.Flags().Bool("copy", false, "copy the stream url to the clipboard")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyRemoveCmd)
	historyCmd.AddCommand(historyClearCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from config)")
}
