package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ecosort/internal/model"
	"ecosort/internal/service/analytics"
)

var (
	historyJSON  bool
	historyChart string
	clearYes     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent classifications and the category breakdown",
	Long: `List the most recent classifications stored by the backend together
with a per-category count.

Examples:
  ecosort history
  ecosort history --json
  ecosort history --chart breakdown.png`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var clearHistoryCmd = &cobra.Command{
	Use:   "clear-history",
	Short: "Delete every stored classification",
	Args:  cobra.NoArgs,
	RunE:  runClearHistory,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(historyCmd, clearHistoryCmd, healthCmd)

	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
	historyCmd.Flags().StringVar(&historyChart, "chart", "", "write the category pie chart PNG to this path")
	clearHistoryCmd.Flags().BoolVar(&clearYes, "yes", false, "confirm deleting all history")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp()
	f := a.Flow()

	ctx, cancel := commandContext(cmd)
	defer cancel()
	if err := f.SyncHistory(ctx); err != nil {
		return err
	}

	entries := f.Store().Snapshot().History
	series := f.Analytics()
	out := cmd.OutOrStdout()

	if historyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			History []model.HistoryEntry `json:"history"`
			Slices  []analytics.Slice    `json:"slices"`
			Total   int                  `json:"total"`
		}{entries, series.Slices(), series.Total()})
	}

	renderHistory(out, entries, time.Now())
	fmt.Fprintln(out)
	renderAnalytics(out, series)

	if historyChart != "" {
		file, err := os.Create(historyChart)
		if err != nil {
			return fmt.Errorf("failed to create chart file: %w", err)
		}
		defer file.Close()
		if err := analytics.RenderPie(file, series, analytics.DefaultWidth, analytics.DefaultHeight); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "📊 Chart written to %s\n", historyChart)
	}
	return nil
}

func runClearHistory(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return fmt.Errorf("refusing to clear history without --yes")
	}

	a, closeApp, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp()

	ctx, cancel := commandContext(cmd)
	defer cancel()
	if err := a.Flow().ClearHistory(ctx, true); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "🧹 History cleared")
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp()

	ctx, cancel := commandContext(cmd)
	defer cancel()
	if err := a.CheckBackend(ctx); err != nil {
		return fmt.Errorf("backend is not healthy: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✅ Backend is healthy")
	return nil
}
