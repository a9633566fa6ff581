package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"ecosort/internal/model"
	"ecosort/internal/service/analytics"
)

const barWidth = 20

func renderResult(w io.Writer, r model.PredictionResult) {
	title := "Result"
	if r.Demo {
		title = "Result (demo)"
	}
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "  Category:   %s\n", r.Category.Label())
	fmt.Fprintf(w, "  Confidence: %s\n", model.Percent(r.Confidence))
	fmt.Fprintf(w, "  Disposal:   %s\n", r.Category.Disposal())
}

func renderHistory(w io.Writer, entries []model.HistoryEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tCONFIDENCE\tWHEN")
	for _, e := range entries {
		when := "-"
		if !e.Timestamp.IsZero() {
			when = humanize.RelTime(e.Timestamp, now, "ago", "from now")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Category.Label(), model.Percent(e.Confidence), when)
	}
	tw.Flush()
}

// renderAnalytics prints one bar per category scaled to the largest count.
func renderAnalytics(w io.Writer, s analytics.Series) {
	total := s.Total()
	fmt.Fprintf(w, "Category breakdown (%d total)\n", total)
	if total == 0 {
		fmt.Fprintf(w, "  %s\n", analytics.NoDataLabel)
		return
	}

	max := 0
	for _, v := range s.Values() {
		if v > max {
			max = v
		}
	}

	for _, slice := range s.Slices() {
		filled := slice.Count * barWidth / max
		fmt.Fprintf(w, "  %-8s %s%s %d\n",
			slice.Label,
			strings.Repeat("█", filled),
			strings.Repeat("·", barWidth-filled),
			slice.Count,
		)
	}
}
